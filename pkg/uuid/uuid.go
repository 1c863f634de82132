// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the identifiers used for accounts and request IDs.

Values are version 7 UUIDs: time-ordered, so account IDs sort by creation
and stay friendly to the primary-key index.
*/
package uuid

import "github.com/google/uuid"

// New returns a new UUIDv7 string.
//
// It panics only if the system entropy source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate v7: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
