// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "errors"

var (
	// ErrUserNotFound is returned by repositories when no row matches.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrDuplicateUsername is returned by repositories on a unique-username violation.
	ErrDuplicateUsername = errors.New("auth: username already exists")

	// ErrPlaintextPassword is returned when a record reaches persistence
	// without a valid hash. It indicates a programming error.
	ErrPlaintextPassword = errors.New("auth: refusing to persist an unhashed password")

	// ErrReadOnlyRecord is returned when a cached record is passed to Save.
	ErrReadOnlyRecord = errors.New("auth: cached user records are read-only")
)
