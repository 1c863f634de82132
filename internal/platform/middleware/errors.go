// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import "errors"

var (
	errNilIdentity    = errors.New("middleware: strategy authenticated without an identity")
	errUnknownOutcome = errors.New("middleware: strategy returned an unknown outcome")
)
