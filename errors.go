// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"errors"
	"fmt"
)

// Decode-path errors are fatal to the page they occur on: extraction of that
// page stops and the error propagates to the caller.
var (
	// ErrUTF8Decode reports text data that the raw fallback decoder could
	// not interpret as UTF-8.
	ErrUTF8Decode = errors.New("invalid UTF-8 text data")

	// ErrUTF16Decode reports text data that the raw fallback decoder could
	// not interpret as UTF-16BE.
	ErrUTF16Decode = errors.New("invalid UTF-16BE text data")
)

// UnexpectedPrimitiveError reports a marked-content properties value of the
// wrong shape, e.g. a "Span" tag whose properties is not a dictionary.
type UnexpectedPrimitiveError struct {
	Expected string
	Found    string
}

func (e *UnexpectedPrimitiveError) Error() string {
	return fmt.Sprintf("unexpected primitive: expected %s, found %s", e.Expected, e.Found)
}

// UnsupportedEncodingError reports a font naming a base encoding this
// resolver does not implement. It never aborts a page: the registry logs it
// and drops the font, which then resolves to the default no-op decoder.
type UnsupportedEncodingError struct {
	Encoding string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported base encoding %q", e.Encoding)
}
