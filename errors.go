package termgrid

import "errors"

// Package errors.
var (
	// ErrInvalidSize indicates buffer dimensions that cannot be allocated.
	ErrInvalidSize = errors.New("invalid buffer dimensions")

	// ErrInvalidEncoding indicates a malformed byte sequence in a write stream.
	ErrInvalidEncoding = errors.New("invalid byte sequence")

	// ErrInvalidRune indicates a decoded codepoint the cell model cannot represent.
	ErrInvalidRune = errors.New("unsupported codepoint")
)
