package jcat

import (
	"encoding/json"
	"errors"
	"fmt"
	"syscall"
)

// ParseError reports a document that is not exactly one valid JSON value.
type ParseError struct {
	// Source names the input, "<stdin>" for standard input. It may be empty
	// when the error comes straight from Decode.
	Source string
	// Offset is the byte offset in the input where decoding stopped.
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid JSON at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: invalid JSON at offset %d: %v", e.Source, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(dec *json.Decoder, err error) *ParseError {
	pe := &ParseError{Offset: dec.InputOffset(), Err: err}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		pe.Offset = se.Offset
	}
	return pe
}

// IsBrokenPipe reports whether err was caused by writing to a pipe or socket
// whose reader went away.
func IsBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE)
}
