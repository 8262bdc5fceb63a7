package recipe

import "errors"

var (
	ErrEval                = errors.New("recipe evaluation failed")
	ErrAmbiguousField      = errors.New("field defined as both variable and function")
	ErrMissingField        = errors.New("required field not defined")
	ErrSourceCountMismatch = errors.New("source and checksum counts differ")
)
