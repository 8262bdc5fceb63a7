package artifact

import "errors"

var (
	ErrNotADirectory = errors.New("manifest target is not a directory")
	ErrPackaging     = errors.New("packaging failed")
	ErrExtract       = errors.New("archive extraction failed")
)
