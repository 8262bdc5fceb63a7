package version

import "errors"

var ErrMalformedVersion = errors.New("malformed version")
