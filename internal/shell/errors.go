package shell

import "errors"

var ErrExec = errors.New("script execution failed")
