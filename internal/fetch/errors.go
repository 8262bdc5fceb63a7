package fetch

import "errors"

var ErrDownload = errors.New("download failed")
