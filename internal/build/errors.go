package build

import "errors"

var (
	ErrWorkspaceExists     = errors.New("workspace already exists")
	ErrSourceUnavailable   = errors.New("source unavailable")
	ErrSourceIntegrity     = errors.New("source checksum mismatch")
	ErrHookFailed          = errors.New("hook failed")
	ErrFileSystemOperation = errors.New("file system operation failed")
)
