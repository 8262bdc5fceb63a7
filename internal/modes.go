package internal

import (
	"strconv"
	"sync/atomic"
)

// Effective output modes for the running process.
//
// Seeded from linker flags at startup; the CLI stores the final values
// once flags are parsed, so mode queries anywhere in the tree agree
// with the command line.
var (
	quietMode   atomic.Bool
	debugMode   atomic.Bool
	verboseMode atomic.Bool
)

func init() {
	quietMode.Store(parseRawMode(rawQuiet))
	debugMode.Store(parseRawMode(rawDebug))
	verboseMode.Store(parseRawMode(rawVerbose))
}

// Interprets a linker-flag mode value. Unset or unparseable values
// leave the mode disabled.
func parseRawMode(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

// Records whether informational output is suppressed.
func SetQuiet(enabled bool) {
	quietMode.Store(enabled)
}

// Whether informational output is suppressed.
func IsQuiet() bool {
	return quietMode.Load()
}

// Records whether debug output is enabled.
func SetDebug(enabled bool) {
	debugMode.Store(enabled)
}

// Whether debug output is enabled.
func IsDebug() bool {
	return debugMode.Load()
}

// Records whether verbose output is enabled.
func SetVerbose(enabled bool) {
	verboseMode.Store(enabled)
}

// Whether verbose output is enabled.
func IsVerbose() bool {
	return verboseMode.Load()
}
