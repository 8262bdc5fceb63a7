// Loads and represents the engine configuration.
//
// Configuration is an explicit value: Load constructs it from the TOML
// file and QUARRY_* environment overrides, command handlers overlay
// their flags, and every component receives the result as an argument.
package config
