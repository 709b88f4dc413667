// Package config resolves the KlippAi configuration from command-line
// overrides, environment variables, a YAML settings file and built-in
// defaults, in that order of precedence.
//
// The resolved [Config] is a plain value. It is built once per process by
// [Load] and handed to the provider factory; nothing downstream reads the
// process environment again. The printer and Moonraker sections written by
// the setup wizard are persisted with [SavePrinterAndKlipper].
package config
