// Package app owns the application lifecycle: it turns a parsed CLI
// configuration into a configured logger, drives the compiler over the
// scenario file, writes the generated script and optionally hands it to the
// runner.
package app
