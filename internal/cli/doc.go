// Package cli parses command-line arguments into an app.Config. It owns flag
// definitions, usage text and argument validation, nothing else.
package cli
