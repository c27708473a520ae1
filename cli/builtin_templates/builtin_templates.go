// Package builtin_templates provides project templates compiled into
// the binary. The templates directory is underscore-prefixed so its
// source stubs are never treated as packages of this module.
package builtin_templates

import (
	"embed"
	"io/fs"
)

//go:embed all:_templates
var templatesFs embed.FS

// Names contains built-in template names.
var Names = [...]string{"go_http", "python_flask", "rust_cli"}

// Root returns the built-in templates file tree, rooted at the
// directory holding one subdirectory per template key.
func Root() (fs.FS, error) {
	return fs.Sub(templatesFs, "_templates")
}
