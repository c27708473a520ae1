// Package render implements flat placeholder substitution for template
// files and file names. A placeholder is a {{identifier}} token; the
// identifier must start with a letter and may contain letters, digits
// and underscores. Doubled delimiters produce literal braces.
package render

import (
	"fmt"
	"os"
	"strings"
)

// UndefinedVariableError is reported when template text references a
// variable absent from the rendering context.
type UndefinedVariableError struct {
	// Name is the offending identifier.
	Name string
	// File is a path of the template file the token occurred in.
	// Empty for standalone text rendering.
	File string
}

// Error returns error message.
func (e UndefinedVariableError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("undefined variable %q in %s", e.Name, e.File)
	}
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// Engine renders template text and files against a set of variables.
type Engine interface {
	// RenderFile applies vars to the template from srcPath.
	// Rendered content is saved as dstPath with source file permissions.
	RenderFile(srcPath string, dstPath string, vars map[string]string) error

	// RenderText applies vars to the template text. Returns rendered text.
	RenderText(in string, vars map[string]string) (string, error)
}

// NewEngine creates and returns default template engine.
func NewEngine() Engine {
	return tokenEngine{}
}

type tokenEngine struct{}

// RenderText substitutes all tokens in the input text.
func (tokenEngine) RenderText(in string, vars map[string]string) (string, error) {
	var out strings.Builder
	for _, c := range lex(in) {
		switch c.kind {
		case literalChunk:
			out.WriteString(c.text)
		case variableChunk:
			value, found := vars[c.text]
			if !found {
				return "", UndefinedVariableError{Name: c.text}
			}
			out.WriteString(value)
		}
	}
	return out.String(), nil
}

// RenderFile renders srcPath template to dstPath.
func (e tokenEngine) RenderFile(srcPath string, dstPath string, vars map[string]string) error {
	stat, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("error getting file info %s: %s", srcPath, err)
	}

	content, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("error reading %s: %s", srcPath, err)
	}

	rendered, err := e.RenderText(string(content), vars)
	if err != nil {
		if undefErr, ok := err.(UndefinedVariableError); ok {
			undefErr.File = srcPath
			return undefErr
		}
		return err
	}

	if err := os.WriteFile(dstPath, []byte(rendered), stat.Mode().Perm()); err != nil {
		return fmt.Errorf("error writing %s: %s", dstPath, err)
	}
	return nil
}
