// Package catalog discovers project templates and indexes them by key.
// A template is a directory, a gzipped tar archive or a built-in file
// tree compiled into the binary, optionally carrying a MANIFEST.yaml
// schema sidecar. The catalog is built once and is read-only afterwards,
// so it is safe to share between concurrent generation requests.
package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"

	"github.com/forge-cli/forge/cli/util"
)

// NotFoundError is reported when a requested template key is absent
// from the catalog.
type NotFoundError struct {
	// Key is the requested template key.
	Key string
}

// Error returns error message.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("template %q is not found", e.Key)
}

// Catalog is an immutable index of templates by key.
type Catalog struct {
	templates map[string]*TemplateDescriptor
}

// archiveSuffixes are recognized template archive file name suffixes.
var archiveSuffixes = []string{".tgz", ".tar.gz"}

// Build discovers templates in searchPaths, in order, and then in the
// built-in set. The first source that defines a key wins. Every
// discovered template is validated structurally: an empty template,
// a duplicate path inside an archive, a malformed manifest or a token
// referencing a variable the manifest does not declare fail the build,
// so Resolve failures at request time are limited to unknown keys.
// Pass nil builtins to build a catalog from search paths only.
func Build(searchPaths []string, builtins fs.FS) (*Catalog, error) {
	catalog := Catalog{templates: make(map[string]*TemplateDescriptor)}

	for _, searchPath := range searchPaths {
		if !util.IsDir(searchPath) {
			log.Debugf("Templates location %q is not a directory, skipping", searchPath)
			continue
		}
		entries, err := os.ReadDir(searchPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read templates location %q: %s", searchPath, err)
		}

		for _, entry := range entries {
			key, descriptor, err := loadSearchPathEntry(searchPath, entry)
			if err != nil {
				return nil, err
			}
			if descriptor == nil {
				continue
			}
			if _, found := catalog.templates[key]; found {
				log.Debugf("Template %q from %q is shadowed", key, searchPath)
				continue
			}
			catalog.templates[key] = descriptor
		}
	}

	if builtins != nil {
		if err := catalog.loadBuiltins(builtins); err != nil {
			return nil, err
		}
	}

	return &catalog, nil
}

// loadSearchPathEntry builds a descriptor for one entry of a templates
// location: a template directory or a template archive. Other entries
// are ignored.
func loadSearchPathEntry(searchPath string, entry os.DirEntry) (string,
	*TemplateDescriptor, error,
) {
	entryPath := filepath.Join(searchPath, entry.Name())

	if entry.IsDir() {
		descriptor, err := newDirDescriptor(entry.Name(), entryPath)
		if err != nil {
			return "", nil, err
		}
		return entry.Name(), descriptor, nil
	}

	if !entry.Type().IsRegular() {
		return "", nil, nil
	}
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(entry.Name(), suffix) {
			key := strings.TrimSuffix(entry.Name(), suffix)
			descriptor, err := newArchiveDescriptor(key, entryPath)
			if err != nil {
				return "", nil, err
			}
			return key, descriptor, nil
		}
	}
	return "", nil, nil
}

// loadBuiltins indexes built-in templates. Built-ins never shadow
// templates found in search paths.
func (c *Catalog) loadBuiltins(builtins fs.FS) error {
	entries, err := fs.ReadDir(builtins, ".")
	if err != nil {
		return fmt.Errorf("failed to read built-in templates: %s", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, found := c.templates[entry.Name()]; found {
			continue
		}
		sub, err := fs.Sub(builtins, entry.Name())
		if err != nil {
			return err
		}
		descriptor, err := newFSDescriptor(entry.Name(), sub)
		if err != nil {
			return err
		}
		c.templates[entry.Name()] = descriptor
	}
	return nil
}

// Resolve returns the descriptor of the template with the given key.
func (c *Catalog) Resolve(key string) (*TemplateDescriptor, error) {
	descriptor, found := c.templates[key]
	if !found {
		return nil, NotFoundError{Key: key}
	}
	return descriptor, nil
}

// Keys returns all known template keys, sorted.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.templates))
	for key := range c.templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
