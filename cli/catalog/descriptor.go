package catalog

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/codeclysm/extract/v3"
	"github.com/otiai10/copy"

	"github.com/forge-cli/forge/cli/render"
	"github.com/forge-cli/forge/cli/util"
	"github.com/forge-cli/forge/cli/vars"
)

const defaultPermissions = os.FileMode(0o755)

// sniffLen is the number of leading bytes inspected to classify a file
// as binary.
const sniffLen = 8000

type sourceKind int

const (
	sourceDir sourceKind = iota
	sourceArchive
	sourceEmbedded
)

// FileEntry describes one regular file of a template tree.
type FileEntry struct {
	// Path is a slash-separated path relative to the template root.
	Path string
	// Binary is true if the file content must not be run through
	// placeholder substitution.
	Binary bool
}

// TemplateDescriptor is an immutable description of one catalog entry:
// its key, variable schema and file tree source.
type TemplateDescriptor struct {
	// Key is a unique template identifier within the catalog.
	Key string
	// Description is a human-readable template description.
	Description string
	// Schema is the declared variable set.
	Schema vars.Schema
	// Files lists regular files of the template, sorted by path.
	// The manifest sidecar is not included.
	Files []FileEntry

	kind    sourceKind
	srcPath string
	fsys    fs.FS
	binary  map[string]bool
}

// IsBinary reports whether the file at relPath was classified as binary
// at catalog build time.
func (t *TemplateDescriptor) IsBinary(relPath string) bool {
	return t.binary[relPath]
}

// CopyTree copies the template file tree, including the manifest
// sidecar, into dstPath. dstPath must be an existing directory.
func (t *TemplateDescriptor) CopyTree(ctx context.Context, dstPath string) error {
	switch t.kind {
	case sourceDir:
		if err := copy.Copy(t.srcPath, dstPath); err != nil {
			return fmt.Errorf("template copying failed: %s", err)
		}
	case sourceArchive:
		archive, err := os.Open(t.srcPath)
		if err != nil {
			return fmt.Errorf("error opening %s: %s", t.srcPath, err)
		}
		defer archive.Close()
		if err := extract.Gz(ctx, archive, dstPath, func(s string) string { return s }); err != nil {
			return fmt.Errorf("template archive extraction failed: %s", err)
		}
	case sourceEmbedded:
		if err := copyFSTree(t.fsys, dstPath); err != nil {
			return fmt.Errorf("template copying failed: %s", err)
		}
	}

	if err := os.Chmod(dstPath, defaultPermissions); err != nil {
		return fmt.Errorf("failed to change permissions of %s: %s", dstPath, err)
	}
	return nil
}

// copyFSTree materializes an embedded template file tree at dstPath.
func copyFSTree(fsys fs.FS, dstPath string) error {
	return fs.WalkDir(fsys, ".", func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if filePath == "." {
			return nil
		}
		target := filepath.Join(dstPath, filepath.FromSlash(filePath))
		if entry.IsDir() {
			return os.MkdirAll(target, defaultPermissions)
		}
		content, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return err
		}
		return util.WriteFileSafe(target, content, 0o644)
	})
}

// collectTokens records variable identifiers referenced by a template
// file, both in its path and in its content. Binary content is not
// scanned.
func collectTokens(tokens map[string]string, relPath string, content []byte,
	binary bool,
) {
	record := func(names []string) {
		for _, name := range names {
			if _, found := tokens[name]; !found {
				tokens[name] = relPath
			}
		}
	}
	record(render.Identifiers(relPath))
	if !binary {
		record(render.Identifiers(string(content)))
	}
}

// looksBinary reports whether the leading bytes of a file contain a
// NUL byte.
func looksBinary(head []byte) bool {
	return bytes.IndexByte(head, 0) >= 0
}

// finishDescriptor sorts entries, parses the manifest and checks
// structural well-formedness shared by all template sources. For a
// template carrying a manifest, every token referenced by the template
// must be resolvable from the declared schema.
func finishDescriptor(descriptor *TemplateDescriptor, manifestContent []byte,
	tokens map[string]string,
) error {
	if len(descriptor.Files) == 0 {
		return fmt.Errorf("template %q is empty", descriptor.Key)
	}

	if manifestContent != nil {
		description, schema, err := parseManifest(manifestContent)
		if err != nil {
			return fmt.Errorf("invalid manifest of template %q: %s", descriptor.Key, err)
		}
		descriptor.Description = description
		descriptor.Schema = schema

		names := make([]string, 0, len(tokens))
		for name := range tokens {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !schema.Resolvable(name) {
				return fmt.Errorf("template %q references undeclared variable %q in %s",
					descriptor.Key, name, tokens[name])
			}
		}
	}

	sort.Slice(descriptor.Files, func(i, j int) bool {
		return descriptor.Files[i].Path < descriptor.Files[j].Path
	})
	return nil
}

// newDirDescriptor builds a descriptor for a template stored as a
// plain directory.
func newDirDescriptor(key, dirPath string) (*TemplateDescriptor, error) {
	descriptor := TemplateDescriptor{
		Key:     key,
		kind:    sourceDir,
		srcPath: dirPath,
		binary:  make(map[string]bool),
	}

	var manifestContent []byte
	tokens := make(map[string]string)
	err := filepath.Walk(dirPath, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fileInfo.Mode().IsRegular() {
			return nil
		}
		relPath, err := filepath.Rel(dirPath, filePath)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == ManifestName {
			manifestContent, err = util.GetFileContentBytes(filePath)
			return err
		}

		content, err := util.GetFileContentBytes(filePath)
		if err != nil {
			return err
		}
		head := content
		if len(head) > sniffLen {
			head = head[:sniffLen]
		}
		binary := looksBinary(head)
		descriptor.Files = append(descriptor.Files, FileEntry{Path: relPath, Binary: binary})
		descriptor.binary[relPath] = binary
		collectTokens(tokens, relPath, content, binary)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan template %q: %s", key, err)
	}

	if err := finishDescriptor(&descriptor, manifestContent, tokens); err != nil {
		return nil, err
	}
	return &descriptor, nil
}

// newArchiveDescriptor builds a descriptor for a template packaged as a
// gzipped tar archive.
func newArchiveDescriptor(key, archivePath string) (*TemplateDescriptor, error) {
	archive, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %s", archivePath, err)
	}
	defer archive.Close()

	gzReader, err := gzip.NewReader(archive)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %s", archivePath, err)
	}
	defer gzReader.Close()

	descriptor := TemplateDescriptor{
		Key:     key,
		kind:    sourceArchive,
		srcPath: archivePath,
		binary:  make(map[string]bool),
	}

	var manifestContent []byte
	tokens := make(map[string]string)
	seen := make(map[string]bool)
	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %s", archivePath, err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		relPath := path.Clean(header.Name)
		if seen[relPath] {
			return nil, fmt.Errorf("template %q contains duplicate path %q", key, relPath)
		}
		seen[relPath] = true

		if relPath == ManifestName {
			manifestContent, err = io.ReadAll(tarReader)
			if err != nil {
				return nil, fmt.Errorf("error reading %s: %s", archivePath, err)
			}
			continue
		}

		content, err := io.ReadAll(tarReader)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %s", archivePath, err)
		}
		head := content
		if len(head) > sniffLen {
			head = head[:sniffLen]
		}
		binary := looksBinary(head)
		descriptor.Files = append(descriptor.Files, FileEntry{Path: relPath, Binary: binary})
		descriptor.binary[relPath] = binary
		collectTokens(tokens, relPath, content, binary)
	}

	if err := finishDescriptor(&descriptor, manifestContent, tokens); err != nil {
		return nil, err
	}
	return &descriptor, nil
}

// newFSDescriptor builds a descriptor for a built-in template compiled
// into the binary. fsys must be rooted at the template directory.
func newFSDescriptor(key string, fsys fs.FS) (*TemplateDescriptor, error) {
	descriptor := TemplateDescriptor{
		Key:    key,
		kind:   sourceEmbedded,
		fsys:   fsys,
		binary: make(map[string]bool),
	}

	var manifestContent []byte
	tokens := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		content, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return err
		}
		if filePath == ManifestName {
			manifestContent = content
			return nil
		}
		head := content
		if len(head) > sniffLen {
			head = head[:sniffLen]
		}
		binary := looksBinary(head)
		descriptor.Files = append(descriptor.Files, FileEntry{Path: filePath, Binary: binary})
		descriptor.binary[filePath] = binary
		collectTokens(tokens, filePath, content, binary)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan template %q: %s", key, err)
	}

	if err := finishDescriptor(&descriptor, manifestContent, tokens); err != nil {
		return nil, err
	}
	return &descriptor, nil
}
