package vars

import (
	"fmt"
	"os"
	"strings"

	"github.com/forge-cli/forge/cli/util"
)

const formatError = `wrong variable definition format: %s
Usage: --var "var-name=value"`

// ParseDefinition parses a single "name=value" variable definition.
func ParseDefinition(definition string) (string, string, error) {
	definition = strings.TrimSpace(definition)
	name, value, found := strings.Cut(definition, "=")
	if !found || name == "" || value == "" {
		return "", "", fmt.Errorf(formatError, definition)
	}
	return name, value, nil
}

// ParseDefinitions parses a set of "name=value" definitions into a
// bindings map. A later definition of the same name wins.
func ParseDefinitions(definitions []string) (map[string]string, error) {
	bindings := make(map[string]string, len(definitions))
	for _, definition := range definitions {
		name, value, err := ParseDefinition(definition)
		if err != nil {
			return nil, err
		}
		bindings[name] = value
	}
	return bindings, nil
}

// LoadDefinitionsFile reads variable definitions from a file, one
// "name=value" per line. Blank lines and lines starting with # are
// skipped.
func LoadDefinitionsFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vars file loading error: %s", err)
	}
	defer file.Close()

	bindings := make(map[string]string)
	scanner := util.FileLinesScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, err := ParseDefinition(line)
		if err != nil {
			return nil, fmt.Errorf("failed to load vars from %s: %s", path, err)
		}
		bindings[name] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return bindings, nil
}
