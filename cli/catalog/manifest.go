package catalog

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"

	"github.com/forge-cli/forge/cli/vars"
)

const (
	// ManifestName is the schema sidecar file name inside a template.
	ManifestName = "MANIFEST.yaml"
)

// manifestVar describes one variable declaration in a template manifest.
type manifestVar struct {
	// Name is a variable name to store a value to.
	Name string
	// Required marks the variable as mandatory.
	Required bool
	// Default is a default value.
	Default string
	// Rule is a naming rule name for value validation.
	Rule string
}

// templateManifest is a schema sidecar for a template.
type templateManifest struct {
	// Description is a template description.
	Description string
	// Vars is a set of variable declarations.
	Vars []manifestVar
}

// parseManifest decodes manifest content and converts it to a variable
// schema.
func parseManifest(content []byte) (string, vars.Schema, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return "", nil, fmt.Errorf("failed to parse manifest YAML: %s", err)
	}

	var manifest templateManifest
	if err := mapstructure.Decode(raw, &manifest); err != nil {
		return "", nil, fmt.Errorf("failed to decode template manifest: %s", err)
	}

	schema := make(vars.Schema, 0, len(manifest.Vars))
	for _, varInfo := range manifest.Vars {
		if varInfo.Name == "" {
			return "", nil, fmt.Errorf("missing variable name")
		}
		if !vars.IsValidName(varInfo.Name) {
			return "", nil, fmt.Errorf("invalid variable name %q", varInfo.Name)
		}
		rule, err := vars.ParseRule(varInfo.Rule)
		if err != nil {
			return "", nil, fmt.Errorf("variable %q: %s", varInfo.Name, err)
		}
		schema = append(schema, vars.Decl{
			Name:     varInfo.Name,
			Required: varInfo.Required,
			Default:  varInfo.Default,
			Rule:     rule,
		})
	}

	if err := validateSchema(schema); err != nil {
		return "", nil, err
	}

	return manifest.Description, schema, nil
}

// validateSchema rejects duplicate declarations and declarations
// colliding with derived case-variant names of other variables.
func validateSchema(schema vars.Schema) error {
	seen := make(map[string]bool, len(schema))
	for _, decl := range schema {
		if seen[decl.Name] {
			return fmt.Errorf("variable %q is declared twice", decl.Name)
		}
		seen[decl.Name] = true
	}

	for _, decl := range schema {
		for _, suffix := range vars.VariantSuffixes() {
			derived := decl.Name + suffix
			if seen[derived] {
				return fmt.Errorf(
					"variable %q collides with a case variant of %q", derived, decl.Name)
			}
		}
	}
	return nil
}
