// Package vars implements template variable schemas and validation of
// user-supplied variable bindings against per-ecosystem naming rules.
package vars

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
)

// Decl is a single variable declaration from a template schema.
type Decl struct {
	// Name is a variable name to store a value to.
	Name string
	// Required is true if the variable must be supplied by the caller
	// when there is no default.
	Required bool
	// Default is a default value. Empty means no default.
	Default string
	// Rule is a naming rule for the value.
	Rule NamingRule
}

// Schema is an ordered set of variable declarations. It is the single
// source of truth for which variables a template accepts.
type Schema []Decl

// Decl returns the declaration of the named variable.
func (s Schema) Decl(name string) (Decl, bool) {
	for _, decl := range s {
		if decl.Name == name {
			return decl, true
		}
	}
	return Decl{}, false
}

// Resolvable reports whether a context built from this schema can
// resolve the named token: a declared variable or a derived case
// variant of one.
func (s Schema) Resolvable(token string) bool {
	if _, found := s.Decl(token); found {
		return true
	}
	for _, decl := range s {
		for _, variant := range caseSuffixes {
			if token == decl.Name+variant.suffix {
				return true
			}
		}
	}
	return false
}

// caseSuffixes are the derived variable name suffixes, keyed by the
// transform applied to the canonical value.
var caseSuffixes = []struct {
	suffix    string
	transform func(string) string
}{
	{"_snake", strcase.ToSnake},
	{"_kebab", strcase.ToKebab},
	{"_pascal", strcase.ToCamel},
	{"_camel", strcase.ToLowerCamel},
	{"_upper", strings.ToUpper},
}

// VariantSuffixes returns the derived case-variant name suffixes.
func VariantSuffixes() []string {
	suffixes := make([]string, 0, len(caseSuffixes))
	for _, variant := range caseSuffixes {
		suffixes = append(suffixes, variant.suffix)
	}
	return suffixes
}

// Context is a validated, normalized set of variable values ready for
// rendering. It is immutable during rendering.
type Context struct {
	// Values maps variable names, including derived case variants,
	// to resolved values.
	Values map[string]string
	// Warnings lists non-fatal validation findings, such as supplied
	// variables not declared by the template.
	Warnings []string
}

// MissingVariableError is reported when a required variable has neither
// a supplied value nor a default.
type MissingVariableError struct {
	// Name is the offending variable name.
	Name string
}

// Error returns error message.
func (e MissingVariableError) Error() string {
	return fmt.Sprintf("required variable %q is not set", e.Name)
}

// InvalidVariableError is reported when a variable value violates its
// declared naming rule.
type InvalidVariableError struct {
	// Name is the offending variable name.
	Name string
	// Rule is the violated naming rule.
	Rule NamingRule
	// Value is the rejected value.
	Value string
	// Reason describes the violation.
	Reason string
}

// Error returns error message.
func (e InvalidVariableError) Error() string {
	return fmt.Sprintf("invalid value %q for variable %q: %s rule: %s",
		e.Value, e.Name, e.Rule, e.Reason)
}

// Validate checks bindings against schema and builds a rendering
// context. Defaults are applied for absent values. Derived case
// variants of every resolved variable are added to the context unless
// the schema declares a variable with the same name.
func Validate(schema Schema, bindings map[string]string) (*Context, error) {
	ctx := Context{Values: make(map[string]string)}

	for _, decl := range schema {
		value, found := bindings[decl.Name]
		if !found {
			if decl.Default == "" {
				if decl.Required {
					return nil, MissingVariableError{Name: decl.Name}
				}
				continue
			}
			value = decl.Default
		}

		if reason := checkRule(decl.Rule, value); reason != "" {
			return nil, InvalidVariableError{
				Name:   decl.Name,
				Rule:   decl.Rule,
				Value:  value,
				Reason: reason,
			}
		}
		ctx.Values[decl.Name] = value
	}

	// Undeclared bindings are reported, not rendered.
	var undeclared []string
	for name := range bindings {
		if _, found := schema.Decl(name); !found {
			undeclared = append(undeclared, name)
		}
	}
	sort.Strings(undeclared)
	for _, name := range undeclared {
		ctx.Warnings = append(ctx.Warnings,
			fmt.Sprintf("variable %q is not declared by the template and is ignored", name))
	}

	// Derived case variants. A variant is skipped if the schema
	// declares a variable with the colliding name.
	for _, decl := range schema {
		value, found := ctx.Values[decl.Name]
		if !found {
			continue
		}
		for _, variant := range caseSuffixes {
			derivedName := decl.Name + variant.suffix
			if _, declared := schema.Decl(derivedName); declared {
				continue
			}
			ctx.Values[derivedName] = variant.transform(value)
		}
	}

	return &ctx, nil
}
