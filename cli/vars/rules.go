package vars

import "fmt"

// NamingRule restricts the shape of a variable value. The set of rules
// is closed: a manifest referencing an unknown rule is rejected at
// catalog build time.
type NamingRule string

const (
	// RuleFreeText allows any value.
	RuleFreeText NamingRule = "free-text"
	// RuleIdentifier allows bare identifiers: a letter followed by
	// letters, digits and underscores.
	RuleIdentifier NamingRule = "identifier"
	// RulePackageName allows lowercase hyphen- or underscore-separated
	// names with no leading digit.
	RulePackageName NamingRule = "package-name"
	// RuleDisplayName allows free text with whitespace, but no
	// control characters.
	RuleDisplayName NamingRule = "display-name"
)

// maxNameLength bounds identifier and package-name values.
const maxNameLength = 64

// ParseRule converts a manifest rule string to a NamingRule.
func ParseRule(s string) (NamingRule, error) {
	switch NamingRule(s) {
	case RuleFreeText, RuleIdentifier, RulePackageName, RuleDisplayName:
		return NamingRule(s), nil
	case "":
		return RuleFreeText, nil
	}
	return "", fmt.Errorf("unknown naming rule %q", s)
}

// checkRule validates value against rule. Returns a violation
// description, or an empty string if the value is legal.
func checkRule(rule NamingRule, value string) string {
	switch rule {
	case RuleFreeText:
		return ""
	case RuleIdentifier:
		return checkIdentifier(value)
	case RulePackageName:
		return checkPackageName(value)
	case RuleDisplayName:
		return checkDisplayName(value)
	}
	return fmt.Sprintf("unknown naming rule %q", rule)
}

func checkIdentifier(value string) string {
	if value == "" {
		return "must not be empty"
	}
	if len(value) > maxNameLength {
		return fmt.Sprintf("must not be longer than %d characters", maxNameLength)
	}
	if !isLetter(value[0]) {
		return "must start with a letter"
	}
	for i := 1; i < len(value); i++ {
		c := value[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return fmt.Sprintf("must contain only letters, digits and underscores, got %q",
				string(c))
		}
	}
	return ""
}

func checkPackageName(value string) string {
	if value == "" {
		return "must not be empty"
	}
	if len(value) > maxNameLength {
		return fmt.Sprintf("must not be longer than %d characters", maxNameLength)
	}
	if isDigit(value[0]) {
		return "must not start with a digit"
	}
	prevSep := true
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= 'a' && c <= 'z' || isDigit(c):
			prevSep = false
		case c == '-' || c == '_':
			if prevSep {
				return "separators must split non-empty lowercase segments"
			}
			prevSep = true
		default:
			return fmt.Sprintf(
				"must contain only lowercase letters, digits, hyphens and underscores, got %q",
				string(c))
		}
	}
	if prevSep {
		return "must not end with a separator"
	}
	return ""
}

func checkDisplayName(value string) string {
	if value == "" {
		return "must not be empty"
	}
	for _, r := range value {
		if r < 0x20 || r == 0x7f {
			return "must not contain control characters"
		}
	}
	return ""
}

// IsValidName reports whether name is usable as a variable name inside
// placeholder tokens.
func IsValidName(name string) bool {
	return checkIdentifier(name) == ""
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
