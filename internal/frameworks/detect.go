package frameworks

import "strings"

// Matches reports whether the framework's detection rules match any
// dependency name in deps.
func Matches(fw Framework, deps map[string]string) bool {
	for dep := range deps {
		if MatchesDep(fw, dep) {
			return true
		}
	}
	return false
}

// MatchesDep reports whether a single dependency name matches any of the
// framework's detection rules.
func MatchesDep(fw Framework, dep string) bool {
	for _, rule := range fw.Detect {
		switch rule.Kind {
		case RuleExact:
			if dep == rule.Value {
				return true
			}
		case RulePrefix:
			if strings.HasPrefix(dep, rule.Value) {
				return true
			}
		}
	}
	return false
}

// DetectAll returns the keys of all catalog frameworks matched by the
// dependency map, in sorted order.
func DetectAll(deps map[string]string) []string {
	var found []string
	for _, key := range Keys() {
		if Matches(Catalog[key], deps) {
			found = append(found, key)
		}
	}
	return found
}

// ExactPackage returns the npm package name from the framework's first
// exact detection rule, or "" when it has none. Prefix rules cannot be
// inverted to a single package, so they are ignored here.
func ExactPackage(fw Framework) string {
	for _, rule := range fw.Detect {
		if rule.Kind == RuleExact {
			return rule.Value
		}
	}
	return ""
}
