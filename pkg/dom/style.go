package dom

import "strings"

type declaration struct {
	prop  string
	value string
}

// parseStyle splits an inline style attribute into ordered declarations.
func parseStyle(raw string) []declaration {
	var out []declaration
	for _, part := range strings.Split(raw, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		out = setDeclaration(out, prop, value)
	}
	return out
}

func setDeclaration(decls []declaration, prop, value string) []declaration {
	for i := range decls {
		if decls[i].prop == prop {
			if value == "" {
				return append(decls[:i], decls[i+1:]...)
			}
			decls[i].value = value
			return decls
		}
	}
	if value == "" {
		return decls
	}
	return append(decls, declaration{prop: prop, value: value})
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		parts = append(parts, decl.prop+": "+decl.value)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + ";"
}
