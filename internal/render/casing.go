package render

import "strings"

// transformKey rewrites a canonical camelCase property name into the
// configured case style. Transformation applies to keys only, never to
// string values.
func transformKey(key string, caseStyle string) string {
	switch caseStyle {
	case CaseStylePascal:
		return camelToPascal(key)
	case CaseStyleKebab:
		return camelToDelimited(key, '-')
	case CaseStyleSnake:
		return camelToDelimited(key, '_')
	default:
		return key
	}
}

// camelToPascal upper-cases the first letter of a camelCase key.
func camelToPascal(key string) string {
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

// camelToDelimited lowers a camelCase key and inserts the delimiter before
// each interior upper-case letter.
func camelToDelimited(key string, delimiter rune) string {
	var builder strings.Builder
	builder.Grow(len(key) + 4)
	for position, character := range key {
		if character >= 'A' && character <= 'Z' {
			if position > 0 {
				builder.WriteRune(delimiter)
			}
			builder.WriteRune(character - 'A' + 'a')
			continue
		}
		builder.WriteRune(character)
	}
	return builder.String()
}
