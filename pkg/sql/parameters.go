package sql

import (
	"fmt"
	"regexp"
)

// parameterRegex matches {{parameter_name}} placeholders in SQL templates.
// Parameter names must start with a letter or underscore, followed by any
// number of alphanumeric characters or underscores.
var parameterRegex = regexp.MustCompile(`\{\{([a-zA-Z_]\w*)\}\}`)

// ExtractParameters finds all {{param}} placeholders in SQL and returns a
// deduplicated list of parameter names in order of first appearance.
func ExtractParameters(sqlQuery string) []string {
	matches := parameterRegex.FindAllStringSubmatch(sqlQuery, -1)
	seen := make(map[string]bool)
	var params []string

	for _, match := range matches {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			params = append(params, name)
		}
	}

	return params
}

// FindParametersInStringLiterals checks for {{param}} placeholders that
// appear inside SQL string literals (single quotes). Parameters inside
// string literals won't bind: PostgreSQL treats $1 inside a literal as
// text, not as a placeholder.
func FindParametersInStringLiterals(sqlQuery string) []string {
	var problems []string
	seen := make(map[string]bool)

	inString := false
	stringStart := 0
	i := 0

	for i < len(sqlQuery) {
		ch := sqlQuery[i]

		if ch == '\'' {
			if inString {
				// Skip the SQL standard escaped quote ('').
				if i+1 < len(sqlQuery) && sqlQuery[i+1] == '\'' {
					i += 2
					continue
				}
				stringContent := sqlQuery[stringStart+1 : i]
				for _, match := range parameterRegex.FindAllStringSubmatch(stringContent, -1) {
					name := match[1]
					if !seen[name] {
						seen[name] = true
						problems = append(problems, name)
					}
				}
				inString = false
			} else {
				inString = true
				stringStart = i
			}
		}
		i++
	}

	return problems
}

// SubstituteParameters replaces {{param}} placeholders with PostgreSQL
// positional parameters ($1, $2, ...) and returns the prepared SQL along
// with ordered values for binding. A parameter used multiple times is
// bound once and reuses the same position. Every placeholder must have a
// supplied value.
func SubstituteParameters(sqlQuery string, values map[string]any) (string, []any, error) {
	for _, name := range ExtractParameters(sqlQuery) {
		if _, ok := values[name]; !ok {
			return "", nil, fmt.Errorf("parameter {{%s}} used in SQL but no value supplied", name)
		}
	}

	var orderedValues []any
	paramIndex := 1
	paramPositions := make(map[string]int)

	result := parameterRegex.ReplaceAllStringFunc(sqlQuery, func(match string) string {
		name := parameterRegex.FindStringSubmatch(match)[1]

		if pos, exists := paramPositions[name]; exists {
			return fmt.Sprintf("$%d", pos)
		}

		paramPositions[name] = paramIndex
		orderedValues = append(orderedValues, values[name])
		pos := paramIndex
		paramIndex++

		return fmt.Sprintf("$%d", pos)
	})

	return result, orderedValues, nil
}
