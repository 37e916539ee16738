package sql

import "strings"

// ExtractColumns pulls the projected column names out of a SELECT
// statement for usage attribution. It splits on the first select/from
// boundary, splits the projection list on commas, trims whitespace and
// drops a trailing " as <alias>" fragment from each item. The * wildcard
// contributes no attributable usage and is discarded.
//
// This is best-effort telemetry, not a correctness gate: anything that
// does not parse yields an empty list, never an error.
func ExtractColumns(sqlQuery string) []string {
	lower := strings.ToLower(sqlQuery)

	_, after, found := strings.Cut(lower, "select")
	if !found {
		return nil
	}

	// Everything up to the first FROM is the projection list. A missing
	// FROM keeps the remainder, mirroring the lenient select/from split.
	projection, _, _ := strings.Cut(after, "from")

	var columns []string
	for _, item := range strings.Split(projection, ",") {
		item = strings.TrimSpace(item)
		if item == "" || item == "*" {
			continue
		}
		// "total as t" attributes usage to "total", not the alias.
		name, _, _ := strings.Cut(item, " as ")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		columns = append(columns, name)
	}

	return columns
}
