package sql

import (
	"regexp"
	"strings"
)

// tablePatterns match table identifiers in DDL text. Both the full
// "CREATE TABLE name" form and the bare "TABLE name" form are scanned so
// dialect fragments (ALTER TABLE, partial dumps) still contribute names.
var tablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?(\w+)`),
	regexp.MustCompile(`(?i)TABLE\s+(\w+)`),
}

// TableSet is a set of table names known from a schema, stored lowercase.
type TableSet map[string]struct{}

// Contains reports whether the set holds the given name (case-insensitive
// callers should lowercase before calling; ExtractTableNames already
// stores lowercase).
func (s TableSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// ExtractTableNames scans raw DDL text and returns the set of table names
// it declares. An empty or missing schema yields an empty set; that is a
// valid state, and downstream validation treats it as "nothing can be
// schema-grounded" and rejects every query.
func ExtractTableNames(schemaText string) TableSet {
	tables := make(TableSet)
	if schemaText == "" {
		return tables
	}

	for _, pattern := range tablePatterns {
		for _, match := range pattern.FindAllStringSubmatch(schemaText, -1) {
			tables[strings.ToLower(match[1])] = struct{}{}
		}
	}

	return tables
}
