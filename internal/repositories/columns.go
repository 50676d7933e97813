package repositories

import "strings"

// aliasedColumns prefixes every column in a comma-separated list with a table
// alias, for joined queries.
func aliasedColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, alias+"."+p)
	}
	return strings.Join(out, ", ")
}
