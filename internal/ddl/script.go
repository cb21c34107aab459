package ddl

import "strings"

// lineComment is the marker for pure-comment fragments in a DDL script.
const lineComment = "--"

// SplitScript splits a DDL script into individual executable statements.
//
// The script is split on the statement terminator (";"); each fragment is
// trimmed, and fragments that are empty or begin with a line comment are
// discarded. Surviving statements keep their original order.
func SplitScript(script string) []string {
	var stmts []string
	for _, fragment := range strings.Split(script, ";") {
		stmt := strings.TrimSpace(fragment)
		if stmt == "" || strings.HasPrefix(stmt, lineComment) {
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}
