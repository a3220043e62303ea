// Package stringsx holds small string helpers shared by the display code.
package stringsx

import "strings"

// Collapse folds every run of whitespace (spaces, tabs, newlines, and any
// other unicode space) into a single space and trims both ends, so a raw
// BibTeX value fits on one display line.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
