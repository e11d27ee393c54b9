package form

import "strings"

// KeyBackspace is the key name browsers report for backspace.
const KeyBackspace = "Backspace"

// AcceptKey reports whether a keystroke should reach a continuous field that
// currently holds current. Digits and backspace always pass; a decimal point
// passes only if current has none. This is an input aid, not validation:
// a lone "." is still accepted.
func AcceptKey(current, key string) bool {
	switch {
	case key == KeyBackspace:
		return true
	case key == ".":
		return !strings.Contains(current, ".")
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		return true
	}
	return false
}

