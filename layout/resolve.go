package layout

import (
	"splitflap/alphabet"
	"splitflap/common"
)

// Resolve expands formatted text to exactly flapCount runes according to
// policy. Previous is the final string of the chronologically preceding entry
// and is only consulted for carry policy.
func Resolve(formatted string, flapCount int, policy common.Policy, previous string) string {
	if flapCount <= 0 {
		return ""
	}
	text := []rune(formatted)
	if len(text) >= flapCount {
		return string(text[:flapCount])
	}

	out := make([]rune, 0, flapCount)
	switch policy {
	case common.PolicyCenter:
		indent, remainder := CenterSplit(len(text), flapCount)
		out = appendSpaces(out, indent)
		out = append(out, text...)
		out = appendSpaces(out, remainder)
	case common.PolicyCarry:
		out = append(out, text...)
		prev := []rune(previous)
		for i := len(text); i < flapCount; i++ {
			if i < len(prev) {
				out = append(out, prev[i])
			} else {
				out = append(out, alphabet.Space)
			}
		}
	default:
		out = append(out, text...)
		out = appendSpaces(out, flapCount-len(text))
	}
	return string(out)
}

// CenterSplit returns number of spaces before and after text of length n on a
// board of flapCount flaps. Extra space goes to the right.
func CenterSplit(n, flapCount int) (indent, remainder int) {
	if n >= flapCount {
		return 0, 0
	}
	indent = (flapCount - n) / 2
	remainder = flapCount - indent - n
	return indent, remainder
}

func appendSpaces(out []rune, n int) []rune {
	for range n {
		out = append(out, alphabet.Space)
	}
	return out
}
