package model

import "unicode/utf8"

// SectionGroupKey collapses a section code into the group it is aggregated
// under. Purely numeric codes are their own group ("001" -> "001"); any other
// code is grouped by its first character ("A01", "A02" -> "A"). The mapping is
// lossy: "A01" and "A50" are indistinguishable afterwards.
func SectionGroupKey(code string) string {
	if code == "" {
		return ""
	}
	if isDigits(code) {
		return code
	}
	_, size := utf8.DecodeRuneInString(code)
	return code[:size]
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
