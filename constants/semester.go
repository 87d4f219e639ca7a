package constants

import (
	"strings"
)

type Semester string

const (
	Fall   Semester = "Fall"
	Spring Semester = "Spring"
	Summer Semester = "Summer"
	Winter Semester = "Winter"
)

var allSemesters = []Semester{
	Fall,
	Spring,
	Summer,
	Winter,
}

func Semesters() []string {
	result := make([]string, len(allSemesters))
	for i, s := range allSemesters {
		result[i] = string(s)
	}
	return result
}

func CanonicalizeSemester(input string) (Semester, bool) {
	if input == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Semester{
		"autumn": Fall,
		"fa":     Fall,
		"sp":     Spring,
		"su":     Summer,
		"wi":     Winter,
	}

	if s, ok := synonyms[normalized]; ok {
		return s, true
	}

	// check if it matches any semester string
	for _, s := range allSemesters {
		if normalized == strings.ToLower(string(s)) {
			return s, true
		}
	}

	return "", false
}
