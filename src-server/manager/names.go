package manager

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// cleanName trims and capitalizes a person's name. The rest of each word is
// left alone so "McDonald" survives.
func cleanName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return cases.Title(language.English, cases.NoLower).String(s)
}
