package analyzer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// pascalCase turns a file stem such as "user-profile" or "user_profile" into
// "UserProfile". Stems that are already PascalCase are kept. A Caser is
// stateful, so each call builds its own; scan workers call this in parallel.
func pascalCase(stem string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	return b.String()
}
