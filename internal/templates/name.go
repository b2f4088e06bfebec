package templates

import (
	"regexp"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// ValidateName checks that name can be used as a template directory name:
// lowercase letters, digits, '-' and '_', starting with a letter or digit,
// at most 63 characters.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return errors.New("E201").
			WithDetail(name).
			WithSuggestion("Use lowercase letters, digits, '-' and '_', e.g. admin-dashboard")
	}
	return nil
}
