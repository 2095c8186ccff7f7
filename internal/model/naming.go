package model

import (
	"strings"

	"github.com/Iron-Ham/finishcopy/internal/errors"
)

// ForbiddenNameChars are the characters the host refuses in element names.
const ForbiddenNameChars = "\\:{}[]|;<>?`~"

// ValidateName checks that name can be assigned to a model entity.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewValidationError("name must not be empty").WithField("name")
	}
	if i := strings.IndexAny(name, ForbiddenNameChars); i >= 0 {
		return errors.NewValidationError("name contains a forbidden character " + quoteRune(name[i])).
			WithField("name").
			WithValue(name)
	}
	if strings.ContainsFunc(name, func(r rune) bool { return r < 0x20 }) {
		return errors.NewValidationError("name contains a control character").
			WithField("name").
			WithValue(name)
	}
	return nil
}

func quoteRune(b byte) string {
	return "'" + string(b) + "'"
}
