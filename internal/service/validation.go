package service

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.@-]+$`)

// Credentials is the username/password pair accepted by signup and login.
type Credentials struct {
	Username string
	Password string
}

// Validate checks signup input. Passwords are capped at 72 bytes, the most
// bcrypt will hash.
func (c Credentials) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Username,
			validation.Required,
			validation.Length(1, 64),
			validation.Match(usernamePattern).Error("must contain only letters, digits, '_', '.', '@' or '-'"),
		),
		validation.Field(&c.Password,
			validation.Required,
			validation.By(maxBytes(72)),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func maxBytes(limit int) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if len(s) > limit {
			return fmt.Errorf("must be at most %d bytes long", limit)
		}
		return nil
	}
}
