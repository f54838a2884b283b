// Package validation checks registration input against the field rules of
// the auth API and reports violations as a field → message-code map.
package validation

import (
	"context"
	"errors"
	"regexp"

	"github.com/gmeladze/identity-service/internal/common"
	"github.com/gmeladze/identity-service/internal/logging"
	"github.com/gmeladze/identity-service/internal/server/messages"
	"github.com/gmeladze/identity-service/internal/server/repositories/accounts"
)

// RegisterForm is the registration payload as submitted by clients.
type RegisterForm struct {
	Email                string `json:"email"`
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
	AgreedOnTerms        bool   `json:"agreedOnTerms"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 6

// Validator evaluates every rule independently and collects all violations;
// it never fails outright. The email-uniqueness rule is advisory: it needs a
// repository lookup, and if that lookup errors the rule is skipped; the
// unique index decides at write time.
type Validator struct {
	repo   accounts.Repository
	logger logging.Logger
}

func New(repo accounts.Repository, logger logging.Logger) *Validator {
	return &Validator{repo: repo, logger: logger.With("module", "validation")}
}

// ValidateRegistration returns an empty map when the form is valid.
func (v *Validator) ValidateRegistration(ctx context.Context, form RegisterForm) map[string]messages.Code {
	errs := map[string]messages.Code{}

	switch {
	case form.Email == "":
		errs["email"] = messages.EmptyField
	case !emailPattern.MatchString(form.Email):
		errs["email"] = messages.InvalidEmail
	default:
		_, err := v.repo.FindByEmail(ctx, form.Email)
		switch {
		case err == nil:
			errs["email"] = messages.EmailAlreadyUsed
		case errors.Is(err, common.ErrorNotFound):
			// email is available
		default:
			v.logger.Warn(ctx, "email uniqueness pre-check skipped", "error", err.Error())
		}
	}

	if form.FirstName == "" {
		errs["firstName"] = messages.EmptyField
	}
	if form.LastName == "" {
		errs["lastName"] = messages.EmptyField
	}

	switch {
	case form.Password == "":
		errs["password"] = messages.EmptyField
	case len(form.Password) < minPasswordLength:
		errs["password"] = messages.PasswordLength
	}

	switch {
	case form.PasswordConfirmation == "":
		errs["passwordConfirmation"] = messages.EmptyField
	case form.PasswordConfirmation != form.Password:
		errs["passwordConfirmation"] = messages.PasswordDoesNotMatch
	}

	if !form.AgreedOnTerms {
		errs["agreedOnTerms"] = messages.TermsNotAgreed
	}

	return errs
}
