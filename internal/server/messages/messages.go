// Package messages defines the stable symbolic response codes of the auth
// API. Localized presentation strings are a client concern; the server only
// ever emits these codes.
package messages

type Code string

const (
	InvalidCredentials   Code = "invalidCredentials"
	EmailAlreadyUsed     Code = "emailAlreadyUsed"
	Unexpected           Code = "unexpected"
	LoginSuccess         Code = "loginSuccess"
	RegisterSuccess      Code = "registerSuccess"
	EmptyField           Code = "emptyField"
	InvalidEmail         Code = "invalidEmail"
	PasswordDoesNotMatch Code = "passwordDoesNotMatch"
	PasswordLength       Code = "passwordLength"
	TermsNotAgreed       Code = "termsNotAgreed"
	InvalidFormValues    Code = "invalidFormValues"
)
