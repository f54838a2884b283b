// Package models defines the persisted entities of the identity service.
package models

import "time"

// AuthType discriminates how an account authenticates. It is set at creation
// and never changes: a password compare is only valid for local accounts, and
// provider trust is only valid for federated ones.
type AuthType string

const (
	AuthTypeLocal     AuthType = "local"
	AuthTypeFederated AuthType = "federated"
)

// Account is the sole persisted entity. Password holds the reversible
// ciphertext produced by cryptox; federated accounts store an encrypted
// provider-supplied value there so password-shaped flows stay structurally
// consistent.
type Account struct {
	ID            string
	Email         string
	FirstName     string
	LastName      string
	Password      string
	IsAdmin       bool
	AuthType      AuthType
	AgreedOnTerms bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AccountView is the account as exposed to callers: no password, optionally
// carrying a freshly issued access token.
type AccountView struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	IsAdmin       bool      `json:"isAdmin"`
	AuthType      AuthType  `json:"authType"`
	AgreedOnTerms bool      `json:"agreedOnTerms"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	AccessToken   string    `json:"accessToken,omitempty"`
}

// View strips the credential from the account.
func (a *Account) View() *AccountView {
	return &AccountView{
		ID:            a.ID,
		Email:         a.Email,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		IsAdmin:       a.IsAdmin,
		AuthType:      a.AuthType,
		AgreedOnTerms: a.AgreedOnTerms,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
