package auth

import "time"

// AdminsCollection holds one document per admin, keyed by lower-cased email.
const AdminsCollection = "admins"

type Admin struct {
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Principal is the signed-in admin as the console sees it.
type Principal struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// State is what the provider reports to its observers. A nil Principal means
// no session.
type State struct {
	Principal *Principal
	Token     string
}

// SignedIn reports whether the state carries a session.
func (s State) SignedIn() bool {
	return s.Principal != nil
}
