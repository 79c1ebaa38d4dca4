// Package identity generates synthetic personal data for test seeding.
// Candidate pools are fixed and never mutated; all randomness comes from
// crypto/rand, so a Generator is safe for concurrent use.
package identity

import "time"

// Persona bundles one generated name with a username, email and password
// derived from it.
type Persona struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	Surname   string    `json:"surname"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName returns "first surname".
func (p Persona) FullName() string {
	return p.FirstName + " " + p.Surname
}

// PersonaOptions controls the derived fields of a Persona.
type PersonaOptions struct {
	// Domain is the email domain; empty picks from the generator's pool.
	Domain      string
	UsernameMin int
	UsernameMax int
	Password    PasswordOptions
}

// DefaultPersonaOptions returns the individual generator defaults, with one
// character of each enabled class guaranteed in the password so personas
// always pass the default password rules.
func DefaultPersonaOptions() PersonaOptions {
	pw := DefaultPasswordOptions()
	pw.MinLower, pw.MinUpper, pw.MinDigits = 1, 1, 1
	return PersonaOptions{
		UsernameMin: DefaultUsernameMinLen,
		UsernameMax: DefaultUsernameMaxLen,
		Password:    pw,
	}
}
