package domain

import "strings"

// User is the session subject. The board consumes users read-only; only the
// login flow reads the password hash.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}

// NewUser constructs a normalized user record.
func NewUser(name, email, passwordHash string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, ErrInvalidEmail
	}
	return User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: passwordHash,
	}, nil
}

// Initial returns the single-rune avatar fallback for the user.
func (u User) Initial() string {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		name = u.Email
	}
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}
