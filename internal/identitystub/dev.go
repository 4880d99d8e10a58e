package identitystub

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DevUsers returns built-in demo accounts for runs without a fixture
// file: ada@example.com (password "correct horse", complete profile)
// and newbie@example.com (password "first steps", incomplete profile).
func DevUsers() ([]User, error) {
	seed := []struct {
		email    string
		name     string
		password string
		complete bool
	}{
		{"ada@example.com", "Ada", "correct horse", true},
		{"newbie@example.com", "Newbie", "first steps", false},
	}

	users := make([]User, 0, len(seed))
	for _, s := range seed {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash dev password: %w", err)
		}
		users = append(users, User{
			Email:           s.email,
			Name:            s.name,
			PasswordHash:    string(hash),
			ProfileComplete: s.complete,
		})
	}
	return users, nil
}
