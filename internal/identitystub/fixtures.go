package identitystub

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// User is one fixture account. PasswordHash is a bcrypt hash; plain
// passwords never appear in fixture files.
type User struct {
	ID              string `yaml:"id"`
	Email           string `yaml:"email"`
	Name            string `yaml:"name"`
	PasswordHash    string `yaml:"password_hash"`
	ProfileComplete bool   `yaml:"profile_complete"`
}

type fixtureFile struct {
	Users []User `yaml:"users"`
}

// LoadUsers reads fixture accounts from a YAML file. Users without an
// id get a generated one; emails are lowercased and must be unique.
func LoadUsers(path string) ([]User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Users))
	users := make([]User, 0, len(file.Users))
	for i, u := range file.Users {
		u.Email = strings.ToLower(strings.TrimSpace(u.Email))
		if u.Email == "" {
			return nil, fmt.Errorf("fixture user %d: email required", i)
		}
		if u.PasswordHash == "" {
			return nil, fmt.Errorf("fixture user %q: password_hash required", u.Email)
		}
		if _, dup := seen[u.Email]; dup {
			return nil, fmt.Errorf("fixture user %q: duplicate email", u.Email)
		}
		seen[u.Email] = struct{}{}
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		users = append(users, u)
	}
	return users, nil
}
