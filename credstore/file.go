package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goodwiins/authflow"
)

// ErrUnavailable wraps backend failures (unreadable file, Redis outage)
// so callers can treat every store the same way.
var ErrUnavailable = errors.New("credential store unavailable")

type fileRecord struct {
	RememberMe bool   `json:"remember_me"`
	SavedEmail string `json:"saved_email"`
}

// File persists the preference as a small JSON file, the desktop
// equivalent of browser local storage. Writes go through a temp file
// and rename so a crash never leaves a half-written record.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a File store at path. The parent directory must
// exist; the file itself is created on first Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the record. A missing file is the zero preference.
func (f *File) Load(context.Context) (authflow.SavedCredentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return authflow.SavedCredentials{}, nil
		}
		return authflow.SavedCredentials{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return authflow.SavedCredentials{}, fmt.Errorf("%w: corrupt record: %v", ErrUnavailable, err)
	}

	return authflow.SavedCredentials{Email: rec.SavedEmail, RememberMe: rec.RememberMe}, nil
}

// Save writes the record with the remember-me flag set.
func (f *File) Save(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(fileRecord{RememberMe: true, SavedEmail: email})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credstore-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Clear removes the file. A file that never existed is already clear.
func (f *File) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
