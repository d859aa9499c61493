package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/door-sentry/internal/domain/security"
)

var (
	// ErrNotFound is returned when the users file does not exist.
	ErrNotFound = errors.New("users file not found")
	// errNoUsers is returned when the file parses to an empty list.
	errNoUsers = errors.New("users file contains no users")
)

// LoadFile reads the authorized-user list from a JSON file and returns a
// ready Store. The file is a JSON array of {"name": ..., "uid": ...}
// records. Records with an empty uid are rejected.
func LoadFile(path string) (*Store, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return nil, fmt.Errorf("read users file: %w", err)
	}

	var list []security.AuthorizedUser
	if err := json.Unmarshal(contents, &list); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}

	if len(list) == 0 {
		return nil, errNoUsers
	}

	for i, user := range list {
		if NormalizeUID(user.UID) == "" {
			return nil, fmt.Errorf("users file entry %d (%q) has an empty uid", i, user.Name)
		}
	}

	return NewStore(list), nil
}
