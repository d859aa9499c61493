package users

import (
	"strings"

	"github.com/oshokin/door-sentry/internal/domain/security"
)

// Store is the in-memory set of authorized tag identifiers.
// It is built once and read-only afterwards, so concurrent reads need no
// synchronization.
type Store struct {
	// byUID maps the normalized tag identifier to its owner.
	byUID map[string]security.AuthorizedUser
}

// NewStore builds a Store from the loaded user records.
// Duplicate UIDs keep the first record.
func NewStore(list []security.AuthorizedUser) *Store {
	byUID := make(map[string]security.AuthorizedUser, len(list))
	for _, user := range list {
		uid := NormalizeUID(user.UID)
		if _, exists := byUID[uid]; exists {
			continue
		}

		byUID[uid] = user
	}

	return &Store{byUID: byUID}
}

// NormalizeUID canonicalizes a tag identifier for comparison:
// surrounding whitespace is trimmed and hex digits are upper-cased.
func NormalizeUID(uid string) string {
	return strings.ToUpper(strings.TrimSpace(uid))
}

// IsAuthorized reports whether the scanned identifier belongs to the list.
func (s *Store) IsAuthorized(uid string) bool {
	_, ok := s.byUID[NormalizeUID(uid)]

	return ok
}

// Lookup returns the record owning the identifier, if any.
func (s *Store) Lookup(uid string) (security.AuthorizedUser, bool) {
	user, ok := s.byUID[NormalizeUID(uid)]

	return user, ok
}

// Len returns the number of authorized users.
func (s *Store) Len() int {
	return len(s.byUID)
}
