// Package credstore persists the minimal session fragment that must survive
// process restarts: the access token, the user id and the role. The three
// values are always written and removed together; a store never holds a
// partial fragment.
package credstore

// Credentials is the persisted session fragment.
type Credentials struct {
	AccessToken string `yaml:"access_token"`
	UserID      string `yaml:"user_id"`
	Role        string `yaml:"role"`
}

// IsZero reports whether no fragment is stored.
func (c Credentials) IsZero() bool {
	return c.AccessToken == "" && c.UserID == "" && c.Role == ""
}

//go:generate mockgen -source=$GOFILE -destination=../mocks/mock_$GOPACKAGE/mock_$GOFILE -package=mock_$GOPACKAGE
type Store interface {
	// Load returns the stored fragment. A missing fragment is not an error;
	// it is returned as zero Credentials.
	Load() (Credentials, error)
	// Save replaces the whole fragment. All three keys are written as one unit.
	Save(creds Credentials) error
	// Clear removes the whole fragment. Clearing an empty store is a no-op.
	Clear() error
}
