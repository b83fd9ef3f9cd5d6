package auth

import (
	"sync"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ZocoMacc/PaperDuel/src/model"
)

type account struct {
	user         model.User
	passwordHash []byte
}

// Store is an in-memory credential store. Accounts are seeded at
// startup; passwords are kept only as bcrypt hashes.
type Store struct {
	mu         sync.RWMutex
	byUsername map[string]account
}

func NewStore() *Store {
	return &Store{byUsername: make(map[string]account)}
}

// Seed registers one account, replacing any previous entry for the
// same username.
func (s *Store) Seed(username, password string, user model.User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.byUsername[username] = account{user: user, passwordHash: hash}
	s.mu.Unlock()
	return nil
}

// Authenticate checks a username/password pair and returns the user on
// success.
func (s *Store) Authenticate(username, password string) (*model.User, bool) {
	s.mu.RLock()
	acct, ok := s.byUsername[username]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return nil, false
	}

	user := acct.user
	return &user, true
}

// DefaultStore seeds the single built-in test account.
func DefaultStore() *Store {
	store := NewStore()
	if err := store.Seed("testuser", "password", model.User{
		ID:       "user_1",
		Username: "testuser",
		Wins:     0,
		Rating:   1000,
	}); err != nil {
		logger.WithError(err).Error("failed to seed default user")
	}
	return store
}
