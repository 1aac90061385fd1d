package auth

import "fmt"

// MemoryStore is an in-memory token store for tests.
type MemoryStore struct {
	tokens map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

// Load retrieves the token for the given origin.
func (s *MemoryStore) Load(origin string) (string, error) {
	token, ok := s.tokens[origin]
	if !ok {
		return "", fmt.Errorf("token not found for %s", origin)
	}
	return token, nil
}

// Save stores the token for the given origin.
func (s *MemoryStore) Save(origin, token string) error {
	s.tokens[origin] = token
	return nil
}

// Delete removes the token for the given origin.
func (s *MemoryStore) Delete(origin string) error {
	delete(s.tokens, origin)
	return nil
}
