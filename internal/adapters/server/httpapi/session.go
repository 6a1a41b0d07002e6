package httpapi

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// sessionCookie names the login cookie.
const sessionCookie = "tavle_session"

// Sessions is an in-memory token-to-user store. Tokens are random UUIDs and
// live for the process lifetime.
type Sessions struct {
	mu     sync.Mutex
	tokens map[string]int64
}

// NewSessions constructs an empty session store.
func NewSessions() *Sessions {
	return &Sessions{tokens: map[string]int64{}}
}

// Start issues a new token for the user.
func (s *Sessions) Start(userID int64) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = userID
	s.mu.Unlock()
	return token
}

// End invalidates the token.
func (s *Sessions) End(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// UserID resolves a token to its user.
func (s *Sessions) UserID(token string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	return id, ok
}

// userFromRequest resolves the session cookie to a user ID.
func (s *Sessions) userFromRequest(r *http.Request) (int64, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return 0, false
	}
	return s.UserID(cookie.Value)
}
