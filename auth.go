package filecab

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// sessionKeyPrefix namespaces session tokens in the key-value store.
const sessionKeyPrefix = "auth_"

// SessionTTL is how long a login session lives without being refreshed.
const SessionTTL = 24 * time.Hour

// AuthService issues, resolves, and revokes sessions. A session is one
// key-value entry "auth_<token>" -> userID with a TTL; the key-value store's
// native expiry is the only time-driven state transition.
type AuthService struct {
	users    UserRepo
	sessions SessionStore
}

func NewAuthService(users UserRepo, sessions SessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// SessionKey returns the key-value store key for a session token.
func SessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Login authenticates the raw Authorization header value and mints a fresh
// session token. The header must carry scheme Basic followed by
// base64(email:password); any malformation, or a credential pair matching no
// user, yields ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, authorization string) (string, error) {
	email, password, ok := parseBasicAuth(authorization)
	if !ok {
		return "", fmt.Errorf("login: %w", ErrUnauthorized)
	}

	user, err := s.users.FindByCredentials(ctx, email, DigestPassword(password))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("login: %w", ErrUnauthorized)
		}
		return "", fmt.Errorf("login: %w", err)
	}

	token := uuid.New().String()
	if err := s.sessions.SetWithTTL(ctx, SessionKey(token), user.ID, SessionTTL); err != nil {
		return "", fmt.Errorf("login: store session: %w", err)
	}

	return token, nil
}

// Logout revokes the session for token. An absent session — expired, already
// revoked, or never valid — is ErrUnauthorized; the caller cannot tell which,
// and that is intentional.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("logout: %w", ErrUnauthorized)
	}

	key := SessionKey(token)
	if _, err := s.sessions.Get(ctx, key); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("logout: %w", ErrUnauthorized)
		}
		return fmt.Errorf("logout: %w", err)
	}

	if err := s.sessions.Delete(ctx, key); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

// ResolveUser returns the user id owning the session token. This is the
// identity-resolution primitive every protected operation calls first.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("resolve user: %w", ErrUnauthorized)
	}

	userID, err := s.sessions.Get(ctx, SessionKey(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("resolve user: %w", ErrUnauthorized)
		}
		return "", fmt.Errorf("resolve user: %w", err)
	}

	return userID, nil
}

// CurrentUser resolves the session token and loads the account behind it.
// A live token pointing at a missing user is treated as ErrUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (User, error) {
	userID, err := s.ResolveUser(ctx, token)
	if err != nil {
		return User{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, fmt.Errorf("current user: %w", ErrUnauthorized)
		}
		return User{}, fmt.Errorf("current user: %w", err)
	}

	return user, nil
}

// parseBasicAuth extracts the email and password from an Authorization
// header value of the form "Basic base64(email:password)". ok is false for
// any malformed header or empty credential part.
func parseBasicAuth(authorization string) (email, password string, ok bool) {
	scheme, payload, found := strings.Cut(authorization, " ")
	if !found || scheme != "Basic" {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", false
	}

	email, password, found = strings.Cut(string(decoded), ":")
	if !found || email == "" || password == "" {
		return "", "", false
	}

	return email, password, true
}
