package filecab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// UserService creates accounts. Registration is the only mutation; users are
// immutable afterwards and never deleted.
type UserService struct {
	users UserRepo
	queue UserQueue
}

// NewUserService returns a UserService. queue may be nil when no downstream
// processing is wired.
func NewUserService(users UserRepo, queue UserQueue) *UserService {
	return &UserService{users: users, queue: queue}
}

// Register creates a new account and returns its public projection.
// Validation reasons ("Missing email", "Missing password", "Already exist")
// are the exact strings the API returns.
func (s *UserService) Register(ctx context.Context, email, password string) (PublicUser, error) {
	if email == "" {
		return PublicUser{}, NewValidationError("Missing email")
	}
	if password == "" {
		return PublicUser{}, NewValidationError("Missing password")
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return PublicUser{}, NewValidationError("Already exist")
	}
	if !errors.Is(err, ErrNotFound) {
		return PublicUser{}, fmt.Errorf("register: %w", err)
	}

	user, err := s.users.Insert(ctx, email, DigestPassword(password))
	if err != nil {
		return PublicUser{}, fmt.Errorf("register: %w", err)
	}

	if s.queue != nil {
		if err := s.queue.Enqueue(ctx, user.ID); err != nil {
			slog.Warn("failed to enqueue welcome job", "userId", user.ID, "err", err)
		}
	}

	return user.Public(), nil
}
