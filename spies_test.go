package filecab_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/anverma/filecab"
)

type SpyUserRepo struct {
	mock.Mock
}

func (s *SpyUserRepo) Insert(ctx context.Context, email, passwordDigest string) (filecab.User, error) {
	args := s.Called(ctx, email, passwordDigest)
	return args.Get(0).(filecab.User), args.Error(1)
}

func (s *SpyUserRepo) FindByEmail(ctx context.Context, email string) (filecab.User, error) {
	args := s.Called(ctx, email)
	return args.Get(0).(filecab.User), args.Error(1)
}

func (s *SpyUserRepo) FindByCredentials(ctx context.Context, email, passwordDigest string) (filecab.User, error) {
	args := s.Called(ctx, email, passwordDigest)
	return args.Get(0).(filecab.User), args.Error(1)
}

func (s *SpyUserRepo) FindByID(ctx context.Context, id string) (filecab.User, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(filecab.User), args.Error(1)
}

type SpyFileRepo struct {
	mock.Mock
}

func (s *SpyFileRepo) Insert(ctx context.Context, f filecab.File) (filecab.File, error) {
	args := s.Called(ctx, f)
	return args.Get(0).(filecab.File), args.Error(1)
}

func (s *SpyFileRepo) FindByID(ctx context.Context, id string) (filecab.File, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(filecab.File), args.Error(1)
}

func (s *SpyFileRepo) FindByIDAndOwner(ctx context.Context, id, userID string) (filecab.File, error) {
	args := s.Called(ctx, id, userID)
	return args.Get(0).(filecab.File), args.Error(1)
}

func (s *SpyFileRepo) FindByParent(ctx context.Context, userID, parentID string, skip, limit int64) ([]filecab.File, error) {
	args := s.Called(ctx, userID, parentID, skip, limit)
	return args.Get(0).([]filecab.File), args.Error(1)
}

func (s *SpyFileRepo) SetPublic(ctx context.Context, id, userID string, public bool) (filecab.File, error) {
	args := s.Called(ctx, id, userID, public)
	return args.Get(0).(filecab.File), args.Error(1)
}

type SpySessionStore struct {
	mock.Mock
}

func (s *SpySessionStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	args := s.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (s *SpySessionStore) Get(ctx context.Context, key string) (string, error) {
	args := s.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (s *SpySessionStore) Delete(ctx context.Context, key string) error {
	args := s.Called(ctx, key)
	return args.Error(0)
}

type SpyBlobStorage struct {
	mock.Mock
}

func (s *SpyBlobStorage) Write(ctx context.Context, content []byte) (string, error) {
	args := s.Called(ctx, content)
	return args.String(0), args.Error(1)
}

func (s *SpyBlobStorage) Read(ctx context.Context, blobID string) ([]byte, error) {
	args := s.Called(ctx, blobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type SpyUserQueue struct {
	mock.Mock
}

func (s *SpyUserQueue) Enqueue(ctx context.Context, userID string) error {
	args := s.Called(ctx, userID)
	return args.Error(0)
}
