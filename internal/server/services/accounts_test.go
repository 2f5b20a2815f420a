package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/landchain/landchain/internal/common"
	"github.com/landchain/landchain/internal/logging"
	"github.com/landchain/landchain/internal/server/auth"
	"github.com/landchain/landchain/internal/server/config"
	"github.com/landchain/landchain/internal/server/dto"
	"github.com/landchain/landchain/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService(t *testing.T, repo *memAccounts, hasher auth.PasswordHasher, n Notifier) *AccountService {
	t.Helper()
	cfg := &config.Config{UniqueIDAttempts: 5}
	return NewAccountService(nil, &fakeRepoManager{accounts: repo}, hasher, n, logging.Discard(), cfg)
}

func registerReq(username, email, password, role string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username: username, Email: email, Password: password, ConfirmPassword: password, Role: role,
	}
}

func TestRegister_Success(t *testing.T) {
	repo := newMemAccounts()
	n := &fakeNotifier{}
	s := newAccountService(t, repo, cheapHasher, n)

	res, err := s.Register(context.Background(), registerReq("Alice", "a@x.io", "Passw0rd!", "user"))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), res.UniqueID)

	stored := repo.all()
	require.Len(t, stored, 1)
	assert.Equal(t, res.UniqueID, stored[0].UniqueID)
	assert.Equal(t, models.RoleUser, stored[0].Role)
	assert.NotEqual(t, "Passw0rd!", stored[0].PasswordHash, "password is never stored in clear")

	msgs := n.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "a@x.io", msgs[0].To)
	assert.Contains(t, msgs[0].Text, res.UniqueID)
}

func TestRegister_ValidationFailuresStoreNothing(t *testing.T) {
	tests := []struct {
		name string
		req  dto.RegisterRequest
		want error
	}{
		{name: "missing username", req: registerReq("", "a@x.io", "Passw0rd!", "user"), want: common.ErrMissingField},
		{name: "blank username", req: registerReq("   ", "a@x.io", "Passw0rd!", "user"), want: common.ErrMissingField},
		{name: "missing role", req: registerReq("Alice", "a@x.io", "Passw0rd!", ""), want: common.ErrMissingField},
		{name: "unknown role", req: registerReq("Alice", "a@x.io", "Passw0rd!", "root"), want: common.ErrInvalidRole},
		{name: "bad email", req: registerReq("Alice", "not-an-email", "Passw0rd!", "user"), want: common.ErrInvalidEmail},
		{name: "weak password", req: registerReq("Alice", "a@x.io", "abc12345", "user"), want: common.ErrWeakPassword},
		{
			name: "mismatch",
			req:  dto.RegisterRequest{Username: "Alice", Email: "a@x.io", Password: "Passw0rd!", ConfirmPassword: "Passw0rd?", Role: "user"},
			want: common.ErrPasswordMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemAccounts()
			n := &fakeNotifier{}
			s := newAccountService(t, repo, cheapHasher, n)

			_, err := s.Register(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, repo.all())
			assert.Empty(t, n.messages())
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMemAccounts()
	s := newAccountService(t, repo, cheapHasher, nil)
	ctx := context.Background()

	_, err := s.Register(ctx, registerReq("Alice", "a@x.io", "Passw0rd!", "user"))
	require.NoError(t, err)

	_, err = s.Register(ctx, registerReq("Alice2", "a@x.io", "Other1!x", "admin"))
	require.ErrorIs(t, err, common.ErrEmailAlreadyRegistered)
	assert.Len(t, repo.all(), 1)
}

func TestRegister_DuplicateEmailRaceSurfacesAsAlreadyRegistered(t *testing.T) {
	repo := newMemAccounts()
	s := newAccountService(t, repo, cheapHasher, nil)
	ctx := context.Background()

	// The pre-check passes but the insert hits the constraint.
	_, err := repo.Create(ctx, &models.Account{UniqueID: "AAAAAAAA", Email: "a@x.io", Role: models.RoleUser})
	require.NoError(t, err)
	repo.findErr = common.ErrorNotFound

	_, err = s.Register(ctx, registerReq("Alice", "a@x.io", "Passw0rd!", "user"))
	require.ErrorIs(t, err, common.ErrEmailAlreadyRegistered)
}

func TestRegister_RetriesUniqueIDCollision(t *testing.T) {
	repo := newMemAccounts()
	s := newAccountService(t, repo, cheapHasher, nil)
	ctx := context.Background()

	s.newUniqueID = sequenceIDs("AAAAAAAA")
	first, err := s.Register(ctx, registerReq("Alice", "a@x.io", "Passw0rd!", "user"))
	require.NoError(t, err)

	s.newUniqueID = sequenceIDs("AAAAAAAA", "AAAAAAAA", "BBBBBBBB")
	second, err := s.Register(ctx, registerReq("Bob", "b@x.io", "Passw0rd!", "user"))
	require.NoError(t, err)

	assert.Equal(t, "AAAAAAAA", first.UniqueID)
	assert.Equal(t, "BBBBBBBB", second.UniqueID)
	assert.Equal(t, 4, repo.creates)
}

func TestRegister_GivesUpAfterBoundedAttempts(t *testing.T) {
	repo := newMemAccounts()
	s := newAccountService(t, repo, cheapHasher, nil)
	ctx := context.Background()

	s.newUniqueID = sequenceIDs("AAAAAAAA")
	_, err := s.Register(ctx, registerReq("Alice", "a@x.io", "Passw0rd!", "user"))
	require.NoError(t, err)

	_, err = s.Register(ctx, registerReq("Bob", "b@x.io", "Passw0rd!", "user"))
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.Equal(t, 1+5, repo.creates)
	assert.Len(t, repo.all(), 1)
}

func TestRegister_InternalErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("lookup", func(t *testing.T) {
		repo := newMemAccounts()
		repo.findErr = errors.New("db down")
		s := newAccountService(t, repo, cheapHasher, nil)
		_, err := s.Register(ctx, registerReq("Alice", "a@x.io", "Passw0rd!", "user"))
		require.ErrorIs(t, err, common.ErrorInternal)
	})

	t.Run("hash", func(t *testing.T) {
		s := newAccountService(t, newMemAccounts(), failingHasher{hashErr: errors.New("no entropy")}, nil)
		_, err := s.Register(ctx, registerReq("Alice", "a@x.io", "Passw0rd!", "user"))
		require.ErrorIs(t, err, common.ErrorInternal)
	})

	t.Run("insert", func(t *testing.T) {
		repo := newMemAccounts()
		repo.createErr = errors.New("disk full")
		s := newAccountService(t, repo, cheapHasher, nil)
		_, err := s.Register(ctx, registerReq("Alice", "a@x.io", "Passw0rd!", "user"))
		require.ErrorIs(t, err, common.ErrorInternal)
	})
}

func TestRegister_FullNotificationQueueDoesNotFail(t *testing.T) {
	s := newAccountService(t, newMemAccounts(), cheapHasher, &fakeNotifier{full: true})
	res, err := s.Register(context.Background(), registerReq("Alice", "a@x.io", "Passw0rd!", "user"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.UniqueID)
}

func TestLogin(t *testing.T) {
	repo := newMemAccounts()
	s := newAccountService(t, repo, cheapHasher, nil)
	ctx := context.Background()

	res, err := s.Register(ctx, registerReq("Alice", "a@x.io", "Passw0rd!", "user"))
	require.NoError(t, err)
	uid := res.UniqueID

	t.Run("round trip", func(t *testing.T) {
		sess, err := s.Login(ctx, dto.LoginRequest{UniqueID: uid, Password: "Passw0rd!", Role: "user"})
		require.NoError(t, err)
		assert.Equal(t, &models.Session{Username: "Alice", Role: models.RoleUser, UniqueID: uid}, sess)
	})

	t.Run("lowercase unique id", func(t *testing.T) {
		_, err := s.Login(ctx, dto.LoginRequest{UniqueID: " " + strings.ToLower(uid) + " ", Password: "Passw0rd!", Role: "user"})
		require.NoError(t, err)
	})

	failures := []struct {
		name string
		req  dto.LoginRequest
	}{
		{name: "wrong password", req: dto.LoginRequest{UniqueID: uid, Password: "Wrong1!x", Role: "user"}},
		{name: "wrong role", req: dto.LoginRequest{UniqueID: uid, Password: "Passw0rd!", Role: "admin"}},
		{name: "unknown id", req: dto.LoginRequest{UniqueID: "ZZZZZZZZ", Password: "Passw0rd!", Role: "user"}},
		{name: "invalid role", req: dto.LoginRequest{UniqueID: uid, Password: "Passw0rd!", Role: "root"}},
		{name: "empty", req: dto.LoginRequest{}},
	}

	var messages []string
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(ctx, tt.req)
			require.ErrorIs(t, err, common.ErrInvalidCredentials)
			messages = append(messages, err.Error())
		})
	}

	for _, m := range messages {
		assert.Equal(t, messages[0], m, "failures must be indistinguishable")
	}
}

func TestLogin_InternalErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("lookup", func(t *testing.T) {
		repo := newMemAccounts()
		repo.findErr = errors.New("db down")
		s := newAccountService(t, repo, cheapHasher, nil)
		_, err := s.Login(ctx, dto.LoginRequest{UniqueID: "AAAAAAAA", Password: "x", Role: "user"})
		require.ErrorIs(t, err, common.ErrorInternal)
	})

	t.Run("corrupt hash", func(t *testing.T) {
		repo := newMemAccounts()
		_, err := repo.Create(ctx, &models.Account{UniqueID: "AAAAAAAA", Email: "a@x.io", PasswordHash: "garbage", Role: models.RoleUser})
		require.NoError(t, err)
		s := newAccountService(t, repo, cheapHasher, nil)

		_, err = s.Login(ctx, dto.LoginRequest{UniqueID: "AAAAAAAA", Password: "x", Role: "user"})
		require.ErrorIs(t, err, common.ErrorInternal)
	})
}

func TestNewAccountService_ClampsAttempts(t *testing.T) {
	s := NewAccountService(nil, &fakeRepoManager{}, cheapHasher, nil, logging.Discard(), &config.Config{})
	assert.Equal(t, 1, s.uniqueIDAttempts)
}

func TestNewUniqueID(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id := NewUniqueID()
		assert.Regexp(t, `^[0-9A-F]{8}$`, id)
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 90)
}
