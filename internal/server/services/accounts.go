// Package services contains server-side business logic. AccountService
// handles registration and login; SessionService guards the role
// dashboards.
package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/landchain/landchain/internal/common"
	"github.com/landchain/landchain/internal/logging"
	"github.com/landchain/landchain/internal/server/auth"
	"github.com/landchain/landchain/internal/server/config"
	"github.com/landchain/landchain/internal/server/dto"
	"github.com/landchain/landchain/internal/server/models"
	"github.com/landchain/landchain/internal/server/notify"
	"github.com/landchain/landchain/internal/server/repositories/accounts"
	"github.com/landchain/landchain/internal/server/repositories/repomanager"
)

// Notifier accepts messages for asynchronous delivery. Enqueue must not
// block.
type Notifier interface {
	Enqueue(ctx context.Context, msg notify.Message) bool
}

// RegisterResult is returned by a successful registration.
type RegisterResult struct {
	UniqueID string
	Account  *models.Account
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	notifier    Notifier
	logger      logging.Logger

	newUniqueID      func() string
	uniqueIDAttempts int

	dummyOnce sync.Once
	dummyHash string
}

// NewAccountService wires the service. notifier may be nil, in which case
// no welcome email is sent.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher,
	notifier Notifier, logger logging.Logger, cfg *config.Config) *AccountService {
	attempts := cfg.UniqueIDAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &AccountService{
		db:               db,
		repomanager:      m,
		hasher:           hasher,
		notifier:         notifier,
		logger:           logger.With("module", "accounts"),
		newUniqueID:      NewUniqueID,
		uniqueIDAttempts: attempts,
	}
}

// Register validates req, stores a new account under a fresh unique ID and
// queues the welcome email. Validation failures are returned as the
// matching common sentinel; an email already on file yields
// common.ErrEmailAlreadyRegistered.
func (s *AccountService) Register(ctx context.Context, req dto.RegisterRequest) (*RegisterResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Accounts(s.db)

	if _, err := repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, common.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "email lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	account, err := s.insert(ctx, repo, &models.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account registered", "unique_id", account.UniqueID, "role", string(account.Role))

	if s.notifier != nil {
		s.notifier.Enqueue(ctx, notify.WelcomeMessage(account.Username, account.Email, account.UniqueID))
	}

	return &RegisterResult{UniqueID: account.UniqueID, Account: account}, nil
}

// insert retries with a new unique ID while the store reports a unique_id
// collision, up to uniqueIDAttempts times.
func (s *AccountService) insert(ctx context.Context, repo accounts.Repository, account *models.Account) (*models.Account, error) {
	for attempt := 1; attempt <= s.uniqueIDAttempts; attempt++ {
		account.UniqueID = s.newUniqueID()

		created, err := repo.Create(ctx, account)
		if err == nil {
			return created, nil
		}

		var dup *accounts.DuplicateKeyError
		if !errors.As(err, &dup) {
			s.logger.Error(ctx, "account insert failed", "error", err)
			return nil, common.ErrorInternal
		}
		if dup.Column == accounts.ColumnEmail {
			return nil, common.ErrEmailAlreadyRegistered
		}

		s.logger.Warn(ctx, "unique id collision", "unique_id", account.UniqueID, "attempt", attempt)
	}

	s.logger.Error(ctx, "could not allocate a unique id", "attempts", s.uniqueIDAttempts)
	return nil, common.ErrorInternal
}

// Login checks (uniqueID, role, password) and returns the session to
// establish. Every kind of mismatch is common.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, req dto.LoginRequest) (*models.Session, error) {
	req.Normalize()

	role, roleErr := models.ParseRole(req.Role)
	if err := req.Validate(); err != nil || roleErr != nil {
		s.burnVerify(ctx, req.Password)
		return nil, common.ErrInvalidCredentials
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.FindByUniqueIDAndRole(ctx, req.UniqueID, role)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnVerify(ctx, req.Password)
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := s.hasher.Verify(ctx, req.Password, account.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash unreadable", "unique_id", account.UniqueID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	s.logger.Info(ctx, "login", "unique_id", account.UniqueID, "role", string(account.Role))
	return &models.Session{Username: account.Username, Role: account.Role, UniqueID: account.UniqueID}, nil
}

// burnVerify runs one hash verification against a throwaway hash so that
// unknown accounts cost the same as wrong passwords.
func (s *AccountService) burnVerify(ctx context.Context, password string) {
	s.dummyOnce.Do(func() {
		secret, err := common.MakeRandHexString(16)
		if err != nil {
			return
		}
		s.dummyHash, _ = s.hasher.Hash(ctx, secret)
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(ctx, password, s.dummyHash)
	}
}
