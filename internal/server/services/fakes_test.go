package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/landchain/landchain/internal/common"
	"github.com/landchain/landchain/internal/dbx"
	"github.com/landchain/landchain/internal/server/auth"
	"github.com/landchain/landchain/internal/server/models"
	"github.com/landchain/landchain/internal/server/notify"
	"github.com/landchain/landchain/internal/server/repositories/accounts"
)

var cheapHasher = auth.NewArgon2Hasher(&auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

// memAccounts is an in-memory accounts.Repository with the same unique
// constraints as the real tables.
type memAccounts struct {
	mu        sync.Mutex
	byID      map[int64]*models.Account
	nextID    int64
	createErr error
	findErr   error
	creates   int
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: map[int64]*models.Account{}}
}

func (m *memAccounts) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return nil, m.createErr
	}
	for _, existing := range m.byID {
		if existing.Email == a.Email {
			return nil, &accounts.DuplicateKeyError{Column: accounts.ColumnEmail, Err: fmt.Errorf("email")}
		}
		if existing.UniqueID == a.UniqueID {
			return nil, &accounts.DuplicateKeyError{Column: accounts.ColumnUniqueID, Err: fmt.Errorf("unique_id")}
		}
	}
	m.nextID++
	stored := *a
	stored.ID = m.nextID
	m.byID[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return m.find(func(a *models.Account) bool { return a.Email == email })
}

func (m *memAccounts) FindByUniqueIDAndRole(ctx context.Context, uniqueID string, role models.Role) (*models.Account, error) {
	return m.find(func(a *models.Account) bool { return a.UniqueID == uniqueID && a.Role == role })
}

func (m *memAccounts) find(match func(*models.Account) bool) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, a := range m.byID {
		if match(a) {
			out := *a
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memAccounts) all() []models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Account, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, *a)
	}
	return out
}

type fakeRepoManager struct {
	accounts accounts.Repository
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository      { return f.accounts }

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
	full bool
}

func (f *fakeNotifier) Enqueue(ctx context.Context, msg notify.Message) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.msgs = append(f.msgs, msg)
	return true
}

func (f *fakeNotifier) messages() []notify.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Message(nil), f.msgs...)
}

// sequenceIDs returns the given IDs in order, then repeats the last one.
func sequenceIDs(ids ...string) func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return id
	}
}

type failingHasher struct {
	hashErr   error
	verifyErr error
}

func (f failingHasher) Hash(context.Context, string) (string, error) { return "", f.hashErr }
func (f failingHasher) Verify(context.Context, string, string) (bool, error) {
	return false, f.verifyErr
}
