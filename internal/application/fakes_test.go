package application

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gestorly/catalog-api/internal/domain/entity"
	"github.com/gestorly/catalog-api/internal/domain/repository"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// memFactory is an in-memory Factory plus Store used across the service
// tests in place of the postgres implementation.
type memFactory struct {
	mu sync.Mutex

	users    []entity.User
	products []entity.Product
	options  map[int64]entity.Option

	nextUserID   int64
	nextOptionID int64

	acquireErr      error
	queryErr        error // returned by every read when set
	deleteErr       error
	hideFromLookups bool // Exists* report false, simulating a lost race
	existsCalls     int  // uniqueness lookups observed
	releases        int
}

func newMemFactory() *memFactory {
	return &memFactory{options: map[int64]entity.Option{}}
}

func (f *memFactory) Acquire(ctx context.Context) (repository.Store, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	return &memStore{f: f}, nil
}

func (f *memFactory) seedUser(u entity.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextUserID++
	u.ID = f.nextUserID
	f.users = append(f.users, u)
}

func (f *memFactory) seedProduct(p entity.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = append(f.products, p)
}

type memStore struct{ f *memFactory }

func (s *memStore) Users() repository.UserRepository       { return &memUsers{f: s.f} }
func (s *memStore) Products() repository.ProductRepository { return &memProducts{f: s.f} }
func (s *memStore) Options() repository.OptionRepository   { return &memOptions{f: s.f} }
func (s *memStore) Release()                               { s.f.mu.Lock(); s.f.releases++; s.f.mu.Unlock() }

type memUsers struct{ f *memFactory }

func (r *memUsers) exists(match func(*entity.User) bool) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.existsCalls++
	if r.f.queryErr != nil {
		return false, r.f.queryErr
	}
	if r.f.hideFromLookups {
		return false, nil
	}
	for i := range r.f.users {
		if match(&r.f.users[i]) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(func(u *entity.User) bool { return u.Email == email })
}

func (r *memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(func(u *entity.User) bool { return u.Username == username })
}

func (r *memUsers) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(func(u *entity.User) bool { return u.Phone == phone })
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.queryErr != nil {
		return nil, r.f.queryErr
	}
	for i := range r.f.users {
		if r.f.users[i].Email == email {
			u := r.f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) Create(ctx context.Context, u *entity.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.queryErr != nil {
		return r.f.queryErr
	}
	for i := range r.f.users {
		if r.f.users[i].Email == u.Email {
			return &repository.ConstraintError{Violations: map[string]string{"email": "email is already registered"}}
		}
	}
	r.f.nextUserID++
	u.ID = r.f.nextUserID
	u.CreatedAt = time.Now()
	r.f.users = append(r.f.users, *u)
	return nil
}

type memProducts struct{ f *memFactory }

func (r *memProducts) GetAll(ctx context.Context) ([]entity.Product, error) {
	return r.Search(ctx, nil, nil)
}

func (r *memProducts) Search(ctx context.Context, namePattern *string, isActive *bool) ([]entity.Product, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.queryErr != nil {
		return nil, r.f.queryErr
	}
	out := make([]entity.Product, 0, len(r.f.products))
	for _, p := range r.f.products {
		if namePattern != nil && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(*namePattern)) {
			continue
		}
		if isActive != nil && p.Active != *isActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type memOptions struct{ f *memFactory }

func (r *memOptions) Insert(ctx context.Context, o *entity.Option) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.queryErr != nil {
		return r.f.queryErr
	}
	r.f.nextOptionID++
	o.ID = r.f.nextOptionID
	o.Version = 1
	r.f.options[o.ID] = *o
	return nil
}

func (r *memOptions) Update(ctx context.Context, o *entity.Option) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.queryErr != nil {
		return r.f.queryErr
	}
	cur, ok := r.f.options[o.ID]
	if !ok || cur.Version != o.Version {
		return repository.ErrVersionConflict
	}
	o.Version = cur.Version + 1
	r.f.options[o.ID] = *o
	return nil
}

func (r *memOptions) Delete(ctx context.Context, id int64) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.deleteErr != nil {
		return r.f.deleteErr
	}
	delete(r.f.options, id)
	return nil
}
