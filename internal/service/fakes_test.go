package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"mdc-notebook-be/internal/entity"
	"mdc-notebook-be/internal/repository/contract"
	"mdc-notebook-be/internal/repository/specification"
	"mdc-notebook-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// memStore backs every fake repository. It understands the handful of
// specifications the services use.
type memStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*entity.User
	tokens        []*entity.AuthToken
	notebooks     map[uuid.UUID]*entity.Notebook
	organizations map[uuid.UUID]*entity.Organization

	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[uuid.UUID]*entity.User),
		notebooks:     make(map[uuid.UUID]*entity.Notebook),
		organizations: make(map[uuid.UUID]*entity.Organization),
	}
}

func (m *memStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUnitOfWork{store: m}
}

// memUnitOfWork writes straight through; it only records how each
// transaction ended.
type memUnitOfWork struct {
	store  *memStore
	active bool
}

func (u *memUnitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return errors.New("transaction already started")
	}
	u.active = true
	return nil
}

func (u *memUnitOfWork) Commit() error {
	if !u.active {
		return errors.New("no transaction to commit")
	}
	u.active = false
	u.store.mu.Lock()
	u.store.commits++
	u.store.mu.Unlock()
	return nil
}

func (u *memUnitOfWork) Rollback() error {
	if !u.active {
		return errors.New("no transaction to rollback")
	}
	u.active = false
	u.store.mu.Lock()
	u.store.rollbacks++
	u.store.mu.Unlock()
	return nil
}

func (u *memUnitOfWork) UserRepository() contract.UserRepository {
	return &memUserRepo{u.store}
}

func (u *memUnitOfWork) AuthTokenRepository() contract.AuthTokenRepository {
	return &memTokenRepo{u.store}
}

func (u *memUnitOfWork) NotebookRepository() contract.NotebookRepository {
	return &memNotebookRepo{u.store}
}

func (u *memUnitOfWork) OrganizationRepository() contract.OrganizationRepository {
	return &memOrganizationRepo{u.store}
}

type query struct {
	id     *uuid.UUID
	notID  *uuid.UUID
	email  string
	token  string
	limit  int
	offset int
}

func parseSpecs(specs []specification.Specification) query {
	var q query
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			id := v.ID
			q.id = &id
		case specification.NotID:
			id := v.ID
			q.notID = &id
		case specification.ByEmail:
			q.email = strings.ToLower(strings.TrimSpace(v.Email))
		case specification.ByToken:
			q.token = v.Token
		case specification.Pagination:
			q.limit = v.Limit
			q.offset = v.Offset
		}
	}
	return q
}

func (q query) matchID(id uuid.UUID) bool {
	if q.id != nil && *q.id != id {
		return false
	}
	if q.notID != nil && *q.notID == id {
		return false
	}
	return true
}

// --- users ---

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return contract.ErrDuplicateKey
		}
	}
	cp := *user
	r.s.users[user.Id] = &cp
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.Id]; !ok {
		return errors.New("not found")
	}
	cp := *user
	r.s.users[user.Id] = &cp
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *memUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *memUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	var out []*entity.User
	for _, u := range r.s.users {
		if !q.matchID(u.Id) || (q.email != "" && u.Email != q.email) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userId]
	if !ok {
		return errors.New("not found")
	}
	u.PasswordHash = hash
	return nil
}

// --- auth tokens ---

type memTokenRepo struct{ s *memStore }

func (r *memTokenRepo) Create(ctx context.Context, token *entity.AuthToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *token
	r.s.tokens = append(r.s.tokens, &cp)
	return nil
}

func (r *memTokenRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AuthToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	for _, t := range r.s.tokens {
		if q.matchID(t.Id) && (q.token == "" || t.Token == q.token) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memTokenRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	var n int64
	for _, t := range r.s.tokens {
		if q.matchID(t.Id) && (q.token == "" || t.Token == q.token) {
			n++
		}
	}
	return n, nil
}

func (r *memTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.tokens[:0]
	for _, t := range r.s.tokens {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	r.s.tokens = kept
	return nil
}

// --- notebooks ---

type memNotebookRepo struct{ s *memStore }

func (r *memNotebookRepo) Create(ctx context.Context, n *entity.Notebook) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *n
	r.s.notebooks[n.Id] = &cp
	return nil
}

func (r *memNotebookRepo) Update(ctx context.Context, n *entity.Notebook) error {
	return r.Create(ctx, n)
}

func (r *memNotebookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.notebooks, id)
	return nil
}

func (r *memNotebookRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *memNotebookRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	var out []*entity.Notebook
	for _, n := range r.s.notebooks {
		if q.matchID(n.Id) {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.offset > 0 {
		if q.offset >= len(out) {
			return nil, nil
		}
		out = out[q.offset:]
	}
	if q.limit > 0 && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out, nil
}

func (r *memNotebookRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *memNotebookRepo) Stats(ctx context.Context) (*entity.NotebookStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := &entity.NotebookStats{}
	for _, n := range r.s.notebooks {
		stats.Total++
		switch n.Status {
		case entity.NotebookStatusSuccess:
			stats.Successful++
		case entity.NotebookStatusFailed:
			stats.Failed++
		}
		if n.TotalRows != nil {
			stats.RowsProcessed += *n.TotalRows
		}
	}
	return stats, nil
}

// --- organizations ---

type memOrganizationRepo struct{ s *memStore }

func (r *memOrganizationRepo) Create(ctx context.Context, o *entity.Organization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *o
	r.s.organizations[o.Id] = &cp
	return nil
}

func (r *memOrganizationRepo) Update(ctx context.Context, o *entity.Organization) error {
	return r.Create(ctx, o)
}

func (r *memOrganizationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.organizations, id)
	return nil
}

func (r *memOrganizationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Organization, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *memOrganizationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	var out []*entity.Organization
	for _, o := range r.s.organizations {
		if q.matchID(o.Id) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}
