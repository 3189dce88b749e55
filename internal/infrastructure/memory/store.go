// Package memory provides map-backed implementations of the storage contract.
// It is meant for local development and tests; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
	"github.com/shizzytech/LinguaSync-AI/internal/core/repository"
)

// Store holds users, waitlist entries and sessions. The repositories it hands
// out share one lock.
type Store struct {
	mu sync.RWMutex

	users       map[int64]*domain.User
	waitlist    map[int64]*domain.WaitlistEntry
	sessions    map[string]*domain.Session
	userSeq     int64
	waitlistSeq int64
}

func NewStore() *Store {
	return &Store{
		users:    make(map[int64]*domain.User),
		waitlist: make(map[int64]*domain.WaitlistEntry),
		sessions: make(map[string]*domain.Session),
	}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{store: s}
}

func (s *Store) Waitlist() repository.WaitlistRepository {
	return &waitlistRepository{store: s}
}

func (s *Store) Sessions() repository.SessionRepository {
	return &sessionRepository{store: s}
}

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user.Email = domain.NormalizeEmail(user.Email)
	user.Username = domain.NormalizeUsername(user.Username)

	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return fmt.Errorf("email %s: %w", user.Email, repository.ErrDuplicate)
		}
	}

	r.store.userSeq++
	user.ID = r.store.userSeq
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	stored := *user
	r.store.users[user.ID] = &stored
	return nil
}

func (r *userRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	return r.find(func(u *domain.User) bool { return u.Email == email }), nil
}

func (r *userRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	username = domain.NormalizeUsername(username)
	return r.find(func(u *domain.User) bool { return u.Username == username }), nil
}

// find returns the lowest-id user matching fn.
func (r *userRepository) find(fn func(*domain.User) bool) *domain.User {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var match *domain.User
	for _, user := range r.store.users {
		if fn(user) && (match == nil || user.ID < match.ID) {
			match = user
		}
	}
	if match == nil {
		return nil
	}
	found := *match
	return &found
}

func (r *userRepository) List(_ context.Context) ([]*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		u := *user
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

type waitlistRepository struct {
	store *Store
}

func (r *waitlistRepository) Create(_ context.Context, entry *domain.WaitlistEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entry.Email = domain.NormalizeEmail(entry.Email)
	for _, existing := range r.store.waitlist {
		if existing.Email == entry.Email {
			return fmt.Errorf("waitlist email %s: %w", entry.Email, repository.ErrDuplicate)
		}
	}

	r.store.waitlistSeq++
	entry.ID = r.store.waitlistSeq
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	stored := *entry
	r.store.waitlist[entry.ID] = &stored
	return nil
}

func (r *waitlistRepository) FindByEmail(_ context.Context, email string) (*domain.WaitlistEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	email = domain.NormalizeEmail(email)
	for _, entry := range r.store.waitlist {
		if entry.Email == email {
			found := *entry
			return &found, nil
		}
	}
	return nil, nil
}

func (r *waitlistRepository) List(_ context.Context) ([]*domain.WaitlistEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := make([]*domain.WaitlistEntry, 0, len(r.store.waitlist))
	for _, entry := range r.store.waitlist {
		e := *entry
		entries = append(entries, &e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

type sessionRepository struct {
	store *Store
}

func (r *sessionRepository) Find(_ context.Context, id string) (*domain.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	session, ok := r.store.sessions[id]
	if !ok {
		return nil, nil
	}
	found := *session
	found.Data = append([]byte(nil), session.Data...)
	return &found, nil
}

func (r *sessionRepository) Save(_ context.Context, session *domain.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := *session
	stored.Data = append([]byte(nil), session.Data...)
	r.store.sessions[session.ID] = &stored
	return nil
}

func (r *sessionRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.sessions, id)
	return nil
}

func (r *sessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var deleted int64
	for id, session := range r.store.sessions {
		if session.Expire.Before(now) {
			delete(r.store.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}
