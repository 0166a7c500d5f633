package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"lumen/internal/storage"
)

// batchSetter is implemented by stores that can write several keys atomically.
type batchSetter interface {
	SetMany(ctx context.Context, values map[string]string) error
}

// keyLister is implemented by stores that can enumerate their keys.
type keyLister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Store keeps user records and the signed-in session pointer.
type Store struct {
	mu         sync.Mutex
	kv         storage.KV
	log        *slog.Logger
	validate   *validator.Validate
	adminEmail string
	params     hashParams
	current    *Profile
	listeners  []func(email string)
}

func NewStore(kv storage.KV, logger *slog.Logger, adminEmail string) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	adminEmail = normalizeEmail(adminEmail)
	if adminEmail == "" {
		adminEmail = DefaultAdminEmail
	}
	return &Store{
		kv:         kv,
		log:        logger.With("component", "auth"),
		validate:   newValidator(),
		adminEmail: adminEmail,
		params:     defaultParams,
	}
}

// OnSessionChange registers fn to run after every sign-in or sign-out with the new
// session email ("" when signed out).
func (s *Store) OnSessionChange(fn func(email string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Current returns the signed-in profile, or nil.
func (s *Store) Current() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	p := *s.current
	return &p
}

// Register creates a user and signs them in.
func (s *Store) Register(ctx context.Context, in RegisterInput) (*Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Level = strings.TrimSpace(in.Level)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	in.Level, _ = CanonicalLevel(in.Level)

	secret, err := hashPassword(in.Password, s.params)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	users, err := s.loadUsers(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	for _, u := range users {
		if u.Email == in.Email {
			s.mu.Unlock()
			return nil, ErrEmailInUse
		}
	}

	role := RoleUser
	if in.Email == s.adminEmail {
		role = RoleAdmin
	}
	rec := userRecord{
		Profile: Profile{Name: in.Name, Email: in.Email, Level: in.Level, Role: role},
		Secret:  secret,
	}
	users = append(users, rec)
	if err := s.writeSession(ctx, users, in.Email); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	p := rec.Profile
	s.current = &p
	s.mu.Unlock()

	s.log.Info("user registered", "email", in.Email, "role", role)
	s.notify(in.Email)
	out := p
	return &out, nil
}

// Login checks the credentials and records the session pointer.
func (s *Store) Login(ctx context.Context, email, password string) (*Profile, error) {
	email = normalizeEmail(email)

	s.mu.Lock()
	users, err := s.loadUsers(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	rec, ok := findUser(users, email)
	if !ok {
		s.mu.Unlock()
		return nil, ErrInvalidCredentials
	}
	match, err := verifyPassword(rec.Secret, password, s.params)
	if err != nil {
		s.log.Warn("stored secret is unreadable", "email", email, "error", err)
	}
	if !match {
		s.mu.Unlock()
		return nil, ErrInvalidCredentials
	}
	if err := s.kv.Set(ctx, storage.KeyCurrentUserEmail, email); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	p := withRole(rec.Profile)
	s.current = &p
	s.mu.Unlock()

	s.notify(email)
	out := p
	return &out, nil
}

// Logout clears the session pointer and deletes the user's gamification record. Store
// failures are logged; listeners always see the sign-out.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	email := ""
	if s.current != nil {
		email = s.current.Email
	} else if raw, ok, err := s.kv.Get(ctx, storage.KeyCurrentUserEmail); err == nil && ok {
		email = normalizeEmail(raw)
	}
	s.current = nil

	if err := s.kv.Remove(ctx, storage.KeyCurrentUserEmail); err != nil {
		s.log.Error("failed to clear session pointer", "email", email, "error", err)
	}
	if email != "" {
		if err := s.kv.Remove(ctx, storage.GamificationKey(email)); err != nil {
			s.log.Error("failed to clear gamification state", "email", email, "error", err)
		}
	}
	s.mu.Unlock()

	s.notify("")
	return nil
}

// Restore re-establishes the session recorded by a previous run. It returns nil when no
// one is signed in or the recorded user no longer exists.
func (s *Store) Restore(ctx context.Context) (*Profile, error) {
	s.mu.Lock()
	raw, ok, err := s.kv.Get(ctx, storage.KeyCurrentUserEmail)
	if err != nil || !ok || normalizeEmail(raw) == "" {
		s.mu.Unlock()
		return nil, err
	}
	email := normalizeEmail(raw)
	users, err := s.loadUsers(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	rec, found := findUser(users, email)
	if !found {
		s.mu.Unlock()
		s.log.Warn("session points at unknown user", "email", email)
		return nil, nil
	}
	p := withRole(rec.Profile)
	s.current = &p
	s.mu.Unlock()

	s.notify(email)
	out := p
	return &out, nil
}

// UpdateLevel changes the signed-in user's educational level.
func (s *Store) UpdateLevel(ctx context.Context, level string) error {
	canonical, ok := CanonicalLevel(level)
	if !ok {
		return ValidationError{Field: "level", Reason: "must be one of: " + strings.Join(EducationalLevels, ", ")}
	}
	return s.updateCurrent(ctx, func(p *Profile) { p.Level = canonical })
}

// UpdateName renames the signed-in user. A blank name is ignored.
func (s *Store) UpdateName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return s.updateCurrent(ctx, func(p *Profile) { p.Name = name })
}

// ListUsers returns every profile without secrets.
func (s *Store) ListUsers(ctx context.Context) ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Profile, 0, len(users))
	for _, u := range users {
		out = append(out, withRole(u.Profile))
	}
	return out, nil
}

// PruneOrphans deletes per-user gamification, reminder and chat records whose owner is no
// longer registered, and returns the removed keys.
func (s *Store) PruneOrphans(ctx context.Context) ([]string, error) {
	lister, ok := s.kv.(keyLister)
	if !ok {
		return nil, errors.New("prune: store cannot list keys")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.Email] = true
	}

	var removed []string
	for _, prefix := range []string{
		storage.KeyGamificationPrefix,
		storage.KeyReminders + "-",
		storage.KeyChatHistory + "-",
	} {
		keys, err := lister.Keys(ctx, prefix)
		if err != nil {
			return removed, err
		}
		for _, k := range keys {
			if known[strings.TrimPrefix(k, prefix)] {
				continue
			}
			if err := s.kv.Remove(ctx, k); err != nil {
				return removed, err
			}
			removed = append(removed, k)
		}
	}
	if len(removed) > 0 {
		s.log.Info("pruned orphaned records", "count", len(removed))
	}
	return removed, nil
}

func (s *Store) updateCurrent(ctx context.Context, mutate func(p *Profile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNotSignedIn
	}
	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Email != s.current.Email {
			continue
		}
		mutate(&users[i].Profile)
		if err := storage.SetJSON(ctx, s.kv, storage.KeyUsers, users); err != nil {
			return err
		}
		mutate(s.current)
		return nil
	}
	return nil
}

// writeSession stores the user list and the session pointer together.
func (s *Store) writeSession(ctx context.Context, users []userRecord, email string) error {
	if b, ok := s.kv.(batchSetter); ok {
		raw, err := storage.MarshalJSON(users)
		if err != nil {
			return err
		}
		return b.SetMany(ctx, map[string]string{
			storage.KeyUsers:            raw,
			storage.KeyCurrentUserEmail: email,
		})
	}
	if err := storage.SetJSON(ctx, s.kv, storage.KeyUsers, users); err != nil {
		return err
	}
	return s.kv.Set(ctx, storage.KeyCurrentUserEmail, email)
}

func (s *Store) loadUsers(ctx context.Context) ([]userRecord, error) {
	var users []userRecord
	if _, err := storage.GetJSON(ctx, s.kv, storage.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

func (s *Store) notify(email string) {
	s.mu.Lock()
	fns := make([]func(string), len(s.listeners))
	copy(fns, s.listeners)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(email)
	}
}

func findUser(users []userRecord, email string) (userRecord, bool) {
	for _, u := range users {
		if u.Email == email {
			return u, true
		}
	}
	return userRecord{}, false
}

func withRole(p Profile) Profile {
	if p.Role == "" {
		p.Role = RoleUser
	}
	return p
}
