// Package session keeps per-visitor state on the server: the signed-in user,
// the backend cookies that authenticate them, the checkout selection and
// one-shot flash messages.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/cart"
	"sneaker_store_echo/internal/services"
)

var ErrNotFound = errors.New("session not found")

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type Session struct {
	ID             string           `json:"id"`
	User           *backend.User    `json:"user,omitempty"`
	BackendCookies []backend.Cookie `json:"backendCookies,omitempty"`
	Checkout       []cart.Item      `json:"checkout,omitempty"`
	Flash          *Flash           `json:"flash,omitempty"`
	CartCount      int              `json:"cartCount"`

	isNew      bool
	dirty      bool
	previousID string
}

func New() *Session {
	return &Session{ID: uuid.NewString(), isNew: true}
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.User != nil
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.User.IsAdmin()
}

// SignIn stores the user and the cookies the backend issued for them.
func (s *Session) SignIn(user *backend.User, cookies []backend.Cookie) {
	s.User = user
	s.BackendCookies = cookies
	s.dirty = true
}

// Rotate moves the session to a fresh id. The old id is dropped from the
// store when the session is saved, so a planted sid dies at sign-in.
func (s *Session) Rotate() {
	if s.isNew {
		s.ID = uuid.NewString()
		s.dirty = true
		return
	}
	if s.previousID == "" {
		s.previousID = s.ID
	}
	s.ID = uuid.NewString()
	s.isNew = true
	s.dirty = true
}

// SignOut forgets the user, the backend cookies and the checkout selection.
func (s *Session) SignOut() {
	s.User = nil
	s.BackendCookies = nil
	s.Checkout = nil
	s.CartCount = 0
	s.dirty = true
}

func (s *Session) SetCheckout(items []cart.Item) {
	s.Checkout = items
	s.dirty = true
}

func (s *Session) ClearCheckout() {
	if s.Checkout == nil {
		return
	}
	s.Checkout = nil
	s.dirty = true
}

func (s *Session) SetCartCount(n int) {
	if s.CartCount == n {
		return
	}
	s.CartCount = n
	s.dirty = true
}

func (s *Session) AddFlash(kind, message string) {
	s.Flash = &Flash{Kind: kind, Message: message}
	s.dirty = true
}

// PopFlash returns the pending flash message and removes it.
func (s *Session) PopFlash() *Flash {
	f := s.Flash
	if f != nil {
		s.Flash = nil
		s.dirty = true
	}
	return f
}

// Context attaches the session's backend cookies to ctx.
func (s *Session) Context(ctx context.Context) context.Context {
	return backend.WithCookies(ctx, s.BackendCookies)
}

func (s *Session) Dirty() bool { return s.dirty }

// Store persists sessions between requests.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// CacheStore keeps sessions in a services.Cache: Redis in production, the
// in-memory cache otherwise.
type CacheStore struct {
	cache services.Cache
	ttl   time.Duration
}

func NewCacheStore(cache services.Cache, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: cache, ttl: ttl}
}

func key(id string) string {
	return "session:" + id
}

func (st *CacheStore) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var s Session
	err := st.cache.Get(ctx, key(id), &s)
	if errors.Is(err, services.ErrCacheMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s.ID = id
	return &s, nil
}

func (st *CacheStore) Save(ctx context.Context, s *Session) error {
	if err := st.cache.Set(ctx, key(s.ID), s, st.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.isNew = false
	s.dirty = false
	if s.previousID != "" {
		if err := st.cache.Delete(ctx, key(s.previousID)); err != nil {
			return fmt.Errorf("drop rotated session: %w", err)
		}
		s.previousID = ""
	}
	return nil
}

func (st *CacheStore) Delete(ctx context.Context, id string) error {
	return st.cache.Delete(ctx, key(id))
}
