package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	CookieName = "sid"
	contextKey = "session"
)

type Options struct {
	Store  Store
	TTL    time.Duration
	Secure bool
	Logger *zap.Logger
}

// Middleware loads the visitor's session (or starts a new one), exposes it
// through FromContext and runs the handler with the session's backend
// cookies attached to the request context. Modified sessions are saved just
// before the response header is written.
func Middleware(opts Options) echo.MiddlewareFunc {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			sess := load(req.Context(), c, opts.Store, logger)
			c.Set(contextKey, sess)
			c.SetRequest(req.WithContext(sess.Context(req.Context())))

			saved := false
			save := func() {
				if saved || !sess.Dirty() {
					return
				}
				saved = true
				wasNew := sess.isNew
				if err := opts.Store.Save(context.WithoutCancel(req.Context()), sess); err != nil {
					logger.Error("save session", zap.Error(err))
					return
				}
				if wasNew && !c.Response().Committed {
					setCookie(c, sess.ID, opts.TTL, opts.Secure)
				}
			}
			c.Response().Before(save)

			err := next(c)
			if !c.Response().Committed {
				save()
			}
			return err
		}
	}
}

func load(ctx context.Context, c echo.Context, store Store, logger *zap.Logger) *Session {
	ck, err := c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return New()
	}
	sess, err := store.Get(ctx, ck.Value)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("load session", zap.Error(err))
		}
		return New()
	}
	return sess
}

func setCookie(c echo.Context, id string, ttl time.Duration, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromContext returns the current session. Outside the middleware it
// returns a fresh, unsaved session so handlers never see nil.
func FromContext(c echo.Context) *Session {
	if s, ok := c.Get(contextKey).(*Session); ok && s != nil {
		return s
	}
	s := New()
	c.Set(contextKey, s)
	return s
}

// Refresh re-attaches the session's backend cookies to the request context,
// after a sign-in or sign-out changed them.
func Refresh(c echo.Context) {
	req := c.Request()
	c.SetRequest(req.WithContext(FromContext(c).Context(req.Context())))
}
