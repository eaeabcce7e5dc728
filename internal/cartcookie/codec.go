// Package cartcookie carries the guest cart id in a signed cookie so a
// visitor cannot point their session at somebody else's cart.
package cartcookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const DefaultName = "guest_cart"

var ErrInvalid = errors.New("invalid cart cookie")

type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

func New(secret []byte, secure bool, maxAge time.Duration) *Codec {
	return &Codec{Secret: secret, CookieName: DefaultName, Secure: secure, MaxAge: maxAge}
}

// NewID returns a fresh guest cart id.
func NewID() string {
	return uuid.NewString()
}

// value format: cartID.base64(hmac(cartID))
func (c *Codec) Encode(cartID string) string {
	return cartID + "." + sign(c.Secret, cartID)
}

func (c *Codec) Decode(v string) (string, error) {
	id, sig, ok := strings.Cut(v, ".")
	if !ok || id == "" || strings.Contains(sig, ".") {
		return "", ErrInvalid
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrInvalid
	}
	if !verify(c.Secret, id, sig) {
		return "", ErrInvalid
	}
	return id, nil
}

// CartID reads the guest cart id. A tampered cookie is cleared.
func (c *Codec) CartID(ctx echo.Context) (string, bool) {
	ck, err := ctx.Cookie(c.CookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	id, err := c.Decode(ck.Value)
	if err != nil {
		c.Clear(ctx)
		return "", false
	}
	return id, true
}

// Ensure returns the current guest cart id, issuing a new cookie if needed.
func (c *Codec) Ensure(ctx echo.Context) string {
	if id, ok := c.CartID(ctx); ok {
		return id
	}
	id := NewID()
	c.Set(ctx, id)
	return id
}

func (c *Codec) Set(ctx echo.Context, cartID string) {
	maxAge := c.MaxAge
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	ctx.SetCookie(&http.Cookie{
		Name:     c.CookieName,
		Value:    c.Encode(cartID),
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Codec) Clear(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     c.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verify(secret []byte, payload, sig string) bool {
	return hmac.Equal([]byte(sign(secret, payload)), []byte(sig))
}
