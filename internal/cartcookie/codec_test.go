package cartcookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	codec := New([]byte("secret"), false, time.Hour)
	id := NewID()

	got, err := codec.Decode(codec.Encode(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestDecodeRejectsTampering(t *testing.T) {
	codec := New([]byte("secret"), false, time.Hour)
	other := New([]byte("other"), false, time.Hour)
	id := NewID()

	tests := []struct {
		name  string
		value string
	}{
		{name: "no signature", value: id},
		{name: "foreign signature", value: other.Encode(id)},
		{name: "swapped id", value: NewID() + "." + sign([]byte("secret"), id)},
		{name: "not a uuid", value: codec.Encode("cart-1")},
		{name: "extra segment", value: codec.Encode(id) + ".x"},
		{name: "empty", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.value)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestEnsureIssuesAndReusesCookie(t *testing.T) {
	e := echo.New()
	codec := New([]byte("secret"), true, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	id := codec.Ensure(e.NewContext(req, rec))
	require.NotEmpty(t, id)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	req2 := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req2.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()
	assert.Equal(t, id, codec.Ensure(e.NewContext(req2, rec2)))
	assert.Empty(t, rec2.Result().Cookies())
}

func TestCartIDClearsInvalidCookie(t *testing.T) {
	e := echo.New()
	codec := New([]byte("secret"), false, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: DefaultName, Value: "forged.value"})
	rec := httptest.NewRecorder()

	_, ok := codec.CartID(e.NewContext(req, rec))
	assert.False(t, ok)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
