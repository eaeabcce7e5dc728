package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerForm struct {
	Email           string `form:"email" validate:"required,email"`
	Username        string `form:"username" validate:"required,min=3"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
	Phone           string `form:"phone,omitempty" validate:"omitempty,vnphone"`
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "domestic number",
			input:    "0987654321",
			expected: "0987654321",
		},
		{
			name:     "country code with plus",
			input:    "+84987654321",
			expected: "0987654321",
		},
		{
			name:     "country code without plus",
			input:    "84987654321",
			expected: "0987654321",
		},
		{
			name:     "spaces and dashes",
			input:    " 098-765 4321 ",
			expected: "0987654321",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizePhone(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizePhone(%q) = %q; want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsPhone(t *testing.T) {
	assert.True(t, IsPhone("0987654321"))
	assert.True(t, IsPhone("+84 987 654 321"))
	assert.False(t, IsPhone("12345"))
	assert.False(t, IsPhone("987654321"))
	assert.False(t, IsPhone(""))
}

func TestValidateRegisterForm(t *testing.T) {
	v := New()

	err := v.Validate(&registerForm{
		Email:           "not-an-email",
		Username:        "ab",
		Password:        "123",
		ConfirmPassword: "456",
		Phone:           "123",
	})
	require.Error(t, err)

	fields := FromError(err)
	assert.Equal(t, FieldErrors{
		"email":           "Email không hợp lệ",
		"username":        "Tối thiểu 3 ký tự",
		"password":        "Tối thiểu 6 ký tự",
		"confirmPassword": "Mật khẩu xác nhận không khớp",
		"phone":           "Số điện thoại không hợp lệ",
	}, fields)
	assert.True(t, fields.Has("email"))

	assert.NoError(t, v.Validate(&registerForm{
		Email:           "a@b.vn",
		Username:        "abc",
		Password:        "123456",
		ConfirmPassword: "123456",
	}))
}

func TestFromErrorNonValidation(t *testing.T) {
	assert.Nil(t, FromError(nil))
	assert.Equal(t, FieldErrors{"_": "Dữ liệu gửi lên không hợp lệ."}, FromError(errors.New("bind")))
}
