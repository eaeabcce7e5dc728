package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

// Validator plugs validator/v10 into echo.Echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldKey)
	_ = v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

// FromError turns a bind or validation error into per-field messages.
// Anything that is not a validation error lands under "_".
func FromError(err error) FieldErrors {
	if err == nil {
		return nil
	}
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if _, seen := out[fe.Field()]; seen {
				continue
			}
			out[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	out["_"] = "Dữ liệu gửi lên không hợp lệ."
	return out
}

func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

func fieldKey(f reflect.StructField) string {
	tag := f.Tag.Get("form")
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" || tag == "-" {
		return strings.ToLower(f.Name)
	}
	return tag
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "Trường này không được để trống"
	case "email":
		return "Email không hợp lệ"
	case "min":
		return "Tối thiểu " + param + " ký tự"
	case "max":
		return "Tối đa " + param + " ký tự"
	case "eqfield":
		return "Mật khẩu xác nhận không khớp"
	case "gte":
		return "Giá trị phải lớn hơn hoặc bằng " + param
	case "lte":
		return "Giá trị phải nhỏ hơn hoặc bằng " + param
	case "vnphone":
		return "Số điện thoại không hợp lệ"
	default:
		return "Giá trị không hợp lệ"
	}
}
