package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sneaker_store_echo/internal/apperr"
	"sneaker_store_echo/web/templates/pages"
	"sneaker_store_echo/web/templates/shared"
)

// LayoutFunc builds the shared page data (header, user, cart badge) for the
// error page.
type LayoutFunc func(c echo.Context, title string) shared.Layout

type errorBody struct {
	Error     string            `json:"error"`
	RequestID string            `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// CustomErrorHandler renders errors as a titled page, or as JSON for clients
// that asked for it. AppErrors keep their public message; anything else is
// logged and shown as a generic failure.
func CustomErrorHandler(logger *zap.Logger, layout LayoutFunc) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message, fields := describe(err)
		title := titleFor(code)
		requestID := GetRequestID(c)

		if code >= http.StatusInternalServerError {
			logger.Error("request failed", zap.String("request_id", requestID), zap.String("path", c.Request().URL.Path), zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}

		if WantsJSON(c) {
			if jsonErr := c.JSON(code, errorBody{Error: message, RequestID: requestID, Fields: fields}); jsonErr != nil {
				logger.Error("write error response", zap.Error(jsonErr))
			}
			return
		}

		props := pages.ErrorPageProps{
			ErrorTitle:   title,
			ErrorMessage: message,
			BackLink:     "/",
			BackText:     "Về trang chủ",
		}
		if layout != nil {
			props.Layout = layout(c, title)
		} else {
			props.Layout = shared.Layout{Title: title}
		}
		props.Breadcrumbs = shared.Crumbs(shared.Breadcrumb{Title: title})
		props.RequestID = requestID

		var buf bytes.Buffer
		if renderErr := pages.ErrorPage(props).Render(c.Request().Context(), &buf); renderErr != nil {
			logger.Error("render error page", zap.Error(fmt.Errorf("failed to render error page: %w", renderErr)))
			_ = c.String(code, message)
			return
		}
		_ = c.HTMLBlob(code, buf.Bytes())
	}
}

func describe(err error) (code int, message string, fields map[string]string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok && msg != "" && code < http.StatusInternalServerError {
			message = msg
		}
		if message == "" {
			message = defaultMessage(code)
		}
		return code, message, nil
	}
	if ae, ok := apperr.As(err); ok {
		return apperr.HTTPStatus(ae), apperr.PublicMessage(ae), ae.Fields
	}
	return http.StatusInternalServerError, defaultMessage(http.StatusInternalServerError), nil
}

func titleFor(code int) string {
	switch code {
	case http.StatusNotFound:
		return "Không tìm thấy trang"
	case http.StatusForbidden:
		return "Truy cập bị từ chối"
	case http.StatusUnauthorized:
		return "Chưa đăng nhập"
	case http.StatusBadRequest:
		return "Yêu cầu không hợp lệ"
	case http.StatusConflict:
		return "Xung đột dữ liệu"
	case http.StatusServiceUnavailable:
		return "Dịch vụ tạm thời gián đoạn"
	default:
		return "Lỗi máy chủ"
	}
}

func defaultMessage(code int) string {
	switch code {
	case http.StatusNotFound:
		return "Trang bạn tìm kiếm không tồn tại."
	case http.StatusForbidden:
		return "Bạn không có quyền truy cập nội dung này."
	case http.StatusUnauthorized:
		return "Vui lòng đăng nhập để tiếp tục."
	case http.StatusBadRequest:
		return "Yêu cầu không thể xử lý."
	case http.StatusMethodNotAllowed:
		return "Phương thức không được hỗ trợ."
	default:
		return "Có lỗi xảy ra. Vui lòng thử lại sau."
	}
}
