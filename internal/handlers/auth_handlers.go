package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sneaker_store_echo/internal/apperr"
	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/cart"
	"sneaker_store_echo/internal/services"
	"sneaker_store_echo/internal/session"
	"sneaker_store_echo/internal/validation"
	"sneaker_store_echo/web/templates/pages"
	"sneaker_store_echo/web/templates/shared"
)

const (
	msgEmailUnknown   = "Email không tồn tại trong hệ thống!"
	msgWrongPassword  = "Sai mật khẩu!"
	msgEmailTaken     = "Email đã được sử dụng!"
	msgUsernameTaken  = "Username đã được sử dụng!"
	msgRegistered     = "Đăng ký thành công!"
	msgRegisterFailed = "Đăng ký thất bại!"
	msgLoggedOut      = "Bạn đã đăng xuất."
	msgMergeFailed    = "Không thể đồng bộ giỏ hàng: "
)

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Redirect string `form:"redirect"`
}

type registerForm struct {
	Email           string `form:"email" validate:"required,email"`
	Username        string `form:"username" validate:"required,min=3"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

// AuthHandler signs visitors in and out against the backend and keeps the
// resulting backend cookies in the session.
type AuthHandler struct {
	base
	backend  *backend.Client
	verifier services.TokenVerifier
	firebase *pages.FirebaseWeb
}

func NewAuthHandler(d Deps) *AuthHandler {
	return &AuthHandler{base: newBase(d), backend: d.Backend, verifier: d.Verifier, firebase: d.Firebase}
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	if session.FromContext(c).LoggedIn() {
		return redirect(c, safeRedirect(c.QueryParam("redirect"), "/"))
	}
	return h.renderLogin(c, http.StatusOK, loginForm{Redirect: c.QueryParam("redirect")}, nil)
}

func (h *AuthHandler) renderLogin(c echo.Context, status int, form loginForm, errs validation.FieldErrors) error {
	props := pages.LoginProps{
		Layout:   h.Layout(c, "Đăng nhập", "login", shared.Crumbs(shared.Breadcrumb{Title: "Đăng nhập"})...),
		Email:    form.Email,
		Redirect: safeRedirect(form.Redirect, ""),
		Errors:   errs,
		Firebase: h.firebase,
	}
	return render(c, status, pages.Login(props))
}

// Login checks the email exists, signs in on the backend, then moves the
// guest cart into the account.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.renderLogin(c, http.StatusBadRequest, form, validation.FromError(err))
	}
	form.Email = strings.TrimSpace(form.Email)
	if form.Redirect == "" {
		form.Redirect = c.QueryParam("redirect")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderLogin(c, http.StatusBadRequest, form, validation.FromError(err))
	}

	ctx := c.Request().Context()
	exists, err := h.backend.CheckEmail(ctx, form.Email)
	if err != nil {
		h.logger.Warn("check email before login", zap.Error(err))
	} else if !exists {
		return h.renderLogin(c, http.StatusBadRequest, form, validation.FieldErrors{"email": msgEmailUnknown})
	}

	res, err := h.backend.Login(ctx, form.Email, form.Password, safeRedirect(form.Redirect, "/"))
	if err != nil {
		ae := apperr.FromBackend(err, msgWrongPassword)
		if ae.Kind == apperr.Invalid || ae.Kind == apperr.Unauthorized {
			ae.PublicMsg = loginMessage(err)
		}
		return h.renderLogin(c, apperr.HTTPStatus(ae), form, validation.FieldErrors{"_": ae.PublicMsg})
	}

	h.signIn(c, res)
	return redirect(c, h.afterLogin(res, form.Redirect))
}

func loginMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Message != http.StatusText(apiErr.StatusCode) {
		return apiErr.Message
	}
	return msgWrongPassword
}

// signIn stores the user in the session and merges the guest cart. A refused
// merge keeps the guest cart and tells the visitor why.
func (h *AuthHandler) signIn(c echo.Context, res *backend.LoginResult) {
	sess := session.FromContext(c)
	user := res.User
	sess.SignIn(&user, res.Cookies)
	sess.Rotate()
	session.Refresh(c)

	if guestID, ok := h.cartCookie.CartID(c); ok {
		_, err := h.cart.MergeOnLogin(c.Request().Context(), guestID)
		var stockErr *cart.StockError
		switch {
		case errors.As(err, &stockErr):
			flash(c, session.FlashWarning, msgMergeFailed+stockErr.Message)
		case err != nil:
			h.logger.Error("merge guest cart", zap.String("cart_id", guestID), zap.Error(err))
		default:
			h.cartCookie.Clear(c)
		}
	}
	h.refreshCartCount(c, cart.Owner{LoggedIn: true})
	h.logger.Info("user signed in", zap.Int64("user_id", user.ID), zap.Bool("admin", user.IsAdmin()))
}

// afterLogin prefers the page the visitor was sent away from, then the
// backend's suggestion (admins land on /admin).
func (h *AuthHandler) afterLogin(res *backend.LoginResult, requested string) string {
	if to := safeRedirect(requested, ""); to != "" && to != "/" {
		return to
	}
	return safeRedirect(res.Redirect, "/")
}

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return h.renderRegister(c, http.StatusOK, registerForm{}, nil)
}

func (h *AuthHandler) renderRegister(c echo.Context, status int, form registerForm, errs validation.FieldErrors) error {
	props := pages.RegisterProps{
		Layout:   h.Layout(c, "Đăng ký", "register", shared.Crumbs(shared.Breadcrumb{Title: "Đăng ký"})...),
		Email:    form.Email,
		Username: form.Username,
		Errors:   errs,
	}
	return render(c, status, pages.Register(props))
}

func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return h.renderRegister(c, http.StatusBadRequest, form, validation.FromError(err))
	}
	form.Email = strings.TrimSpace(form.Email)
	form.Username = strings.TrimSpace(form.Username)
	if err := c.Validate(&form); err != nil {
		return h.renderRegister(c, http.StatusBadRequest, form, validation.FromError(err))
	}

	ctx := c.Request().Context()
	errs := validation.FieldErrors{}
	if taken, err := h.backend.CheckEmail(ctx, form.Email); err == nil && taken {
		errs["email"] = msgEmailTaken
	}
	if taken, err := h.backend.CheckUsername(ctx, form.Username); err == nil && taken {
		errs["username"] = msgUsernameTaken
	}
	if len(errs) > 0 {
		return h.renderRegister(c, http.StatusConflict, form, errs)
	}

	err := h.backend.Register(ctx, backend.RegisterRequest{
		Email:           form.Email,
		Username:        form.Username,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		ae := apperr.FromBackend(err, msgRegisterFailed)
		errs := validation.FieldErrors{"_": ae.PublicMsg}
		for field, msg := range ae.Fields {
			errs[field] = msg
		}
		return h.renderRegister(c, apperr.HTTPStatus(ae), form, errs)
	}

	flash(c, session.FlashSuccess, msgRegistered)
	return redirect(c, "/login")
}

// Logout ends the backend session too; a backend failure only gets logged.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess := session.FromContext(c)
	if sess.LoggedIn() {
		if err := h.backend.Logout(c.Request().Context()); err != nil {
			h.logger.Warn("backend logout", zap.Error(err))
		}
	}
	sess.SignOut()
	sess.Rotate()
	session.Refresh(c)
	flash(c, session.FlashInfo, msgLoggedOut)
	return redirect(c, "/")
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

func (h *AuthHandler) CheckEmail(c echo.Context) error {
	email := strings.TrimSpace(c.QueryParam("email"))
	if email == "" {
		return c.JSON(http.StatusOK, existsResponse{})
	}
	exists, err := h.backend.CheckEmail(c.Request().Context(), email)
	if err != nil {
		return apperr.FromBackend(err, "")
	}
	return c.JSON(http.StatusOK, existsResponse{Exists: exists})
}

func (h *AuthHandler) CheckUsername(c echo.Context) error {
	username := strings.TrimSpace(c.QueryParam("username"))
	if username == "" {
		return c.JSON(http.StatusOK, existsResponse{})
	}
	exists, err := h.backend.CheckUsername(c.Request().Context(), username)
	if err != nil {
		return apperr.FromBackend(err, "")
	}
	return c.JSON(http.StatusOK, existsResponse{Exists: exists})
}

type socialLoginResponse struct {
	Status   string `json:"status"`
	Redirect string `json:"redirect"`
}

// SocialLogin verifies the Firebase ID token from the Authorization header
// and exchanges the identity for a backend session.
func (h *AuthHandler) SocialLogin(c echo.Context) error {
	if h.verifier == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Đăng nhập bằng mạng xã hội chưa được cấu hình.")
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if authHeader == "" || tokenString == authHeader {
		return echo.NewHTTPError(http.StatusUnauthorized, "Thiếu mã xác thực.")
	}

	token, err := h.verifier.VerifyIDToken(c.Request().Context(), tokenString)
	if err != nil {
		h.logger.Warn("verify firebase token", zap.Error(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "Mã xác thực không hợp lệ.")
	}

	res, err := h.backend.SocialLogin(c.Request().Context(), services.IdentityFromToken(token))
	if err != nil {
		return apperr.FromBackend(err, "Đăng nhập thất bại.")
	}
	h.signIn(c, res)

	return c.JSON(http.StatusOK, socialLoginResponse{
		Status:   "success",
		Redirect: h.afterLogin(res, c.QueryParam("redirect")),
	})
}
