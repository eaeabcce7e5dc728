package backend

import (
	"context"
	"net/http"
	"net/url"
)

type loginResponse struct {
	User     User   `json:"user"`
	Redirect string `json:"redirect"`
}

// Login signs the visitor in and returns the backend session cookies.
func (c *Client) Login(ctx context.Context, email, password, redirect string) (*LoginResult, error) {
	query := url.Values{"redirect": []string{redirect}}
	var out loginResponse
	resp, err := c.sendJSON(ctx, http.MethodPost, "/api/auth/login", query, LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: out.User, Redirect: out.Redirect, Cookies: fromHTTPCookies(resp.cookies)}, nil
}

// SocialLogin exchanges a verified social identity for a backend session.
func (c *Client) SocialLogin(ctx context.Context, identity SocialIdentity) (*LoginResult, error) {
	var out loginResponse
	resp, err := c.sendJSON(ctx, http.MethodPost, "/api/auth/social", nil, identity, &out)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: out.User, Redirect: out.Redirect, Cookies: fromHTTPCookies(resp.cookies)}, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.sendJSON(ctx, http.MethodPost, "/api/auth/logout", nil, struct{}{}, nil)
	return err
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	_, err := c.sendJSON(ctx, http.MethodPost, "/api/auth/register", nil, req, nil)
	return err
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	var out existsResponse
	if err := c.getJSON(ctx, "/api/auth/check-email", url.Values{"email": []string{email}}, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	var out existsResponse
	if err := c.getJSON(ctx, "/api/auth/check-username", url.Values{"username": []string{username}}, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}
