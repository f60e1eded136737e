package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/huddlechat/huddle/internal/types"
)

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for an access token. The endpoint takes a
// form body, not JSON.
func Login(ctx context.Context, baseURL, username, password string) (Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	endpoint := strings.TrimRight(baseURL, "/") + "/auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Token{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode}
		var body struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Detail != "" {
			apiErr.Detail = body.Detail
		} else {
			apiErr.Detail = http.StatusText(resp.StatusCode)
		}
		return Token{}, fmt.Errorf("login: %w", apiErr)
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return Token{}, err
	}
	return token, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (types.User, error) {
	var user types.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user)
	return user, err
}
