package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/landchain/landchain/internal/server/dto"
	"github.com/landchain/landchain/internal/server/models"
)

// envelope mirrors the server's response body.
type envelope struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Data     json.RawMessage   `json:"data"`
	Fields   map[string]string `json:"fields"`
	Redirect string            `json:"redirect"`
}

type RegisterResult struct {
	UniqueID string
	Message  string
}

type LoginResult struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	UniqueID string `json:"unique_id"`
	Redirect string `json:"-"`
}

type Client struct {
	base *url.URL
	http *http.Client
}

// New returns a client for the server at baseURL. Redirects are not
// followed; a 303 from a dashboard means the session was refused.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported server url %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		base: u,
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*RegisterResult, error) {
	var data struct {
		UniqueID string `json:"unique_id"`
	}
	env, err := c.do(ctx, http.MethodPost, "/register", req, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("decode register response: %w", err)
	}
	return &RegisterResult{UniqueID: data.UniqueID, Message: env.Message}, nil
}

func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*LoginResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/login", req, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var res LoginResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	res.Redirect = env.Redirect
	return &res, nil
}

// Dashboard fetches role's dashboard with the current session. A refused
// session is ErrUnauthorized.
func (c *Client) Dashboard(ctx context.Context, role models.Role) (*models.Dashboard, error) {
	env, err := c.do(ctx, http.MethodGet, role.DashboardPath(), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var d models.Dashboard
	if err := json.Unmarshal(env.Data, &d); err != nil {
		return nil, fmt.Errorf("decode dashboard: %w", err)
	}
	return &d, nil
}

func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, "/logout", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusSeeOther && resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: resp.Status}
	}
	return nil
}

// Ping checks the server's liveness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/healthz", nil, http.StatusOK)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int) (*envelope, error) {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusSeeOther || resp.StatusCode == http.StatusUnauthorized {
		if resp.StatusCode == http.StatusUnauthorized {
			if env, err := decodeEnvelope(resp.Body); err == nil && env.Message != "" {
				return nil, fmt.Errorf("%w: %s", ErrUnauthorized, env.Message)
			}
		}
		return nil, ErrUnauthorized
	}

	env, err := decodeEnvelope(resp.Body)
	if err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: resp.Status}
	}
	if resp.StatusCode != want {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message, Fields: env.Fields, Redirect: env.Redirect}
	}
	return env, nil
}

func decodeEnvelope(r io.Reader) (*envelope, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, err
	}
	return &env, nil
}
