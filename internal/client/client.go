// Package client is the session-aware SDK for the TimeTrack user API. Every
// request goes through the signing transport; authenticated calls carry the
// stored bearer token. The client never retries: transport and HTTP failures
// surface as typed errors the caller branches on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/StrayFurther/TimeTrack/internal/model"
	"github.com/StrayFurther/TimeTrack/internal/signing"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already in use")
	ErrNotAuthenticated   = errors.New("not logged in")
	ErrNoProfilePic       = errors.New("no profile picture set")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %d %s", e.Status, e.Message)
}

// Config wires up a Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.timetrack.example".
	BaseURL string

	// ClientSecret keys the request signing headers.
	ClientSecret string

	// TokenFile is where the session token persists between runs.
	TokenFile string

	// UserAgent identifies this client. Session tokens are bound to it, so
	// it must stay stable for the lifetime of a login.
	UserAgent string
}

const defaultUserAgent = "timetrack-go-client/1.0"

// Client calls the TimeTrack user API.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	tokens    *TokenStore
}

// New creates a Client whose outbound requests are signed with the client
// secret.
func New(cfg Config) *Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: ua,
		http: &http.Client{
			Transport: &signing.Transport{Secret: cfg.ClientSecret},
		},
		tokens: NewTokenStore(cfg.TokenFile),
	}
}

// IsAuthenticated reports whether a session token is held.
func (c *Client) IsAuthenticated() bool {
	return c.tokens.Present()
}

// ClearToken logs out: the in-memory and persisted token are both dropped.
func (c *Client) ClearToken() error {
	return c.tokens.Clear()
}

// Login exchanges credentials for a session token and persists it. A wrong
// email or password returns ErrInvalidCredentials; other failures return
// an *APIError or a transport error.
func (c *Client) Login(ctx context.Context, creds model.LoginRequest) error {
	var resp model.LoginResponse
	err := c.do(ctx, http.MethodPost, "/user/login", creds, false, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return ErrInvalidCredentials
		}
		return err
	}
	return c.tokens.Set(resp.Token)
}

// Register creates a new account. An already-registered email returns
// ErrEmailTaken.
func (c *Client) Register(ctx context.Context, payload model.RegisterRequest) error {
	err := c.do(ctx, http.MethodPost, "/user/register", payload, false, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// DoesUserExist checks whether an email is already registered. Failures
// propagate to the caller; the async form validator treats them as
// "not taken".
func (c *Client) DoesUserExist(ctx context.Context, email string) (bool, error) {
	var resp model.ExistsResponse
	path := "/user/exists?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, false, &resp); err != nil {
		return false, err
	}
	return resp.Value, nil
}

// FetchActiveUser returns the logged-in user's profile.
func (c *Client) FetchActiveUser(ctx context.Context) (model.UserDetail, error) {
	var detail model.UserDetail
	err := c.do(ctx, http.MethodGet, "/user/details", nil, true, &detail)
	return detail, err
}

// UpdateUserDetails changes the logged-in user's name and, when non-empty,
// password.
func (c *Client) UpdateUserDetails(ctx context.Context, payload model.UpdateUserRequest) (model.UserDetail, error) {
	var detail model.UserDetail
	err := c.do(ctx, http.MethodPut, "/user/details", payload, true, &detail)
	return detail, err
}

// UpdateUserAdminDetails changes another user's details; requires an admin
// session.
func (c *Client) UpdateUserAdminDetails(ctx context.Context, id int64, payload model.AdminUpdateUserRequest) (model.UserDetail, error) {
	var detail model.UserDetail
	err := c.do(ctx, http.MethodPut, "/user/details/"+strconv.FormatInt(id, 10), payload, true, &detail)
	return detail, err
}

// GetOwnProfilePic fetches the logged-in user's picture bytes. A missing
// picture returns ErrNoProfilePic, which callers degrade to a default image.
func (c *Client) GetOwnProfilePic(ctx context.Context) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/user/profile-pic", nil, true)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoProfilePic
	}
	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

// UploadProfilePic uploads a new picture for the logged-in user and returns
// the stored file name.
func (c *Client) UploadProfilePic(ctx context.Context, r io.Reader, filename string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/user/profile-pic", &buf, true)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", readAPIError(resp)
	}

	var result struct {
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.FileName, nil
}

// do runs one JSON round trip. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, reader, authed)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, authed bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	if authed {
		token := c.tokens.Token()
		if token == "" {
			return nil, ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}
