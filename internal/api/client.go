// Package api implements the REST client for the campuschat server.
// All authenticated calls carry the bearer token from the TokenSource;
// login, password reset, and profile update may rotate the token via the
// Authorization response header.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ayoubkh/campuschat/internal/errors"
	"github.com/ayoubkh/campuschat/internal/logger"
)

// TokenSource provides the bearer token for authenticated requests.
// *config.Config satisfies this.
type TokenSource interface {
	GetToken() string
}

// Client talks to the chat server's REST API.
type Client struct {
	base   string
	tokens TokenSource
	http   *http.Client
}

// New creates a client for the given base URL (no trailing slash).
func New(base string, tokens TokenSource) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		tokens: tokens,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(h http.Header) string {
	return strings.TrimPrefix(h.Get("Authorization"), "Bearer ")
}

// do performs a JSON request. body may be nil. out may be nil when the
// response body is irrelevant. Returns the response headers so callers can
// pick up rotated tokens.
func (c *Client) do(ctx context.Context, op errors.Op, method, path string, auth bool, body, out interface{}) (http.Header, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.E(op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, errors.E(op, errors.KindNetwork, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.tokens.GetToken())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.E(op, errors.KindNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.E(op, errors.KindNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Debug("API: %s %s -> %d: %s", method, path, resp.StatusCode, truncate(string(data), 200))
		return resp.Header, errors.RequestFailed(op, resp.StatusCode, serverMessage(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.Header, errors.E(op, errors.KindNetwork, "malformed response", err)
		}
	}
	return resp.Header, nil
}

// serverMessage pulls the human-readable message out of an error response.
func serverMessage(data []byte) string {
	var payload struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		for _, s := range []string{payload.Status, payload.Message, payload.Error} {
			if s != "" {
				return s
			}
		}
	}
	return truncate(string(data), 120)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// --- Auth flows ---

// Login authenticates and returns the bearer token from the Authorization
// response header.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	op := errors.Op("api.Login")
	body := map[string]string{"username": username, "password": password}
	headers, err := c.do(ctx, op, http.MethodPost, "/user/login", false, body, nil)
	if err != nil {
		if errors.GetKind(err) == errors.KindAuth {
			return "", errors.WrongCredentials()
		}
		return "", err
	}
	token := bearerToken(headers)
	if token == "" {
		return "", errors.E(op, errors.KindAuth, "login response carried no token")
	}
	return token, nil
}

// Register submits a registration form. The returned status string is shown
// verbatim to the user ("Registration Form sent to the Administrator...").
func (c *Client) Register(ctx context.Context, form RegisterRequest) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	_, err := c.do(ctx, errors.Op("api.Register"), http.MethodPost, "/user/register", false, form, &out)
	if err != nil {
		return "", err
	}
	return out.Status, nil
}

// ForgotPassword requests a password-recovery email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	body := map[string]string{"email": email}
	_, err := c.do(ctx, errors.Op("api.ForgotPassword"), http.MethodPost, "/user/forgotpwd", false, body, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// ResetPassword sets a new password using the short-lived token from the
// recovery email (not the stored session token).
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) error {
	op := errors.Op("api.ResetPassword")
	data, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return errors.E(op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/user/reset_password", bytes.NewReader(data))
	if err != nil {
		return errors.E(op, errors.KindNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+resetToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.E(op, errors.KindNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return errors.RequestFailed(op, resp.StatusCode, serverMessage(body))
	}
	return nil
}

// --- Directory and roster reads ---

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	_, err := c.do(ctx, errors.Op("api.CurrentUser"), http.MethodGet, "/user/current", true, nil, &out)
	return out.User, err
}

// Groups lists the group rooms the user belongs to. A 404 means "no
// groups", not a failure.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var out struct {
		GroupRooms []Group `json:"group_rooms"`
	}
	_, err := c.do(ctx, errors.Op("api.Groups"), http.MethodGet, "/user/groups", true, nil, &out)
	if err != nil {
		if isEmptyRoster(err) {
			return nil, nil
		}
		return nil, err
	}
	return out.GroupRooms, nil
}

// DMs lists the user's direct-message rooms. A 404 means "no DMs".
func (c *Client) DMs(ctx context.Context) ([]DirectRoom, error) {
	var out struct {
		DirectRooms []DirectRoom `json:"direct_rooms"`
	}
	_, err := c.do(ctx, errors.Op("api.DMs"), http.MethodGet, "/user/dms", true, nil, &out)
	if err != nil {
		if isEmptyRoster(err) {
			return nil, nil
		}
		return nil, err
	}
	return out.DirectRooms, nil
}

// isEmptyRoster reports whether an error is the server's 404 for a user
// with no rooms of the requested kind.
func isEmptyRoster(err error) bool {
	return err != nil && strings.Contains(err.Error(), "server returned 404")
}

// Users searches the user directory. An empty query lists everyone.
func (c *Client) Users(ctx context.Context, username string) ([]User, error) {
	path := "/user/users"
	if username != "" {
		path += "?username=" + url.QueryEscape(username)
	}
	var out []User
	_, err := c.do(ctx, errors.Op("api.Users"), http.MethodGet, path, true, nil, &out)
	return out, err
}

// --- Messages ---

// Messages fetches one page of history for a room, newest-first. offset is
// the zero-based page index; the server returns 20 messages per page.
func (c *Client) Messages(ctx context.Context, roomID, offset int) ([]Message, error) {
	path := fmt.Sprintf("/room/messages/%d?offset=%d", roomID, offset)
	var out struct {
		Messages []Message `json:"messages"`
	}
	_, err := c.do(ctx, errors.Op("api.Messages"), http.MethodGet, path, true, nil, &out)
	return out.Messages, err
}

// Upload stores a file for a room and returns the link/name/size triple to
// embed in a file message.
func (c *Client) Upload(ctx context.Context, roomID int, name string, size int64, content io.Reader) (UploadResult, error) {
	op := errors.Op("api.Upload")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return UploadResult{}, errors.E(op, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return UploadResult{}, errors.E(op, err)
	}
	if err := w.WriteField("name", name); err != nil {
		return UploadResult{}, errors.E(op, err)
	}
	if err := w.WriteField("size", strconv.FormatInt(size, 10)); err != nil {
		return UploadResult{}, errors.E(op, err)
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, errors.E(op, err)
	}

	path := fmt.Sprintf("/room/upload/%d", roomID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, &buf)
	if err != nil {
		return UploadResult{}, errors.E(op, errors.KindNetwork, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.tokens.GetToken())

	resp, err := c.http.Do(req)
	if err != nil {
		return UploadResult{}, errors.E(op, errors.KindNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, errors.E(op, errors.KindNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return UploadResult{}, errors.RequestFailed(op, resp.StatusCode, serverMessage(data))
	}

	var out UploadResult
	if err := json.Unmarshal(data, &out); err != nil {
		return UploadResult{}, errors.E(op, errors.KindNetwork, "malformed response", err)
	}
	return out, nil
}

// --- Rooms ---

// CreateGroup creates a group room, optionally with a picture, and returns
// its id.
func (c *Client) CreateGroup(ctx context.Context, name string, picture io.Reader, pictureName string) (int, error) {
	op := errors.Op("api.CreateGroup")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("room_name", name); err != nil {
		return 0, errors.E(op, err)
	}
	if err := w.WriteField("room_type", "group"); err != nil {
		return 0, errors.E(op, err)
	}
	if picture != nil {
		part, err := w.CreateFormFile("picture", pictureName)
		if err != nil {
			return 0, errors.E(op, err)
		}
		if _, err := io.Copy(part, picture); err != nil {
			return 0, errors.E(op, err)
		}
	}
	if err := w.Close(); err != nil {
		return 0, errors.E(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/room/create", &buf)
	if err != nil {
		return 0, errors.E(op, errors.KindNetwork, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.tokens.GetToken())

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errors.E(op, errors.KindNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errors.E(op, errors.KindNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, errors.RequestFailed(op, resp.StatusCode, serverMessage(data))
	}

	var out struct {
		RoomID int `json:"room_id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, errors.E(op, errors.KindNetwork, "malformed response", err)
	}
	return out.RoomID, nil
}

// JoinGroup redeems an invite code. The returned message names the room.
func (c *Client) JoinGroup(ctx context.Context, roomCode string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	body := map[string]string{"room_code": roomCode}
	_, err := c.do(ctx, errors.Op("api.JoinGroup"), http.MethodPost, "/room/join", true, body, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// LeaveGroup removes the user from a group room.
func (c *Client) LeaveGroup(ctx context.Context, roomID int) error {
	body := map[string]int{"room_id": roomID}
	_, err := c.do(ctx, errors.Op("api.LeaveGroup"), http.MethodPost, "/room/leave", true, body, nil)
	return err
}

// InitiateDM creates (or finds) the direct room with a recipient.
func (c *Client) InitiateDM(ctx context.Context, recipient User) (DirectRoom, error) {
	var out DirectRoom
	body := map[string]interface{}{"recipient": recipient}
	_, err := c.do(ctx, errors.Op("api.InitiateDM"), http.MethodPost, "/user/dms/initiate", true, body, &out)
	return out, err
}

// --- Profile and notifications ---

// UpdateProfile changes the user's profile fields. The server rotates the
// token on success; the new token is returned for the caller to persist.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (User, string, error) {
	var out struct {
		Status string `json:"status"`
		User   User   `json:"user"`
	}
	headers, err := c.do(ctx, errors.Op("api.UpdateProfile"), http.MethodPut, "/user/update", true, update, &out)
	if err != nil {
		return User{}, "", err
	}
	return out.User, bearerToken(headers), nil
}

// Notifications fetches the user's pending notifications.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var out struct {
		Notifications []Notification `json:"notifications"`
	}
	_, err := c.do(ctx, errors.Op("api.Notifications"), http.MethodGet, "/user/notifications", true, nil, &out)
	return out.Notifications, err
}

// DeleteNotifications clears all pending notifications.
func (c *Client) DeleteNotifications(ctx context.Context) error {
	_, err := c.do(ctx, errors.Op("api.DeleteNotifications"), http.MethodDelete, "/user/notifications/delete", true, nil, nil)
	return err
}
