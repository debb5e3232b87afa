// Package api is the typed HTTP client for the AskBob server. All business
// logic and persistence live server-side; this layer attaches the bearer
// token, shapes requests, and normalizes failures into *Error values with
// human-readable messages.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"askbob/internal/model"
	"askbob/internal/query"
	"askbob/internal/session"
)

// DefaultTenantName is substituted when registration is submitted with a
// blank tenant (the multi-tenant onboarding default).
const DefaultTenantName = "Default Tenant"

type Client struct {
	baseURL string
	http    *http.Client
	sess    *session.Store
}

// New creates a client for the server at baseURL. timeout 0 means no
// client-side timeout: a never-responding server leaves the caller waiting.
func New(baseURL string, sess *session.Store, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		sess:    sess,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a bearer token. The server follows the
// OAuth2 password-flow convention: URL-encoded form with `username` and
// `password` fields, even though the username is an email address.
// The token is returned, not stored; the caller owns the session.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &Error{Fallback: fallbackLogin, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	data, err := c.send(req, fallbackLogin)
	if err != nil {
		return "", err
	}
	var tok tokenResponse
	if err := json.Unmarshal(data, &tok); err != nil {
		return "", &Error{Fallback: fallbackLogin, Err: err}
	}
	return tok.AccessToken, nil
}

// Register creates a user (and tenant) and returns a bearer token.
func (c *Client) Register(ctx context.Context, email, password, tenantName string) (string, error) {
	if strings.TrimSpace(tenantName) == "" {
		tenantName = DefaultTenantName
	}
	body := struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		TenantName string `json:"tenant_name"`
	}{email, password, tenantName}

	data, err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, body, fallbackRegister)
	if err != nil {
		return "", err
	}
	var tok tokenResponse
	if err := json.Unmarshal(data, &tok); err != nil {
		return "", &Error{Fallback: fallbackRegister, Err: err}
	}
	return tok.AccessToken, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/projects/", nil, nil, fallbackLoadProjects)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Project](data), nil
}

func (c *Client) CreateProject(ctx context.Context, name, description string) (model.Project, error) {
	body := struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}{Name: name, Description: nullableString(description)}

	data, err := c.doJSON(ctx, http.MethodPost, "/projects/", nil, body, fallbackCreateProject)
	if err != nil {
		return model.Project{}, err
	}
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, &Error{Fallback: fallbackCreateProject, Err: err}
	}
	return p, nil
}

// ProjectPatch is a partial update; nil fields are left untouched by the
// server.
type ProjectPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (c *Client) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (model.Project, error) {
	data, err := c.doJSON(ctx, http.MethodPut, "/projects/"+id, nil, patch, fallbackUpdateProject)
	if err != nil {
		return model.Project{}, err
	}
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, &Error{Fallback: fallbackUpdateProject, Err: err}
	}
	return p, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/projects/"+id, nil, nil, fallbackDeleteProject)
	return err
}

func (c *Client) ListTasks(ctx context.Context, q query.TaskQuery) ([]model.Task, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/tasks/", q.Values(), nil, fallbackLoadTasks)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Task](data), nil
}

type TaskCreate struct {
	Title     string
	Status    model.Status
	Assignee  string
	ProjectID string
}

func (c *Client) CreateTask(ctx context.Context, t TaskCreate) (model.Task, error) {
	body := struct {
		Title     string       `json:"title"`
		Status    model.Status `json:"status"`
		Assignee  *string      `json:"assignee"`
		ProjectID string       `json:"project_id"`
	}{t.Title, t.Status, nullableString(t.Assignee), t.ProjectID}

	data, err := c.doJSON(ctx, http.MethodPost, "/tasks/", nil, body, fallbackCreateTask)
	if err != nil {
		return model.Task{}, err
	}
	var out model.Task
	if err := json.Unmarshal(data, &out); err != nil {
		return model.Task{}, &Error{Fallback: fallbackCreateTask, Err: err}
	}
	return out, nil
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title    *string       `json:"title,omitempty"`
	Status   *model.Status `json:"status,omitempty"`
	Assignee *string       `json:"assignee,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (model.Task, error) {
	data, err := c.doJSON(ctx, http.MethodPut, "/tasks/"+id, nil, patch, fallbackUpdateTask)
	if err != nil {
		return model.Task{}, err
	}
	var out model.Task
	if err := json.Unmarshal(data, &out); err != nil {
		return model.Task{}, &Error{Fallback: fallbackUpdateTask, Err: err}
	}
	return out, nil
}

// SetTaskStatus is the quick-action variant of UpdateTask: only the status
// changes, and failures report the quick-action fallback message.
func (c *Client) SetTaskStatus(ctx context.Context, id string, status model.Status) error {
	patch := TaskPatch{Status: &status}
	_, err := c.doJSON(ctx, http.MethodPut, "/tasks/"+id, nil, patch, fallbackUpdateStatus)
	return err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/tasks/"+id, nil, nil, fallbackDeleteTask)
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, qv url.Values, body any, fallback string) ([]byte, error) {
	u := c.baseURL + path
	if len(qv) > 0 {
		u += "?" + qv.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Fallback: fallback, Err: err}
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, &Error{Fallback: fallback, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, fallback)
}

func (c *Client) send(req *http.Request, fallback string) ([]byte, error) {
	if tok, ok := c.sess.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Fallback: fallback, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Fallback: fallback, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Detail:     serverDetail(data),
			Fallback:   fallback,
		}
	}
	return data, nil
}

// serverDetail extracts the backend's {"detail": "..."} string when present.
// FastAPI-style validation errors put a list under detail; those are not a
// user-presentable message, so they fall through to the fallback.
func serverDetail(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err != nil {
		return ""
	}
	return s
}

// decodeList tolerates both list shapes the backend has shipped: a bare
// JSON array and an {"items": [...]} envelope. Anything else decodes to an
// empty list. The ambiguity stops here; callers only ever see a slice.
func decodeList[T any](data []byte) []T {
	var bare []T
	if err := json.Unmarshal(data, &bare); err == nil && bare != nil {
		return bare
	}
	var env struct {
		Items []T `json:"items"`
	}
	if err := json.Unmarshal(data, &env); err == nil && env.Items != nil {
		return env.Items
	}
	return []T{}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
