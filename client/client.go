package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gradeboard/gradeboard/core/ranking"
	"github.com/gradeboard/gradeboard/core/student"
	"github.com/gradeboard/gradeboard/core/teacher"
)

const (
	// requestTimeout bounds every data request independently of the caller's
	// context, so a hung server surfaces as a timeout, not a forever-spinner.
	requestTimeout = 15 * time.Second

	// logoutTimeout bounds the best-effort server logout call.
	logoutTimeout = 5 * time.Second
)

// Client talks to the Gradeboard API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	token   string // bearer token after login
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		timeout: requestTimeout,
	}
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

type (
	loginResponse struct {
		Token    string          `json:"token"`
		UserType string          `json:"userType"`
		User     json.RawMessage `json:"user"`
	}

	checkAuthResponse struct {
		Authenticated bool `json:"authenticated"`
		User          User `json:"user"`
	}

	updateMarksResponse struct {
		Message string          `json:"message"`
		Student student.Student `json:"student"`
	}

	// RankingsData is one full rankings dataset; it renders whole or not at all.
	RankingsData struct {
		Rankings []ranking.Entry `json:"rankings"`
		Stats    ranking.Stats   `json:"stats"`
	}
)

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	body := map[string]string{"username": username, "password": password}
	var res loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &res, c.timeout); err != nil {
		return Session{}, err
	}

	var usr User
	if err := json.Unmarshal(res.User, &usr); err != nil {
		return Session{}, &Error{Kind: KindOther, Op: "login", Err: err}
	}
	c.token = res.Token
	return Session{UserType: res.UserType, User: usr, Token: res.Token}, nil
}

// CheckAuth asks the server whether the session is still live.
func (c *Client) CheckAuth(ctx context.Context, userType, userID string) (bool, User, error) {
	path := "/api/check-auth?userType=" + userType + "&userId=" + userID
	var res checkAuthResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res, c.timeout); err != nil {
		return false, User{}, err
	}
	return res.Authenticated, res.User, nil
}

// Logout invalidates the server session, bounded by its own short timeout.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil, logoutTimeout)
}

func (c *Client) Teacher(ctx context.Context, id string) (teacher.Teacher, error) {
	var t teacher.Teacher
	err := c.do(ctx, http.MethodGet, "/api/teacher/"+id, nil, &t, c.timeout)
	return t, err
}

func (c *Client) Students(ctx context.Context) ([]student.Student, error) {
	var students []student.Student
	err := c.do(ctx, http.MethodGet, "/api/students", nil, &students, c.timeout)
	return students, err
}

func (c *Client) Student(ctx context.Context, id string) (student.Student, error) {
	var st student.Student
	err := c.do(ctx, http.MethodGet, "/api/student/"+id, nil, &st, c.timeout)
	return st, err
}

func (c *Client) UpdateMarks(ctx context.Context, id string, marks student.Marks) (student.Student, error) {
	body := map[string]interface{}{"marks": marks}
	var res updateMarksResponse
	err := c.do(ctx, http.MethodPost, "/api/student/"+id+"/marks", body, &res, c.timeout)
	return res.Student, err
}

func (c *Client) Result(ctx context.Context, id string) (ranking.Result, error) {
	var res ranking.Result
	err := c.do(ctx, http.MethodGet, "/api/student/"+id+"/result", nil, &res, c.timeout)
	return res, err
}

func (c *Client) Rankings(ctx context.Context) (RankingsData, error) {
	var res RankingsData
	err := c.do(ctx, http.MethodGet, "/api/rankings", nil, &res, c.timeout)
	return res, err
}

// do runs one bounded request and classifies every way it can fail.
func (c *Client) do(ctx context.Context, method, path string, body, dst interface{}, timeout time.Duration) error {
	op := method + " " + path

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindOther, Op: op, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &Error{Kind: KindOther, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(op, err, ctx)
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return classifyTransport(op, err, ctx)
	}

	if res.StatusCode >= 400 {
		var serverErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &serverErr)
		return classifyStatus(op, res.StatusCode, serverErr.Error)
	}

	if dst != nil {
		if err = json.Unmarshal(data, dst); err != nil {
			return &Error{Kind: KindOther, Op: op, Err: err}
		}
	}
	return nil
}
