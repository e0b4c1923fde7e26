// Package client provides the HTTP client and session state used by
// the CLI to talk to a DevDay server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/devday/devday/internal/core"
	"github.com/devday/devday/internal/day"
)

// Client is a thin HTTP wrapper over the DevDay API. It carries one
// session token; create one per logged-in session.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates an API client
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken sets the session token sent on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current session token.
func (c *Client) Token() string {
	return c.token
}

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, out interface{}) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		message := string(respBody)
		if json.Unmarshal(respBody, &payload) == nil {
			if payload.Error != "" {
				message = payload.Error
			} else if payload.Message != "" {
				message = payload.Message
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// --- Auth ---

type authResult struct {
	User  *core.User `json:"user"`
	Token string     `json:"token"`
}

// SignUp creates an account and stores the returned session token.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (*core.User, error) {
	var res authResult
	err := c.do(ctx, "POST", "/api/auth/signup", map[string]string{
		"email":       email,
		"password":    password,
		"displayName": displayName,
	}, &res)
	if err != nil {
		return nil, err
	}
	c.token = res.Token
	return res.User, nil
}

// LogIn authenticates and stores the returned session token.
func (c *Client) LogIn(ctx context.Context, email, password string) (*core.User, error) {
	var res authResult
	err := c.do(ctx, "POST", "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	c.token = res.Token
	return res.User, nil
}

// LogOut invalidates the current session.
func (c *Client) LogOut(ctx context.Context) error {
	err := c.do(ctx, "POST", "/api/auth/logout", nil, nil)
	c.token = ""
	return err
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*core.User, error) {
	var res struct {
		User *core.User `json:"user"`
	}
	if err := c.do(ctx, "GET", "/api/auth/me", nil, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}

// --- Day lifecycle ---

// DayStatus reports whether a day is started today and its id.
func (c *Client) DayStatus(ctx context.Context) (bool, core.DayID, error) {
	var res struct {
		IsStarted bool       `json:"isStarted"`
		DayID     core.DayID `json:"dayId"`
	}
	if err := c.do(ctx, "GET", "/api/day/status", nil, &res); err != nil {
		return false, "", err
	}
	return res.IsStarted, res.DayID, nil
}

// StartDayResult mirrors the server's start-day response.
type StartDayResult struct {
	Day   *core.Day           `json:"day"`
	Goals day.GoalBatchResult `json:"goals"`
}

// StartDay starts today's session with the given goals.
func (c *Client) StartDay(ctx context.Context, goals []string) (*StartDayResult, error) {
	var res StartDayResult
	err := c.do(ctx, "POST", "/api/day/start", map[string]interface{}{"goals": goals}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// EndDay closes a day session with the given goal counts.
func (c *Client) EndDay(ctx context.Context, dayID core.DayID, completed, total int) (*core.Day, error) {
	var res struct {
		Day *core.Day `json:"day"`
	}
	err := c.do(ctx, "POST", "/api/day/end", map[string]interface{}{
		"dayId":          dayID,
		"completedGoals": completed,
		"totalGoals":     total,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Day, nil
}

// Day fetches the full view of one day.
func (c *Client) Day(ctx context.Context, dayID core.DayID) (*day.Detail, error) {
	var res day.Detail
	if err := c.do(ctx, "GET", "/api/day/"+string(dayID), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// RecentDays lists the most recent day sessions.
func (c *Client) RecentDays(ctx context.Context, limit int) ([]*core.Day, error) {
	path := "/api/day/recent"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var res struct {
		Days []*core.Day `json:"days"`
	}
	if err := c.do(ctx, "GET", path, nil, &res); err != nil {
		return nil, err
	}
	return res.Days, nil
}

// AddActivity logs an activity against a day.
func (c *Client) AddActivity(ctx context.Context, dayID core.DayID, activityType core.ActivityType, description string) (*core.Activity, error) {
	var res struct {
		Activity *core.Activity `json:"activity"`
	}
	err := c.do(ctx, "POST", "/api/activity/add", map[string]interface{}{
		"dayId":       dayID,
		"type":        activityType,
		"description": description,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Activity, nil
}

// UpdateGoalStatus transitions one goal's status.
func (c *Client) UpdateGoalStatus(ctx context.Context, goalID core.GoalID, status core.GoalStatus) (*core.Goal, error) {
	var res struct {
		Goal *core.Goal `json:"goal"`
	}
	err := c.do(ctx, "POST", "/api/goal/status", map[string]interface{}{
		"goalId": goalID,
		"status": status,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Goal, nil
}

// JoinWaitlist adds an email to the public waitlist.
func (c *Client) JoinWaitlist(ctx context.Context, email string) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, "POST", "/api/waitlist", map[string]string{"email": email}, &res)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}
