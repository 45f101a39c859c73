package client

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/locus/locus/internal/models"
	"github.com/locus/locus/pkg/window"
)

// Client talks to a running daemon's control API
type Client struct {
	http *resty.Client
}

// New creates a client for the daemon at baseURL (e.g. http://localhost:10000)
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(5 * time.Second).
			SetHeader("Accept", "application/json"),
	}
}

type apiError struct {
	Error string `json:"error"`
}

type stateResponse struct {
	State string `json:"state"`
}

// StartStream asks the daemon to start polling and returns the new state
func (c *Client) StartStream() (string, error) {
	return c.command("/api/stream/start")
}

// StopStream asks the daemon to stop polling and returns the new state
func (c *Client) StopStream() (string, error) {
	return c.command("/api/stream/stop")
}

func (c *Client) command(path string) (string, error) {
	var result stateResponse
	resp, err := c.http.R().
		SetResult(&result).
		SetError(&apiError{}).
		Post(path)
	if err := check(resp, err, path); err != nil {
		return "", err
	}
	return result.State, nil
}

// Status returns the daemon's stream status
func (c *Client) Status() (*models.StreamStatus, error) {
	var status models.StreamStatus
	resp, err := c.http.R().
		SetResult(&status).
		SetError(&apiError{}).
		Get("/api/status")
	if err := check(resp, err, "/api/status"); err != nil {
		return nil, err
	}
	return &status, nil
}

// Current returns the last emitted window. ok is false when nothing has
// been observed yet.
func (c *Client) Current() (info window.WindowInfo, ok bool, err error) {
	resp, err := c.http.R().
		SetResult(&info).
		SetError(&apiError{}).
		Get("/api/current")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return window.WindowInfo{}, false, nil
	}
	if err := check(resp, err, "/api/current"); err != nil {
		return window.WindowInfo{}, false, err
	}
	return info, true, nil
}

// Events returns up to limit journal entries, newest first
func (c *Client) Events(limit int) ([]models.WindowChange, error) {
	var changes []models.WindowChange
	resp, err := c.http.R().
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&changes).
		SetError(&apiError{}).
		Get("/api/events")
	if err := check(resp, err, "/api/events"); err != nil {
		return nil, err
	}
	return changes, nil
}

// ClearEvents empties the daemon's journal
func (c *Client) ClearEvents() error {
	resp, err := c.http.R().
		SetError(&apiError{}).
		Delete("/api/events")
	return check(resp, err, "/api/events")
}

// Errors returns up to limit recorded publish failures, newest first
func (c *Client) Errors(limit int) ([]models.ErrorLog, error) {
	var logs []models.ErrorLog
	resp, err := c.http.R().
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&logs).
		SetError(&apiError{}).
		Get("/api/errors")
	if err := check(resp, err, "/api/errors"); err != nil {
		return nil, err
	}
	return logs, nil
}

func check(resp *resty.Response, err error, path string) error {
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	if resp.IsError() {
		if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Error != "" {
			return fmt.Errorf("%s: %s (HTTP %d)", path, apiErr.Error, resp.StatusCode())
		}
		return fmt.Errorf("%s: HTTP %d", path, resp.StatusCode())
	}
	return nil
}
