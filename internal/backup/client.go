package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
)

var clientLog = logrus.WithField("module", "backup.client")

// Result statuses shared with the proxy and the remote store.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of a backup or restore call. Failures surface here
// as an error status with a human-readable message, never as a fault.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Key     string `json:"key,omitempty"`
	Data    string `json:"data,omitempty"`
}

// Ok reports whether the operation succeeded.
func (r Result) Ok() bool { return r.Status == StatusSuccess }

// Client talks to the backup proxy endpoint. One operation may be in flight
// at a time; the mutex is the duplicate-submission guard.
type Client struct {
	proxyURL string
	http     *http.Client

	mu sync.Mutex
}

// NewClient creates a Client for the given proxy URL.
func NewClient(proxyURL string) *Client {
	return &Client{
		proxyURL: proxyURL,
		http:     &http.Client{},
	}
}

// Backup serializes the snapshot, generates a fresh access key and stores
// the blob under it. On success the key is returned in Result.Key; it is the
// only way to retrieve the blob later.
func (c *Client) Backup(ctx context.Context, snapshot Snapshot) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.proxyURL == "" {
		return Result{Status: StatusError, Message: "backup proxy is not configured (set SIPLOG_PROXY_URL)"}
	}

	key, err := GenerateKey()
	if err != nil {
		return Result{Status: StatusError, Message: "could not generate an access key"}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return Result{Status: StatusError, Message: "could not serialize the snapshot"}
	}

	body, err := json.Marshal(map[string]string{
		"code": key,
		"data": string(data),
	})
	if err != nil {
		return Result{Status: StatusError, Message: "could not build the request"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyURL, bytes.NewReader(body))
	if err != nil {
		return Result{Status: StatusError, Message: "could not build the request"}
	}
	req.Header.Set("Content-Type", "application/json")

	result := c.do(req)
	if result.Ok() {
		result.Key = key
	}
	return result
}

// Restore fetches the snapshot blob stored under key. An unknown or
// malformed key yields an error status with the remote's message.
func (c *Client) Restore(ctx context.Context, key string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.proxyURL == "" {
		return Result{Status: StatusError, Message: "backup proxy is not configured (set SIPLOG_PROXY_URL)"}
	}
	if key == "" {
		return Result{Status: StatusError, Message: "an access key is required"}
	}

	reqURL := fmt.Sprintf("%s?code=%s", c.proxyURL, url.QueryEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{Status: StatusError, Message: "could not build the request"}
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) Result {
	resp, err := c.http.Do(req)
	if err != nil {
		clientLog.WithError(err).Warn("backup transport failed")
		if errors.Is(err, context.Canceled) {
			return Result{Status: StatusError, Message: "operation cancelled"}
		}
		return Result{Status: StatusError, Message: "connection to the backup proxy failed"}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		clientLog.WithError(err).Warn("backup proxy returned an unreadable response")
		return Result{Status: StatusError, Message: "the backup proxy returned an unreadable response"}
	}
	if result.Status == "" {
		result.Status = StatusError
		if result.Message == "" {
			result.Message = fmt.Sprintf("unexpected proxy response (HTTP %d)", resp.StatusCode)
		}
	}
	return result
}
