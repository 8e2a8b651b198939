// Package server implements the backup proxy endpoint. It forwards snapshot
// blobs between the CLI client and the remote spreadsheet-backed store; it
// holds no state of its own and never inspects the payload.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

var xlog = logrus.WithField("module", "server")

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Proxy is the backup proxy server.
type Proxy struct {
	engine    *echo.Echo
	remoteURL string
	client    *http.Client
}

// New creates a Proxy forwarding to the given remote endpoint. An empty
// remoteURL is allowed; every request then answers with a configuration
// error.
func New(remoteURL string) *Proxy {
	engine := echo.New()
	engine.HideBanner = true
	engine.Use(middleware.Recover())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.BodyLimit("10M"))
	engine.Use(requestLogger())

	p := &Proxy{
		engine:    engine,
		remoteURL: remoteURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}

	engine.POST("/api/backup", p.handleBackup)
	engine.GET("/api/backup", p.handleRestore)

	return p
}

// Handler exposes the underlying HTTP handler, mainly for tests.
func (p *Proxy) Handler() http.Handler { return p.engine }

// Start runs the server on addr until it fails.
func (p *Proxy) Start(addr string) error {
	xlog.WithField("addr", addr).Info("backup proxy listening")
	return p.engine.Start(addr)
}

func (p *Proxy) handleBackup(c echo.Context) error {
	if p.remoteURL == "" {
		return c.JSON(http.StatusInternalServerError, errorBody{
			Status: "error", Message: "remote endpoint is not configured (set SIPLOG_REMOTE_URL)",
		})
	}

	var body struct {
		Code string `json:"code"`
		Data string `json:"data"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Status: "error", Message: "request body is not valid JSON",
		})
	}
	if body.Code == "" || body.Data == "" {
		return c.JSON(http.StatusBadRequest, errorBody{
			Status: "error", Message: "missing parameters: code and data are required",
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody{
			Status: "error", Message: "could not re-encode the request",
		})
	}

	// The remote script parses the raw post body; text/plain sidesteps its
	// CORS preflight handling.
	resp, err := p.client.Post(p.remoteURL, "text/plain;charset=utf-8", strings.NewReader(string(payload)))
	if err != nil {
		xlog.WithError(err).Warn("forwarding backup to remote failed")
		return c.JSON(http.StatusInternalServerError, errorBody{
			Status: "error", Message: "connection to the remote store failed",
		})
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return relay(c, resp)
}

func (p *Proxy) handleRestore(c echo.Context) error {
	if p.remoteURL == "" {
		return c.JSON(http.StatusInternalServerError, errorBody{
			Status: "error", Message: "remote endpoint is not configured (set SIPLOG_REMOTE_URL)",
		})
	}

	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, errorBody{
			Status: "error", Message: "missing parameters: pass ?code=<access key>",
		})
	}

	reqURL := fmt.Sprintf("%s?action=read&code=%s", p.remoteURL, code)
	resp, err := p.client.Get(reqURL)
	if err != nil {
		xlog.WithError(err).Warn("forwarding restore to remote failed")
		return c.JSON(http.StatusInternalServerError, errorBody{
			Status: "error", Message: "restore from the remote store failed",
		})
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return relay(c, resp)
}

// relay returns the remote's JSON response verbatim.
func relay(c echo.Context, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody{
			Status: "error", Message: "could not read the remote response",
		})
	}
	return c.JSONBlob(http.StatusOK, data)
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			res := c.Response()
			reqid := req.Header.Get(echo.HeaderXRequestID)
			if reqid == "" {
				reqid = res.Header().Get(echo.HeaderXRequestID)
			}

			xlog.WithFields(logrus.Fields{
				"method":  req.Method,
				"path":    req.URL.Path,
				"status":  res.Status,
				"latency": time.Since(start).Milliseconds(),
				"reqid":   reqid,
			}).Info("request")
			return err
		}
	}
}
