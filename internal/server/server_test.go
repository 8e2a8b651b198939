package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestBackupWithoutRemoteConfig(t *testing.T) {
	p := New("")

	req := httptest.NewRequest(http.MethodPost, "/api/backup", strings.NewReader(`{"code":"k","data":"d"}`))
	req.Header.Set(echoContentType, echoJSON)
	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "error" {
		t.Fatalf("expected error status: %v", body)
	}
}

func TestBackupMissingFields(t *testing.T) {
	p := New("http://remote.invalid")

	req := httptest.NewRequest(http.MethodPost, "/api/backup", strings.NewReader(`{"code":"k"}`))
	req.Header.Set(echoContentType, echoJSON)
	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBackupForwardsVerbatim(t *testing.T) {
	var forwarded string
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		forwarded = string(raw)
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("expected text/plain forward, got %q", ct)
		}
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer remote.Close()

	p := New(remote.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/backup", strings.NewReader(`{"code":"aaaa-bbbb-cccc-dddd","data":"{\"version\":\"v20\"}"}`))
	req.Header.Set(echoContentType, echoJSON)
	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["status"] != "success" {
		t.Fatalf("remote response not relayed: %v", body)
	}

	var sent map[string]string
	if err := json.Unmarshal([]byte(forwarded), &sent); err != nil {
		t.Fatalf("forwarded body is not JSON: %v", err)
	}
	if sent["code"] != "aaaa-bbbb-cccc-dddd" || sent["data"] == "" {
		t.Fatalf("forwarded payload wrong: %v", sent)
	}
}

func TestRestoreRequiresCode(t *testing.T) {
	p := New("http://remote.invalid")

	req := httptest.NewRequest(http.MethodGet, "/api/backup", nil)
	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRestoreForwardsAsReadRequest(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "read" {
			t.Errorf("expected action=read, got %q", r.URL.Query().Get("action"))
		}
		if r.URL.Query().Get("code") != "aaaa-bbbb-cccc-dddd" {
			t.Errorf("code not forwarded: %q", r.URL.Query().Get("code"))
		}
		_, _ = w.Write([]byte(`{"status":"success","data":"{}"}`))
	}))
	defer remote.Close()

	p := New(remote.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/backup?code=aaaa-bbbb-cccc-dddd", nil)
	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "success" {
		t.Fatalf("remote response not relayed: %v", body)
	}
}

func TestNetworkFailureYieldsErrorObject(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	remote.Close() // refuse connections

	p := New(remote.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/backup?code=k", nil)
	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "error" || body["message"] == "" {
		t.Fatalf("expected descriptive error object: %v", body)
	}
}

const (
	echoContentType = "Content-Type"
	echoJSON        = "application/json"
)
