package tracker_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"relpub/internal/testsupport"
	"relpub/internal/tracker"
)

func TestCreateReleasePostsJSON(t *testing.T) {
	var captured struct {
		path        string
		auth        string
		contentType string
		body        string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.contentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		captured.body = string(body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := tracker.New(tracker.Options{
		BaseURL:      server.URL,
		Organization: "acme",
		APIKey:       "token-123",
	})
	err := client.CreateRelease(context.Background(), tracker.Release{Version: "v1", Projects: []string{"web"}})
	if err != nil {
		t.Fatalf("create release: %v", err)
	}

	if captured.path != "/organizations/acme/releases/" {
		t.Fatalf("unexpected path %q", captured.path)
	}
	if captured.auth != "Bearer token-123" {
		t.Fatalf("unexpected auth header %q", captured.auth)
	}
	if captured.contentType != "application/json" {
		t.Fatalf("unexpected content type %q", captured.contentType)
	}
	if captured.body != `{"version":"v1","projects":["web"]}` {
		t.Fatalf("unexpected body %q", captured.body)
	}
}

func TestUploadFileSendsMultipartForm(t *testing.T) {
	var captured struct {
		path     string
		name     string
		filename string
		content  string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		captured.name = r.FormValue("name")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		captured.filename = header.Filename
		content, err := io.ReadAll(file)
		if err != nil {
			t.Fatalf("read form file: %v", err)
		}
		captured.content = string(content)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	source := filepath.Join(t.TempDir(), "bundle.js")
	testsupport.WriteFile(t, source, "console.log(1);\n")

	client := tracker.New(tracker.Options{BaseURL: server.URL, Organization: "acme", APIKey: "token"})
	if err := client.UploadFile(context.Background(), "v1", source, "~/bundle.js"); err != nil {
		t.Fatalf("upload file: %v", err)
	}

	if captured.path != "/organizations/acme/releases/v1/files/" {
		t.Fatalf("unexpected path %q", captured.path)
	}
	if captured.name != "~/bundle.js" {
		t.Fatalf("unexpected name field %q", captured.name)
	}
	if captured.filename != "bundle.js" {
		t.Fatalf("unexpected filename %q", captured.filename)
	}
	if captured.content != "console.log(1);\n" {
		t.Fatalf("unexpected file content %q", captured.content)
	}
}

func TestNon2xxResponsesBecomeAPIErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		isConflict bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom"},
		{name: "conflict", status: http.StatusConflict, body: "already exists", isConflict: true},
		{name: "unauthorized", status: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := tracker.New(tracker.Options{BaseURL: server.URL, Organization: "acme", APIKey: "token"})
			err := client.CreateRelease(context.Background(), tracker.Release{Version: "v1"})
			if err == nil {
				t.Fatal("expected error")
			}
			var apiErr *tracker.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T: %v", err, err)
			}
			if apiErr.StatusCode != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, apiErr.StatusCode)
			}
			if tracker.IsConflict(err) != tc.isConflict {
				t.Fatalf("IsConflict = %v, want %v", tracker.IsConflict(err), tc.isConflict)
			}
			if tracker.StatusCode(err) != tc.status {
				t.Fatalf("StatusCode = %d, want %d", tracker.StatusCode(err), tc.status)
			}
		})
	}
}

func TestRequestTimeoutFailsPromptly(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := tracker.New(tracker.Options{
		BaseURL:        server.URL,
		Organization:   "acme",
		APIKey:         "token",
		RequestTimeout: 10 * time.Millisecond,
	})

	start := time.Now()
	err := client.CreateRelease(context.Background(), tracker.Release{Version: "v1"})
	elapsed := time.Since(start)

	if !tracker.IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("timeout took too long: %s", elapsed)
	}
}

func TestStatusCodeReturnsZeroForTransportErrors(t *testing.T) {
	client := tracker.New(tracker.Options{
		BaseURL:      "http://127.0.0.1:1",
		Organization: "acme",
		APIKey:       "token",
	})
	err := client.CreateRelease(context.Background(), tracker.Release{Version: "v1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if tracker.StatusCode(err) != 0 {
		t.Fatalf("expected status 0, got %d", tracker.StatusCode(err))
	}
	if tracker.IsConflict(err) {
		t.Fatal("transport error should not classify as conflict")
	}
}
