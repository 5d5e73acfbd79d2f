package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	outputDir  string
	server     *releaseServer
}

// releaseServer fakes the tracker API and records what the CLI sent.
type releaseServer struct {
	mu       sync.Mutex
	creates  int
	uploads  []string
	uploadOK bool
}

func (s *releaseServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if strings.HasSuffix(r.URL.Path, "/releases/") {
			s.creates++
			w.WriteHeader(http.StatusCreated)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.uploads = append(s.uploads, r.FormValue("name"))
		if !s.uploadOK {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	server := &releaseServer{uploadOK: true}
	ts := httptest.NewServer(server.handler())
	t.Cleanup(ts.Close)

	outputDir := filepath.Join(base, "dist")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		t.Fatalf("mkdir output dir: %v", err)
	}

	configPath := filepath.Join(base, "relpub.toml")
	content := fmt.Sprintf(`state_dir = %q

[tracker]
base_url = %q
organization = "acme"
api_key = "test-key"
projects = ["web"]

[upload]
output_dir = %q

[history]
enabled = true
path = %q

[logging]
level = "error"
`, filepath.Join(base, "state"), ts.URL, outputDir, filepath.Join(base, "state", "history.db"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		outputDir:  outputDir,
		server:     server,
	}
}

func (env *cliTestEnv) writeAsset(t *testing.T, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(env.outputDir, name), []byte("content of "+name), 0o644); err != nil {
		t.Fatalf("write asset %s: %v", name, err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = []string{"--config", configPath}
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
