//go:build integration

// Package integration provides integration tests for the Ewan CLI. They run
// the built binary against a fake portal backend.
package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// FakeBackend is an in-process stand-in for the portal backend.
type FakeBackend struct {
	Server *httptest.Server

	// Token is the bearer token issued by /auth/login and accepted by the
	// authenticated endpoints.
	Token string
	// RoleID is the role identifier returned in the user record.
	RoleID int
}

// NewFakeBackend starts a fake backend issuing the given role.
func NewFakeBackend(t *testing.T, roleID int) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{Token: "integration-token", RoleID: roleID}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"role":"x","data":{"id":1,"first_name":"Test","last_name":"User","email":"test@example.com","role_id":` + strconv.Itoa(fb.RoleID) + `}},"token":"` + fb.Token + `"}`))
	})
	mux.HandleFunc("/auth/user/details", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer "+fb.Token {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Unauthenticated."}`))
			return
		}
		w.Write([]byte(`{"data":{"id":1,"first_name":"Test","last_name":"User","email":"test@example.com","role_id":` + strconv.Itoa(fb.RoleID) + `}}`))
	})

	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Server.Close)
	return fb
}

// EwanBinaryPath returns the path to the ewan binary, skipping the test when
// it has not been built.
func EwanBinaryPath(t *testing.T) string {
	t.Helper()

	if path := os.Getenv("EWAN_BINARY"); path != "" {
		return path
	}

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get caller information")
	}

	// Go up from test/integration to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	binaryPath := filepath.Join(projectRoot, "bin", "ewan")

	if runtime.GOOS == "windows" {
		binaryPath += ".exe"
	}

	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("ewan binary not found at %s, build it first", binaryPath)
	}

	return binaryPath
}

// Env is one isolated CLI environment: its own config and keyring dirs,
// pointed at the fake backend.
type Env struct {
	ConfigDir  string
	KeyringDir string
	backend    *FakeBackend
	binary     string
}

// NewEnv creates an isolated environment for one test.
func NewEnv(t *testing.T, backend *FakeBackend) *Env {
	t.Helper()

	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "config")
	keyringDir := filepath.Join(tmpDir, "keyring")
	for _, dir := range []string{configDir, keyringDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	configContent := `current: test
endpoints:
  - name: test
    address: ` + backend.Server.URL + `
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &Env{
		ConfigDir:  configDir,
		KeyringDir: keyringDir,
		backend:    backend,
		binary:     EwanBinaryPath(t),
	}
}

// Run executes the ewan binary in this environment.
func (e *Env) Run(ctx context.Context, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Env = append(os.Environ(),
		"EWAN_CONFIG_DIR="+e.ConfigDir,
		"EWAN_TEST_KEYRING_DIR="+e.KeyringDir,
	)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// StoredToken reads the token straight out of the file keyring, or returns
// an empty string when none is stored.
func (e *Env) StoredToken() string {
	data, err := os.ReadFile(filepath.Join(e.KeyringDir, "ewan_auth_token"))
	if err != nil {
		return ""
	}
	return string(data)
}
