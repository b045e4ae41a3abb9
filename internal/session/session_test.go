package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/api"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/tokenstore"
)

func newFileStore(t *testing.T) *tokenstore.FileStore {
	t.Helper()
	store, err := tokenstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	return store
}

func TestBootstrapNoToken(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	store := newFileStore(t)
	mgr := NewManager(api.New(server.URL, store), store)

	state := mgr.Bootstrap(context.Background())
	if state != StateUnauthenticated {
		t.Errorf("expected state %v, got %v", StateUnauthenticated, state)
	}
	if mgr.Session() != nil {
		t.Error("expected nil session without a credential")
	}
	// Without a stored credential no network request may be issued.
	if requests != 0 {
		t.Errorf("expected 0 requests, got %d", requests)
	}
}

func TestBootstrapAuthenticated(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/user/details" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"role":"student","data":{"id":7,"first_name":"Sara","last_name":"Ali","role_id":4}}}`))
	}))
	defer server.Close()

	store := newFileStore(t)
	if err := store.Set("tok-123"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	mgr := NewManager(api.New(server.URL, store), store)
	state := mgr.Bootstrap(context.Background())
	if state != StateAuthenticated {
		t.Fatalf("expected state %v, got %v (err: %v)", StateAuthenticated, state, mgr.Err())
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}

	sess := mgr.Session()
	if sess == nil {
		t.Fatal("expected session")
	}
	if sess.Role != RoleStudent {
		t.Errorf("expected role student, got %q", sess.Role)
	}
	if sess.Profile.FullName() != "Sara Ali" {
		t.Errorf("expected full name 'Sara Ali', got %q", sess.Profile.FullName())
	}
	if sess.Token != "tok-123" {
		t.Errorf("expected token tok-123, got %q", sess.Token)
	}
}

func TestBootstrapUnknownRoleClearsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":9,"first_name":"X","last_name":"Y","role_id":7}}`))
	}))
	defer server.Close()

	store := newFileStore(t)
	if err := store.Set("tok-unknown-role"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	mgr := NewManager(api.New(server.URL, store), store)
	state := mgr.Bootstrap(context.Background())
	if state != StateUnauthenticated {
		t.Errorf("expected state %v, got %v", StateUnauthenticated, state)
	}
	if !api.IsKind(mgr.Err(), api.KindUnauthorizedRole) {
		t.Errorf("expected unauthorized_role, got %v", mgr.Err())
	}

	// The credential must be gone: an unmapped role fails closed.
	if _, err := store.Get(); !errors.Is(err, tokenstore.ErrTokenNotFound) {
		t.Errorf("expected token cleared, got err=%v", err)
	}
}

func TestBootstrapRejectedTokenClearsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Unauthenticated."}`))
	}))
	defer server.Close()

	store := newFileStore(t)
	if err := store.Set("tok-expired"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	mgr := NewManager(api.New(server.URL, store), store)
	state := mgr.Bootstrap(context.Background())
	if state != StateUnauthenticated {
		t.Errorf("expected state %v, got %v", StateUnauthenticated, state)
	}
	if !api.IsKind(mgr.Err(), api.KindUnauthorized) {
		t.Errorf("expected unauthorized, got %v", mgr.Err())
	}
	if _, err := store.Get(); !errors.Is(err, tokenstore.ErrTokenNotFound) {
		t.Errorf("expected token cleared, got err=%v", err)
	}
}

func TestBootstrapTunnelInterstitialKeepsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>Localtunnel reminds you to be careful</body></html>`))
	}))
	defer server.Close()

	store := newFileStore(t)
	if err := store.Set("tok-tunnel"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	mgr := NewManager(api.New(server.URL, store), store)
	state := mgr.Bootstrap(context.Background())
	if state != StateConnectionError {
		t.Errorf("expected state %v, got %v", StateConnectionError, state)
	}
	if !api.IsKind(mgr.Err(), api.KindTunnelVerificationRequired) {
		t.Errorf("expected tunnel_verification_required, got %v", mgr.Err())
	}

	// Connectivity failures never discard the credential.
	token, err := store.Get()
	if err != nil || token != "tok-tunnel" {
		t.Errorf("expected token kept, got %q, err=%v", token, err)
	}
}

func TestBootstrapUnreachableKeepsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	// Closed server: connections are refused.
	addr := server.URL
	server.Close()

	store := newFileStore(t)
	if err := store.Set("tok-offline"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	mgr := NewManager(api.New(addr, store), store)
	state := mgr.Bootstrap(context.Background())
	if state != StateConnectionError {
		t.Errorf("expected state %v, got %v", StateConnectionError, state)
	}
	if !api.IsKind(mgr.Err(), api.KindNetworkError) {
		t.Errorf("expected network_error, got %v", mgr.Err())
	}

	token, err := store.Get()
	if err != nil || token != "tok-offline" {
		t.Errorf("expected token kept, got %q, err=%v", token, err)
	}
}

func TestLoginStoresTokenAfterRoleResolution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"role":"admin","data":{"id":1,"first_name":"Root","last_name":"User","role_id":1}},"token":"tok-admin"}`))
	}))
	defer server.Close()

	store := newFileStore(t)
	mgr := NewManager(api.New(server.URL, store), store)

	sess, err := mgr.Login(context.Background(), "root@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if sess.Role != RoleAdmin {
		t.Errorf("expected role admin, got %q", sess.Role)
	}
	if mgr.State() != StateAuthenticated {
		t.Errorf("expected state %v, got %v", StateAuthenticated, mgr.State())
	}

	token, err := store.Get()
	if err != nil || token != "tok-admin" {
		t.Errorf("expected stored token tok-admin, got %q, err=%v", token, err)
	}
}

func TestLoginUnknownRoleStoresNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"role":"mystery","data":{"id":2,"role_id":6}},"token":"tok-never"}`))
	}))
	defer server.Close()

	store := newFileStore(t)
	mgr := NewManager(api.New(server.URL, store), store)

	_, err := mgr.Login(context.Background(), "who@example.com", "secret123")
	if !api.IsKind(err, api.KindUnauthorizedRole) {
		t.Fatalf("expected unauthorized_role, got %v", err)
	}

	// Role resolution runs before the credential is written.
	if _, err := store.Get(); !errors.Is(err, tokenstore.ErrTokenNotFound) {
		t.Errorf("expected no stored token, got err=%v", err)
	}
}

func TestLoginMissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"role":"student","data":{"id":3,"role_id":4}}}`))
	}))
	defer server.Close()

	store := newFileStore(t)
	mgr := NewManager(api.New(server.URL, store), store)

	_, err := mgr.Login(context.Background(), "a@example.com", "secret123")
	if !api.IsKind(err, api.KindMalformedResponse) {
		t.Fatalf("expected malformed_response, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	store := newFileStore(t)
	if err := store.Set("tok-bye"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	mgr := NewManager(api.New("http://127.0.0.1:0", store), store)
	if err := mgr.Logout(); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	if mgr.State() != StateUnauthenticated {
		t.Errorf("expected state %v, got %v", StateUnauthenticated, mgr.State())
	}
	if _, err := store.Get(); !errors.Is(err, tokenstore.ErrTokenNotFound) {
		t.Errorf("expected token cleared, got err=%v", err)
	}

	// Logging out twice is not an error.
	if err := mgr.Logout(); err != nil {
		t.Errorf("second Logout() failed: %v", err)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUninitialized, "uninitialized"},
		{StateChecking, "checking"},
		{StateAuthenticated, "authenticated"},
		{StateUnauthenticated, "unauthenticated"},
		{StateConnectionError, "connection_error"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
