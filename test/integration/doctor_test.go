//go:build integration

package integration

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestDoctorHealthy(t *testing.T) {
	backend := NewFakeBackend(t, 4)
	env := NewEnv(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, stderr, err := env.Run(ctx, "login", "--email", "test@example.com"); err != nil {
		t.Fatalf("login failed: %v\nstderr: %s", err, stderr)
	}

	stdout, stderr, err := env.Run(ctx, "doctor")
	if err != nil {
		t.Fatalf("doctor failed: %v\nstderr: %s", err, stderr)
	}
	for _, want := range []string{"Credential store", "Endpoint", "Connectivity", "Session"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("doctor output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "[XX]") {
		t.Errorf("expected no failing checks:\n%s", stdout)
	}
}

func TestDoctorUnreachableBackend(t *testing.T) {
	backend := NewFakeBackend(t, 4)
	env := NewEnv(t, backend)
	backend.Server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	stdout, _, err := env.Run(ctx, "doctor")
	if err == nil {
		t.Fatal("expected doctor to exit non-zero with the backend down")
	}
	if !strings.Contains(stdout, "[XX] Connectivity") {
		t.Errorf("expected failing connectivity check:\n%s", stdout)
	}
}
