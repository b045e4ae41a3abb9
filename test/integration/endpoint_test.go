//go:build integration

package integration

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestEndpointSwitch(t *testing.T) {
	backend := NewFakeBackend(t, 3)
	env := NewEnv(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stdout, stderr, err := env.Run(ctx, "endpoint", "show")
	if err != nil {
		t.Fatalf("endpoint show failed: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, backend.Server.URL) {
		t.Errorf("expected active address %s in output: %s", backend.Server.URL, stdout)
	}

	// Switch to the live preset, then back.
	if _, stderr, err = env.Run(ctx, "endpoint", "use", "live"); err != nil {
		t.Fatalf("endpoint use failed: %v\nstderr: %s", err, stderr)
	}

	stdout, _, err = env.Run(ctx, "endpoint", "show")
	if err != nil {
		t.Fatalf("endpoint show failed: %v", err)
	}
	if !strings.Contains(stdout, "portal.ewan-geniuses.com") {
		t.Errorf("expected live address after switch: %s", stdout)
	}

	if _, stderr, err = env.Run(ctx, "endpoint", "use", "test"); err != nil {
		t.Fatalf("endpoint use failed: %v\nstderr: %s", err, stderr)
	}
}

func TestEndpointUseUnknown(t *testing.T) {
	backend := NewFakeBackend(t, 3)
	env := NewEnv(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, stderr, err := env.Run(ctx, "endpoint", "use", "nonexistent")
	if err == nil {
		t.Fatal("expected error for unknown endpoint")
	}
	if !strings.Contains(stderr, "not found") {
		t.Errorf("unexpected error output: %s", stderr)
	}
}

func TestEndpointSetOverride(t *testing.T) {
	backend := NewFakeBackend(t, 3)
	env := NewEnv(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, stderr, err := env.Run(ctx, "endpoint", "set", "http://localhost:9999/api"); err != nil {
		t.Fatalf("endpoint set failed: %v\nstderr: %s", err, stderr)
	}

	stdout, _, err := env.Run(ctx, "endpoint", "show")
	if err != nil {
		t.Fatalf("endpoint show failed: %v", err)
	}
	if !strings.Contains(stdout, "http://localhost:9999/api") {
		t.Errorf("expected override address: %s", stdout)
	}

	if _, stderr, err := env.Run(ctx, "endpoint", "reset"); err != nil {
		t.Fatalf("endpoint reset failed: %v\nstderr: %s", err, stderr)
	}

	stdout, _, err = env.Run(ctx, "endpoint", "show")
	if err != nil {
		t.Fatalf("endpoint show failed: %v", err)
	}
	if strings.Contains(stdout, "http://localhost:9999/api") {
		t.Errorf("expected override cleared: %s", stdout)
	}
}
