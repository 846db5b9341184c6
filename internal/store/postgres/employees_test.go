package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/IRFXN3671/TaskFlow/internal/store"
)

func takenSet(names ...string) usernameTaken {
	set := map[string]bool{}
	for _, name := range names {
		set[name] = true
	}
	return func(ctx context.Context, username string) (bool, error) {
		return set[username], nil
	}
}

func TestNextUsername(t *testing.T) {
	tests := []struct {
		name  string
		taken []string
		base  string
		want  string
	}{
		{name: "base free", taken: nil, base: "nina", want: "nina"},
		{name: "base taken", taken: []string{"nina"}, base: "nina", want: "nina1"},
		{name: "base and first suffix taken", taken: []string{"nina", "nina1"}, base: "nina", want: "nina2"},
		{name: "gap in suffixes", taken: []string{"nina", "nina1", "nina3"}, base: "nina", want: "nina2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := nextUsername(context.Background(), takenSet(tc.taken...), tc.base)
			if err != nil {
				t.Fatalf("nextUsername: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNextUsernameLookupError(t *testing.T) {
	lookupErr := errors.New("connection reset")
	failing := func(ctx context.Context, username string) (bool, error) {
		return false, lookupErr
	}
	if _, err := nextUsername(context.Background(), failing, "nina"); !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestDeriveUsername(t *testing.T) {
	explicit := store.CreateEmployeeInput{Username: "handle", Email: "nina.n@example.com"}
	if got := deriveUsername(explicit); got != "handle" {
		t.Fatalf("explicit username must win, got %q", got)
	}

	fromEmail := store.CreateEmployeeInput{Email: "nina.n@example.com"}
	if got := deriveUsername(fromEmail); got != "nina.n" {
		t.Fatalf("expected email local part, got %q", got)
	}
}
