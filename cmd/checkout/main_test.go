package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRunArgs(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), "", []string{"AAAAABBB", "AX", ""}, nil, &out, zerolog.Nop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := out.String(), "305\n-1\n0\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunStdin(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("ABCDACD\nAAABB\r\n")
	if err := run(context.Background(), "", nil, in, &out, zerolog.Nop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := out.String(), "200\n175\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunMissingPricebook(t *testing.T) {
	err := run(context.Background(), "/nonexistent/pricebook.json", []string{"A"}, nil, &bytes.Buffer{}, zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for missing pricebook")
	}
}
