// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name           string
		value          string
		allowedSchemes []string
		wantErr        bool
	}{
		{"valid http", "http://example.com", []string{"http", "https"}, false},
		{"valid https", "https://example.com", []string{"http", "https"}, false},
		{"empty url", "", []string{"http"}, true},
		{"no host", "http://", []string{"http"}, true},
		{"invalid scheme", "ftp://example.com", []string{"http", "https"}, true},
		{"no scheme", "example.com", []string{"http"}, true},
		{"with port", "http://example.com:8080", []string{"http"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("testURL", tt.value, tt.allowedSchemes)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_ListenAddr(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{":8080", false},
		{"127.0.0.1:5000", false},
		{"", true},
		{"localhost", true},
		{"host:", true},
	}

	for _, tt := range tests {
		v := New()
		v.ListenAddr("Listen", tt.value)
		if got := !v.IsValid(); got != tt.wantErr {
			t.Errorf("ListenAddr(%q) error = %v, want %v", tt.value, got, tt.wantErr)
		}
	}
}

func TestValidator_Ranges(t *testing.T) {
	v := New()
	v.Range("a", 5, 1, 10)
	v.FloatRange("b", 0.5, 0, 1)
	v.PositiveDuration("c", time.Second)
	v.Positive("d", 1)
	v.NonNegative("e", 0)
	if !v.IsValid() {
		t.Fatalf("unexpected errors: %v", v.Err())
	}

	v.Range("a", 11, 1, 10)
	v.FloatRange("b", 1.5, 0, 1)
	v.PositiveDuration("c", 0)
	v.Positive("d", 0)
	v.NonNegative("e", -1)
	if got := len(v.Errors()); got != 5 {
		t.Fatalf("expected 5 errors, got %d", got)
	}
}

func TestValidator_OneOf(t *testing.T) {
	v := New()
	v.OneOf("backend", "sqlite", []string{"memory", "sqlite"})
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.OneOf("backend", "mongo", []string{"memory", "sqlite"})
	if v.IsValid() {
		t.Fatal("expected error for unknown value")
	}
}

func TestValidator_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "model.json")
	if err := os.WriteFile(file, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	v := New()
	v.File("ok", file, true)
	v.File("optional", "", false)
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}

	v.File("missing", filepath.Join(dir, "nope.json"), true)
	v.File("dir", dir, true)
	v.File("required", "", true)
	if got := len(v.Errors()); got != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", got, v.Err())
	}
}

func TestValidator_CIDROrIP(t *testing.T) {
	v := New()
	v.CIDROrIP("wl", []string{"10.0.0.1", "192.168.0.0/16", " ", "::1"})
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.CIDROrIP("wl", []string{"not-an-ip"})
	if v.IsValid() {
		t.Fatal("expected error")
	}
}

func TestValidationError_Aggregates(t *testing.T) {
	v := New()
	v.NotEmpty("first", "")
	v.NotEmpty("second", "  ")

	err := v.Err()
	if err == nil {
		t.Fatal("expected error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(verr.Errors()))
	}
	if !strings.Contains(err.Error(), "first") || !strings.Contains(err.Error(), "second") {
		t.Errorf("error message should mention both fields: %s", err)
	}
}
