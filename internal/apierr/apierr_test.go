package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(New(http.StatusNotFound, "No roadmap found", nil)) {
		t.Fatalf("404 error should be not-found")
	}
	if !IsNotFound(fmt.Errorf("wrap: %w", ErrNoRoadmap)) {
		t.Fatalf("wrapped sentinel should be not-found")
	}
	if IsNotFound(New(http.StatusInternalServerError, "boom", nil)) {
		t.Fatalf("500 error should not be not-found")
	}
	if IsNotFound(errors.New("plain")) {
		t.Fatalf("plain error should not be not-found")
	}
}

func TestMessageOr(t *testing.T) {
	if got := MessageOr(New(http.StatusBadRequest, "Target role is required", nil), "fallback"); got != "Target role is required" {
		t.Fatalf("got %q, want server message", got)
	}
	if got := MessageOr(New(http.StatusInternalServerError, "", errors.New("dial tcp")), "fallback"); got != "fallback" {
		t.Fatalf("got %q, want fallback", got)
	}
	if got := MessageOr(errors.New("plain"), "fallback"); got != "fallback" {
		t.Fatalf("got %q, want fallback", got)
	}
}

func TestErrorString(t *testing.T) {
	if got := New(http.StatusBadGateway, "", nil).Error(); got != "api error (502)" {
		t.Fatalf("got %q", got)
	}
	if got := New(0, "server said no", nil).Error(); got != "server said no" {
		t.Fatalf("got %q", got)
	}
}
