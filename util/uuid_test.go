package util

import (
	"regexp"
	"testing"
)

func TestNewID_Format(t *testing.T) {
	u := NewID()
	if u == "" {
		t.Fatal("expected non-empty UUID")
	}
	// simple regex for UUID v4 format
	r := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	if !r.MatchString(u) {
		t.Fatalf("UUID %s does not match v4 format", u)
	}
	if !IsID(u) {
		t.Fatalf("IsID rejected %s", u)
	}
}

func TestIsID_Rejects(t *testing.T) {
	for _, s := range []string{"", "abc", "1234"} {
		if IsID(s) {
			t.Errorf("IsID(%q) = true, want false", s)
		}
	}
}
