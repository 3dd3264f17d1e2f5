//go:build !manifold

package manifold

import (
	"errors"
	"testing"
)

func TestNewReturnsUnavailable(t *testing.T) {
	k, err := New(32)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("New(32) error = %v, want ErrUnavailable", err)
	}
	if k != nil {
		t.Fatal("New(32) returned a kernel without the manifold tag")
	}

	want := "manifold kernel not available: build with -tags=manifold"
	if err.Error() != want {
		t.Errorf("New(32) error = %q, want %q", err.Error(), want)
	}
}
