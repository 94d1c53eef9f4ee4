// internal/platform/errors/errors_test.go
package errors

import (
	"fmt"
	"testing"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(ErrInvalidInput, "query cannot be empty")

	if !Is(err, ErrInvalidInput) {
		t.Error("wrapped error should match its sentinel")
	}
	if got := err.Error(); got != "query cannot be empty: invalid input" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestWrapNilIsNil(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("wrapping nil should return nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("wrapf on nil should return nil")
	}
}

func TestWrapfFormats(t *testing.T) {
	err := Wrapf(ErrUnsupportedFormat, "format %q", "xml")
	if !Is(err, ErrUnsupportedFormat) {
		t.Error("sentinel lost")
	}
	if got := err.Error(); got != `format "xml": unsupported export format` {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestUnwrapChain(t *testing.T) {
	inner := New("inner")
	outer := Wrap(Wrap(inner, "mid"), "outer")

	if !Is(outer, inner) {
		t.Error("Is should walk the whole chain")
	}
	if Unwrap(Unwrap(outer)) != inner {
		t.Error("Unwrap should peel one layer at a time")
	}
}

func TestClassifiers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		matches func(error) bool
	}{
		{"invalid input", Wrap(ErrInvalidInput, "x"), IsInvalidInput},
		{"unit failed", Wrap(ErrUnitFailed, "x"), IsUnitFailed},
		{"unit timeout", Wrap(ErrUnitTimeout, "x"), IsUnitTimeout},
		{"cancelled", Wrap(ErrDispatchCancelled, "x"), IsDispatchCancelled},
		{"export failed", Wrap(ErrExportFailed, "x"), IsExportFailed},
		{"rate limit", Wrap(ErrRateLimit, "x"), IsRateLimit},
		{"not found", Wrap(ErrNotFound, "x"), IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.matches(tt.err) {
				t.Error("classifier should match its sentinel")
			}
			if tt.matches(fmt.Errorf("unrelated")) {
				t.Error("classifier should reject unrelated errors")
			}
		})
	}
}

func TestJoinDiscardsNil(t *testing.T) {
	if Join(nil, nil) != nil {
		t.Error("joining only nils should be nil")
	}
	err := Join(ErrNotFound, nil, ErrRateLimit)
	if !Is(err, ErrNotFound) || !Is(err, ErrRateLimit) {
		t.Error("join should keep every non-nil error reachable")
	}
}
