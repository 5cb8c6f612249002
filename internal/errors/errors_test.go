package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name:     "with cause",
			err:      New("git clone", errors.New("repository not found")),
			expected: "git clone: repository not found",
		},
		{
			name:     "with target",
			err:      New("git clone", errors.New("repository not found")).On("git@github.com:acme/widget"),
			expected: "git clone git@github.com:acme/widget: repository not found",
		},
		{
			name:     "without cause",
			err:      &OperationError{Op: "open repository", Target: "/src/widget"},
			expected: "open repository /src/widget",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("sync: %w", New("git clone", cause))

	assert.True(t, errors.Is(err, cause))

	var opErr *OperationError
	assert.True(t, As(err, &opErr))
	assert.Equal(t, "git clone", opErr.Op)
}

func TestOperationError_Is(t *testing.T) {
	clone := New("git clone", errors.New("boom")).On("acme/widget")

	tests := []struct {
		name     string
		target   error
		expected bool
	}{
		{"same op, any target", &OperationError{Op: "git clone"}, true},
		{"same op and target", &OperationError{Op: "git clone", Target: "acme/widget"}, true},
		{"same op, other target", &OperationError{Op: "git clone", Target: "acme/other"}, false},
		{"other op", &OperationError{Op: "open repository"}, false},
		{"not an operation error", errors.New("git clone"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Is(clone, tt.target))
		})
	}
}

func TestErrorf(t *testing.T) {
	cause := errors.New("missing scheme")
	err := Errorf("github client", "invalid base URL %q: %w", "::", cause)

	assert.Equal(t, `github client: invalid base URL "::": missing scheme`, err.Error())
	assert.True(t, Is(err, cause))
}
