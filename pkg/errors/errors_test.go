package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  New(CodeTreeNotPruned, "tree is not pruned"),
			want: "[TREE_NOT_PRUNED] tree is not pruned",
		},
		{
			name: "with cause",
			err:  Wrap(CodeDatabaseError, "save failed", fmt.Errorf("connection refused")),
			want: "[DATABASE_ERROR] save failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Is(t *testing.T) {
	err := Wrap(CodeCancelled, "stage aborted", fmt.Errorf("context canceled"))

	assert.True(t, stderrors.Is(err, ErrCancelled))
	assert.False(t, stderrors.Is(err, ErrTreeNotPruned))
	assert.True(t, IsCancelled(err))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(CodeStorageError, "upload failed", cause)

	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, IsStorageError(err))
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"app error", ErrUnsupportedDimension, CodeUnsupportedDimension},
		{"wrapped app error", fmt.Errorf("build: %w", ErrLevelStackOverflow), CodeLevelStackOverflow},
		{"plain error", fmt.Errorf("plain"), CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCode(tt.err))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "tree is not pruned", GetErrorMessage(ErrTreeNotPruned))
	assert.Equal(t, "plain", GetErrorMessage(fmt.Errorf("plain")))
	assert.Equal(t, "", GetErrorMessage(nil))
}
