package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := NewAppError("JOB_NOT_FOUND", "job 42", ErrNotFound)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "JOB_NOT_FOUND: job 42: resource not found", err.Error())
	assert.Nil(t, WrapError(nil, "ignored"))
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{NewAppError("X", "missing", ErrNotFound), codes.NotFound},
		{fmt.Errorf("decode: %w", ErrInvalidInput), codes.InvalidArgument},
		{ErrValidation, codes.InvalidArgument},
		{ErrDatabase, codes.Internal},
		{status.Error(codes.Unavailable, "down"), codes.Unavailable},
	}
	for _, tt := range tests {
		st, ok := status.FromError(ToStatus(tt.err))
		assert.True(t, ok)
		assert.Equal(t, tt.code, st.Code(), tt.err.Error())
	}
	assert.NoError(t, ToStatus(nil))
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("document_id", "", Required).
		Field("job_id", "not-a-uuid", Required, UUID).
		Field("name", "abcdef", MaxLength(3))

	assert.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 3)

	st, _ := status.FromError(ValidateAndReturnError(v))
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Contains(t, st.Message(), "document_id")

	assert.NoError(t, ValidateAndReturnError(NewValidator().Field("x", "ok", Required)))
}
