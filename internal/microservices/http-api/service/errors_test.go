package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := errors.New("connection reset")

	assert.Equal(t, KindStorage, KindOf(base))
	assert.Equal(t, KindValidation, KindOf(validationError("name", msgRequired)))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", notFoundError("recipe", 1))))
	assert.False(t, IsKind(nil, KindStorage))

	se := storageError("load recipe", base)
	assert.ErrorIs(t, se, base)
	assert.Equal(t, "load recipe: connection reset", se.Error())
	assert.Equal(t, "name: this field is required", validationError("name", msgRequired).Error())
}

func TestAsServiceError(t *testing.T) {
	assert.NoError(t, asServiceError("op", nil))

	conflict := conflictError("dup")
	assert.Same(t, conflict, asServiceError("op", conflict))

	wrapped := asServiceError("op", errors.New("boom"))
	assert.True(t, IsKind(wrapped, KindStorage))
}
