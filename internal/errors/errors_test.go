package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := SchemaInvalid(fmt.Errorf("missing stimuli"))
	wrapped := Wrap(base, "load failed")

	assert.Equal(t, CodeSchemaInvalid, GetCode(wrapped))
	assert.Equal(t, "load failed: input table rejected: missing stimuli", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("boom"), "step")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestIOFailureExposesCause(t *testing.T) {
	err := IOFailure("read", "/nope.csv", os.ErrNotExist)
	assert.Equal(t, CodeIOError, GetCode(err))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "/nope.csv")
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeCancelled, fmt.Errorf("deadline"))
	assert.Equal(t, CodeCancelled, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
}
