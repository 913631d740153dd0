package errors_test

import (
	"errors"
	"fmt"
	"testing"

	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesCodeAndMeta(t *testing.T) {
	base := dnderr.NotFoundf("character %s not found", "hero").WithMeta("character_id", "hero")

	wrapped := dnderr.Wrap(base, "failed to accumulate")

	assert.Equal(t, dnderr.CodeNotFound, wrapped.Code)
	assert.True(t, dnderr.IsNotFound(wrapped))
	assert.Equal(t, "hero", dnderr.GetMeta(wrapped)["character_id"])
	assert.Equal(t, "failed to accumulate: character hero not found", wrapped.Error())
}

func TestWrap_ForeignErrorIsUnknown(t *testing.T) {
	wrapped := dnderr.Wrapf(errors.New("boom"), "loading record %d", 3)

	assert.Equal(t, dnderr.CodeUnknown, dnderr.GetCode(wrapped))
	assert.Nil(t, dnderr.Wrap(nil, "ignored"))
}

func TestFormulaErrorsSurviveStdlibWrapping(t *testing.T) {
	err := fmt.Errorf("compute delta: %w", dnderr.Formulaf("formula %q returned NaN", "a/0*0"))

	assert.True(t, dnderr.IsFormula(err))
	assert.False(t, dnderr.IsInvalidArgument(err))
}

func TestWrapWithCode(t *testing.T) {
	err := dnderr.WrapWithCode(errors.New("dial tcp"), dnderr.CodeInternal, "redis unavailable")

	assert.Equal(t, dnderr.CodeInternal, err.Code)
	assert.ErrorContains(t, err, "dial tcp")
}
