package heads_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/heads"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := heads.Errorf(heads.ENOTFOUND, "state %q not found", "Atlantis")

	assert.Equal(t, heads.ENOTFOUND, heads.ErrorCode(err))
	assert.Equal(t, "state \"Atlantis\" not found", heads.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, heads.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, heads.ErrorMessage(nil))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("parse: %w", heads.Errorf(heads.EMALFORMED, "row spans every column"))

	assert.Equal(t, heads.EMALFORMED, heads.ErrorCode(err))
	assert.Equal(t, "row spans every column", heads.ErrorMessage(err))
}

func TestErrorCode_OtherError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk full")

	assert.Equal(t, heads.EINTERNAL, heads.ErrorCode(err))
	assert.Equal(t, "Internal error", heads.ErrorMessage(err))
}

func TestComputeHash(t *testing.T) {
	t.Parallel()

	a := heads.ComputeHash("<table></table>")
	b := heads.ComputeHash("<table></table>")
	c := heads.ComputeHash("<table class=\"wikitable\"></table>")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}
