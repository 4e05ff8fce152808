package fault

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsMatchWithErrorsIs(t *testing.T) {
	err := Production("write primary", io.ErrShortWrite)
	assert.ErrorIs(t, err, ErrProduction)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.NotErrorIs(t, err, ErrConfiguration)

	cfg := Configuration("resolve path", "missing %s", "accountId")
	assert.True(t, IsConfiguration(cfg))
	assert.Contains(t, cfg.Error(), "missing accountId")

	var fe *Error
	assert.True(t, errors.As(TypeNotFound("t1"), &fe))
	assert.Equal(t, ErrTypeNotFound, fe.Kind)
	assert.Equal(t, "lookup type t1: image type not found", fe.Error())
}

func TestDanglingLinkMessage(t *testing.T) {
	err := DanglingLink("type-1", "profile-9")
	assert.ErrorIs(t, err, ErrDanglingLink)
	assert.Equal(t, "link type-1 -> profile-9: dangling catalog link", err.Error())
}
