package apperror

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrapMatchesKind(t *testing.T) {
	err := Wrap(ErrEncoding, fmt.Errorf("data too long"))

	assert.True(t, errors.Is(err, ErrEncoding))
	assert.False(t, errors.Is(err, ErrImageDecode))
	assert.Contains(t, err.Error(), "data too long")
	assert.Equal(t, CodeEncoding, Code(err))
}

func TestWrapNilCause(t *testing.T) {
	err := Wrap(ErrEmptyPayload, nil)

	assert.Equal(t, ErrEmptyPayload, err)
	assert.Equal(t, MsgEmptyPayload, err.Error())
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty payload", ErrEmptyPayload, MsgEmptyPayload},
		{"wrapped decode", Wrapf(ErrImageDecode, "bad magic %x", 0x42), MsgImageDecode},
		{"unknown error", fmt.Errorf("boom"), MsgEncoding},
		{"double wrapped", errors.Wrap(Wrap(ErrEncoding, fmt.Errorf("x")), "generate"), MsgEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestIsSilent(t *testing.T) {
	assert.True(t, IsSilent(ErrExportNoOp))
	assert.False(t, IsSilent(ErrEncoding))
	assert.False(t, IsSilent(fmt.Errorf("other")))
	assert.False(t, IsSilent(nil))
	assert.Equal(t, CodeUnknown, Code(fmt.Errorf("other")))
}
