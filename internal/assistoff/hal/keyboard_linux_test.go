//go:build linux

package hal

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUinputStructLayout(t *testing.T) {
	// struct uinput_user_dev is 80 + 8 + 4 + 4*64*4 bytes.
	assert.Equal(t, 1116, binary.Size(uinputUserDev{}))

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.NativeEndian, &inputEvent{Type: evKey, Code: 0x23, Value: 1}))
	// timeval + type + code + value
	assert.Equal(t, binary.Size(inputEvent{}), buf.Len())
}

func TestClosedUinputKeyboard(t *testing.T) {
	kb := &UinputKeyboard{}
	assert.Error(t, kb.KeyDown(0x23))
	assert.NoError(t, kb.Close())
}
