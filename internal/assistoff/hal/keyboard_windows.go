//go:build windows

package hal

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"assistoff.io/assistoff/internal/assistoff/core"
	"assistoff.io/assistoff/pkg/options"
)

const (
	inputKeyboard = 1

	keyeventfKeyUp    = 0x0002
	keyeventfScanCode = 0x0008
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

// keybdInput mirrors KEYBDINPUT.
type keybdInput struct {
	vk        uint16
	scan      uint16
	flags     uint32
	time      uint32
	extraInfo uintptr
}

// input mirrors INPUT for the keyboard member. The padding keeps the size equal
// to the union's largest member (MOUSEINPUT).
type input struct {
	inputType uint32
	ki        keybdInput
	_         [8]byte
}

// SendInputKeyboard injects scan codes with user32!SendInput. Games reading
// DirectInput only see scan-code events, hence KEYEVENTF_SCANCODE.
type SendInputKeyboard struct{}

var _ core.Keyboard = (*SendInputKeyboard)(nil)

func newPlatformKeyboard(_ *options.KeyboardOptions) (core.Keyboard, error) {
	if err := procSendInput.Find(); err != nil {
		return nil, err
	}
	return &SendInputKeyboard{}, nil
}

func (k *SendInputKeyboard) KeyDown(scanCode uint16) error {
	return sendScanCode(scanCode, keyeventfScanCode)
}

func (k *SendInputKeyboard) KeyUp(scanCode uint16) error {
	return sendScanCode(scanCode, keyeventfScanCode|keyeventfKeyUp)
}

func (k *SendInputKeyboard) Close() error { return nil }

func sendScanCode(scanCode uint16, flags uint32) error {
	in := input{
		inputType: inputKeyboard,
		ki: keybdInput{
			scan:  scanCode,
			flags: flags,
		},
	}

	n, _, err := procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))
	if n != 1 {
		return fmt.Errorf("SendInput: %w", err)
	}
	return nil
}
