//go:build linux

package hal

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"assistoff.io/assistoff/internal/assistoff/core"
	"assistoff.io/assistoff/pkg/log"
	"assistoff.io/assistoff/pkg/options"
)

const uinputPath = "/dev/uinput"

// linux/uinput.h and linux/input-event-codes.h
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565

	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0

	busUSB = 0x03

	uinputMaxNameSize = 80
	absCnt            = 64
)

// Consumers need a moment to pick up a freshly created device.
const settleDelay = 200 * time.Millisecond

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// uinputUserDev mirrors struct uinput_user_dev.
type uinputUserDev struct {
	Name         [uinputMaxNameSize]byte
	ID           inputID
	FFEffectsMax uint32
	AbsMax       [absCnt]int32
	AbsMin       [absCnt]int32
	AbsFuzz      [absCnt]int32
	AbsFlat      [absCnt]int32
}

// inputEvent mirrors struct input_event.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// UinputKeyboard is a virtual keyboard registered through /dev/uinput.
// The evdev key codes of the main block equal set 1 scan codes, so the
// configured scan code is used as the key code.
type UinputKeyboard struct {
	mu   sync.Mutex
	file *os.File
}

var _ core.Keyboard = (*UinputKeyboard)(nil)

func newPlatformKeyboard(opts *options.KeyboardOptions) (core.Keyboard, error) {
	return NewUinputKeyboard(opts.DeviceName, opts.ScanCode)
}

// NewUinputKeyboard creates a virtual device able to emit scanCode.
func NewUinputKeyboard(name string, scanCode uint16) (*UinputKeyboard, error) {
	f, err := os.OpenFile(uinputPath, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s (is the uinput module loaded and writable?): %w", uinputPath, err)
	}

	fd := int(f.Fd())
	if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("UI_SET_EVBIT: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(scanCode)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("UI_SET_KEYBIT: %w", err)
	}

	dev := uinputUserDev{
		ID: inputID{Bustype: busUSB, Vendor: 0x1, Product: 0x1, Version: 1},
	}
	copy(dev.Name[:uinputMaxNameSize-1], name)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &dev); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write device description: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("UI_DEV_CREATE: %w", err)
	}

	time.Sleep(settleDelay)
	log.Info("[HAL] Virtual keyboard created", "name", name, "scanCode", scanCode)

	return &UinputKeyboard{file: f}, nil
}

func (k *UinputKeyboard) KeyDown(scanCode uint16) error {
	return k.emit(scanCode, 1)
}

func (k *UinputKeyboard) KeyUp(scanCode uint16) error {
	return k.emit(scanCode, 0)
}

func (k *UinputKeyboard) emit(code uint16, value int32) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.file == nil {
		return os.ErrClosed
	}

	var buf bytes.Buffer
	for _, ev := range []inputEvent{
		{Type: evKey, Code: code, Value: value},
		{Type: evSyn, Code: synReport, Value: 0},
	} {
		if err := binary.Write(&buf, binary.NativeEndian, &ev); err != nil {
			return err
		}
	}
	_, err := k.file.Write(buf.Bytes())
	return err
}

func (k *UinputKeyboard) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.file == nil {
		return nil
	}
	_ = unix.IoctlSetInt(int(k.file.Fd()), uiDevDestroy, 0)
	err := k.file.Close()
	k.file = nil
	return err
}
