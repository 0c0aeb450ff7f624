package status

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrMalformedRecord matches every error returned by Parse and ReadFile.
// The game rewrites the file constantly, so callers are expected to drop the
// record and wait for the next change.
var ErrMalformedRecord = errors.New("malformed status record")

// MalformedRecordError carries the reason a record could not be used.
type MalformedRecordError struct {
	Path  string
	Cause error
}

func (e *MalformedRecordError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedRecord, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s: %v", ErrMalformedRecord, e.Cause)
}

func (e *MalformedRecordError) Unwrap() error { return e.Cause }

func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes one status record. Keys are matched case-insensitively, so both
// "flags" and "Flags" are accepted; a missing flags field decodes to 0.
func Parse(data []byte) (StatusRecord, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(trimmed) == 0 {
		return StatusRecord{}, &MalformedRecordError{Cause: errors.New("empty content")}
	}
	if trimmed[0] != '{' {
		return StatusRecord{}, &MalformedRecordError{Cause: fmt.Errorf("expected a JSON object, got %q", trimmed[0])}
	}

	var rec StatusRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return StatusRecord{}, &MalformedRecordError{Cause: err}
	}
	return rec, nil
}

// ReadFile reads and parses the record at path. The file handle is released
// before parsing starts; read failures are reported as malformed records too.
func ReadFile(path string) (StatusRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StatusRecord{}, &MalformedRecordError{Path: path, Cause: err}
	}

	rec, err := Parse(data)
	if err != nil {
		var mre *MalformedRecordError
		if errors.As(err, &mre) {
			mre.Path = path
		}
		return StatusRecord{}, err
	}
	return rec, nil
}
