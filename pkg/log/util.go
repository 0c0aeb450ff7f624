package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// toFields converts the arguments of the logging helpers to zap fields.
// Anything in key position that is not a string is taken as a whole:
//   - a zap.Field is passed through;
//   - an error becomes the "error" field;
//   - a zapcore.ObjectMarshaler (policy.Diagnostics) is inlined, so its
//     members appear next to the other fields.
//
// Values are encoded with zap.Any, which keeps status.Flags and other
// ObjectMarshaler values structured.
func toFields(args ...any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	fields := make([]zap.Field, 0, len(args)/2+1)

	for i := 0; i < len(args); {
		switch v := args[i].(type) {
		case zap.Field:
			fields = append(fields, v)
			i++
			continue
		case error:
			fields = append(fields, zap.Error(v))
			i++
			continue
		case zapcore.ObjectMarshaler:
			fields = append(fields, zap.Inline(v))
			i++
			continue
		}

		if i == len(args)-1 {
			fields = append(fields, zap.Any(fmt.Sprintf("arg#%d", i), args[i]))
			break
		}

		key, val := args[i], args[i+1]
		i += 2

		keyStr, ok := key.(string)
		if !ok {
			fields = append(fields, zap.Any(fmt.Sprintf("invalid_key_%d", i/2), map[string]any{
				"key":   key,
				"value": val,
			}))
			continue
		}

		fields = append(fields, zap.Any(keyStr, val))
	}

	return fields
}
