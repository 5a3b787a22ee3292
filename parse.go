package confbind

import (
	"encoding"
	"strconv"
	"strings"
	"time"
)

// ParseBool parses a boolean value at path.
func ParseBool(value, path string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, &ParseError{Path: path, Value: value, Kind: "bool", Err: err}
	}
	return b, nil
}

// ParseInt parses a signed integer value at path. bitSize is the same as
// [strconv.ParseInt]; 0 means int.
func ParseInt(value, path string, bitSize int) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, bitSize)
	if err != nil {
		return 0, &ParseError{Path: path, Value: value, Kind: intKind("int", bitSize), Err: err}
	}
	return n, nil
}

// ParseUint parses an unsigned integer value at path. bitSize is the same as
// [strconv.ParseUint]; 0 means uint.
func ParseUint(value, path string, bitSize int) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, bitSize)
	if err != nil {
		return 0, &ParseError{Path: path, Value: value, Kind: intKind("uint", bitSize), Err: err}
	}
	return n, nil
}

// ParseFloat parses a floating-point value at path. bitSize must be 32 or 64.
func ParseFloat(value, path string, bitSize int) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), bitSize)
	if err != nil {
		return 0, &ParseError{Path: path, Value: value, Kind: intKind("float", bitSize), Err: err}
	}
	return f, nil
}

// ParseDuration parses a duration value at path, like "1m30s".
func ParseDuration(value, path string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, &ParseError{Path: path, Value: value, Kind: "duration", Err: err}
	}
	return d, nil
}

// ParseText unmarshals a value at path into u.
func ParseText(value, path string, u encoding.TextUnmarshaler) error {
	if err := u.UnmarshalText([]byte(value)); err != nil {
		return &ParseError{Path: path, Value: value, Kind: "text", Err: err}
	}
	return nil
}

func intKind(kind string, bitSize int) string {
	if bitSize == 0 {
		return kind
	}
	return kind + strconv.Itoa(bitSize)
}
