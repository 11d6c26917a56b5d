package envutil

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrNotAllowed      = errors.New("value not allowed")
)

func normalize(value string) (string, error) {
	return strings.ToLower(strings.TrimSpace(value)), nil
}

func parseBool(value string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(value))
}

func parseInt(value string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(value))
}

func parseSlogLevel(value string) (slog.Level, error) {
	switch value {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, value)
	}
}

func inSet(allowed []string) func(string) (string, error) {
	return func(value string) (string, error) {
		if slices.Contains(allowed, value) {
			return value, nil
		}

		return value, fmt.Errorf("%w: %q (expected one of %s)", ErrNotAllowed, value, strings.Join(allowed, ", "))
	}
}
