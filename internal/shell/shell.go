// Package shell provides helpers for splitting and unquoting strings the
// way a POSIX shell would. Variables and command substitutions are not
// handled.
package shell

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMismatchedQuotes is returned when the input has unbalanced quotes.
	ErrMismatchedQuotes = errors.New("mismatched quotes")

	// ErrTrailingBackslash is returned when the input ends with a backslash.
	ErrTrailingBackslash = errors.New("trailing backslash")
)

// Split splits the input on unquoted whitespace, respecting single and
// double quoted segments and backslash escapes.
func Split(input string) ([]string, error) {
	var segments []string
	var sb strings.Builder
	var inDouble, inSingle, escaped bool

	for i := 0; i < len(input); i++ {
		c := input[i]

		if escaped {
			sb.WriteByte(c)
			escaped = false
			continue
		}

		switch {
		case c == '\\' && !inSingle:
			escaped = true
		case c == '"' && !inSingle:
			inDouble = !inDouble
		case c == '\'' && !inDouble:
			inSingle = !inSingle
		case (c == ' ' || c == '\t') && !inDouble && !inSingle:
			if sb.Len() > 0 {
				segments = append(segments, sb.String())
				sb.Reset()
			}
		default:
			sb.WriteByte(c)
		}
	}

	if inDouble || inSingle {
		return nil, fmt.Errorf("split %q: %w", input, ErrMismatchedQuotes)
	}

	if escaped {
		return nil, fmt.Errorf("split %q: %w", input, ErrTrailingBackslash)
	}

	if sb.Len() > 0 {
		segments = append(segments, sb.String())
	}

	return segments, nil
}

// Unquote removes shell quoting from the input string.
func Unquote(input string) (string, error) {
	var sb strings.Builder
	var inDouble, inSingle, escaped bool

	for i := 0; i < len(input); i++ {
		c := input[i]

		if escaped {
			sb.WriteByte(c)
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inSingle {
				sb.WriteByte(c)
				continue
			}
			if i == len(input)-1 {
				return "", fmt.Errorf("unquote %q: %w", input, ErrTrailingBackslash)
			}
			next := input[i+1]
			if escapes(next, inDouble) {
				escaped = true
				continue
			}
			sb.WriteByte(c)
		case '"':
			if inSingle {
				sb.WriteByte(c)
				continue
			}
			inDouble = !inDouble
		case '\'':
			if inDouble {
				sb.WriteByte(c)
				continue
			}
			inSingle = !inSingle
		default:
			sb.WriteByte(c)
		}
	}

	if inDouble || inSingle {
		return "", fmt.Errorf("unquote %q: %w", input, ErrMismatchedQuotes)
	}

	if escaped {
		return "", fmt.Errorf("unquote %q: %w", input, ErrTrailingBackslash)
	}

	return sb.String(), nil
}

// escapes reports whether a backslash before c acts as an escape. Inside
// double quotes only a small set of characters can be escaped.
func escapes(c byte, inDouble bool) bool {
	if inDouble {
		return c == '$' || c == '`' || c == '"' || c == '\\' || c == '\n'
	}
	return true
}
