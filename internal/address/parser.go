package address

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse creates an Address by parsing its canonical string representation.
func Parse(raw string) (Address, error) {
	if raw == "" {
		return Address{}, fmt.Errorf("address cannot be empty")
	}

	var addr Address
	for i := 0; i < len(raw); {
		switch raw[i] {
		case '.':
			if i == 0 || i == len(raw)-1 {
				return Address{}, fmt.Errorf("address %q has an empty segment", raw)
			}
			i++
			if raw[i] == '.' || raw[i] == '[' {
				return Address{}, fmt.Errorf("address %q has an empty segment", raw)
			}
		case '[':
			end := strings.IndexByte(raw[i:], ']')
			if end < 0 {
				return Address{}, fmt.Errorf("address %q has an unterminated bracket", raw)
			}
			inner := raw[i+1 : i+end]
			if strings.HasPrefix(inner, `"`) {
				// Quoted names may contain ']' so scan for the closing quote instead.
				quoted, rest, err := scanQuoted(raw[i+1:])
				if err != nil {
					return Address{}, fmt.Errorf("address %q: %w", raw, err)
				}
				if !strings.HasPrefix(rest, "]") {
					return Address{}, fmt.Errorf("address %q has an unterminated bracket", raw)
				}
				addr.Path = append(addr.Path, NewPathSegment(quoted))
				i = len(raw) - len(rest) + 1
				continue
			}
			index, err := strconv.Atoi(inner)
			if err != nil || index < 0 {
				return Address{}, fmt.Errorf("address %q has an invalid index %q", raw, inner)
			}
			addr.Path = append(addr.Path, NewIndexSegment(index))
			i += end + 1
		default:
			start := i
			for i < len(raw) && raw[i] != '.' && raw[i] != '[' {
				i++
			}
			name := raw[start:i]
			if !isPlainName(name) {
				return Address{}, fmt.Errorf("invalid path segment format: %q", name)
			}
			addr.Path = append(addr.Path, NewPathSegment(name))
		}
	}
	return addr, nil
}

// scanQuoted reads a Go-quoted string from the start of s and returns the
// unquoted value and the remainder.
func scanQuoted(s string) (string, string, error) {
	for j := 1; j < len(s); j++ {
		if s[j] == '\\' {
			j++
			continue
		}
		if s[j] == '"' {
			value, err := strconv.Unquote(s[:j+1])
			if err != nil {
				return "", "", err
			}
			return value, s[j+1:], nil
		}
	}
	return "", "", fmt.Errorf("unterminated quoted segment")
}
