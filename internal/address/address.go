package address

import (
	"strconv"
	"strings"
)

// Root returns an address with a single named segment.
func Root(name string) Address {
	return Address{Path: []PathSegment{NewPathSegment(name)}}
}

// Attr returns a copy of the address extended by a named segment.
func (a Address) Attr(name string) Address {
	return a.with(NewPathSegment(name))
}

// Index returns a copy of the address extended by an index segment.
func (a Address) Index(i int) Address {
	return a.with(NewIndexSegment(i))
}

func (a Address) with(seg PathSegment) Address {
	path := make([]PathSegment, len(a.Path), len(a.Path)+1)
	copy(path, a.Path)
	return Address{Path: append(path, seg)}
}

// IsZero reports whether the address points at the document root.
func (a Address) IsZero() bool {
	return len(a.Path) == 0
}

// Last returns the final segment, or the zero segment for the root.
func (a Address) Last() PathSegment {
	if len(a.Path) == 0 {
		return PathSegment{Index: -1}
	}
	return a.Path[len(a.Path)-1]
}

// String serializes the Address into its canonical path string representation.
func (a Address) String() string {
	var sb strings.Builder
	for i, segment := range a.Path {
		switch {
		case segment.IsIndex:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(segment.Index))
			sb.WriteByte(']')
		case isPlainName(segment.Name):
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(segment.Name)
		default:
			sb.WriteString("[")
			sb.WriteString(strconv.Quote(segment.Name))
			sb.WriteString("]")
		}
	}
	return sb.String()
}

// Equal checks two addresses segment by segment.
func (a Address) Equal(other Address) bool {
	if len(a.Path) != len(other.Path) {
		return false
	}
	for i := range a.Path {
		if a.Path[i] != other.Path[i] {
			return false
		}
	}
	return true
}

func isPlainName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
