package address

// PathSegment is a single step of an Address: either a named attribute or a
// zero-based index into a list.
type PathSegment struct {
	Name    string
	Index   int
	IsIndex bool
}

// NewPathSegment creates a named segment.
func NewPathSegment(name string) PathSegment {
	return PathSegment{Name: name, Index: -1}
}

// NewIndexSegment creates an index segment.
func NewIndexSegment(index int) PathSegment {
	return PathSegment{Index: index, IsIndex: true}
}

// Address is the location of a value inside a model document.
// The zero value is the document root.
type Address struct {
	Path []PathSegment
}
