package diag

import (
	"errors"
	"io"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/codephy/internal/address"
)

// List accumulates errors in the order they were found.
type List []error

// Add appends err, flattening nested lists. Nil errors are ignored.
func (l *List) Add(errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		var nested List
		if errors.As(err, &nested) {
			*l = append(*l, nested...)
			continue
		}
		*l = append(*l, err)
	}
}

// Err returns the list as an error, or nil when it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the members to errors.Is and errors.As.
func (l List) Unwrap() []error {
	return l
}

// KindOf returns the taxonomy kind of err, or "" for foreign errors.
func KindOf(err error) Kind {
	var d Diagnostic
	if errors.As(err, &d) {
		return d.Kind()
	}
	return ""
}

// ByKind groups the members by their kind, preserving order inside groups.
func (l List) ByKind() map[Kind][]error {
	out := make(map[Kind][]error)
	for _, err := range l {
		k := KindOf(err)
		out[k] = append(out[k], err)
	}
	return out
}

// Entry is the flattened form of one error, used for JSON output.
type Entry struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

// Entries flattens the list.
func (l List) Entries() []Entry {
	out := make([]Entry, 0, len(l))
	for _, err := range l {
		e := Entry{Kind: KindOf(err), Message: err.Error()}
		var d Diagnostic
		if errors.As(err, &d) {
			e.Path = d.Location().String()
		}
		out = append(out, e)
	}
	return out
}

// RangeFunc maps a document address to a source range, or nil when the
// address has no known location.
type RangeFunc func(address.Address) *hcl.Range

// Diagnostics converts the list to hcl.Diagnostics. rangeOf may be nil.
func (l List) Diagnostics(rangeOf RangeFunc) hcl.Diagnostics {
	diags := make(hcl.Diagnostics, 0, len(l))
	for _, err := range l {
		d := &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  string(KindOf(err)),
			Detail:   err.Error(),
		}
		if d.Summary == "" {
			d.Summary = "Error"
		}
		var typed Diagnostic
		if rangeOf != nil && errors.As(err, &typed) {
			d.Subject = rangeOf(typed.Location())
		}
		diags = append(diags, d)
	}
	return diags
}

// Write renders the list to w using the HCL diagnostic printer. files is
// used for source snippets and may be nil.
func Write(w io.Writer, l List, files map[string]*hcl.File, rangeOf RangeFunc) error {
	wr := hcl.NewDiagnosticTextWriter(w, files, 100, false)
	return wr.WriteDiagnostics(l.Diagnostics(rangeOf))
}
