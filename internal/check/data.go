package check

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/node"
	"github.com/vk/codephy/internal/registry"
)

const (
	// nucleotideAlphabet is IUPAC nucleotide codes plus gap and missing.
	nucleotideAlphabet = "ACGTURYSWKMBDHVN-?."
	aminoAcidAlphabet  = "ACDEFGHIKLMNPQRSTVWYBZXJUO*-?."
)

// Alphabet returns the accepted characters for an alignment node.
func Alphabet(n *node.Node) string {
	if p, ok := n.Param("dataType"); ok {
		if lit, ok := p.Value.(node.Literal); ok {
			if s, _ := lit.Text(); s == "aminoacid" {
				return aminoAcidAlphabet
			}
		}
	}
	return nucleotideAlphabet
}

// Data validates the observed value of n.
func Data(n *node.Node) diag.List {
	switch obs := n.Observed.(type) {
	case node.ObservedAlignment:
		return checkAlignment(n, obs)
	case node.ObservedVector:
		if dim, ok := literalNumber(n, "dimension"); ok && int(dim) != len(obs.Values) {
			return diag.List{&diag.DataFormatError{
				Path:     n.ObservedPath(),
				Position: -1,
				Reason:   fmt.Sprintf("expected %d values, got %d", int(dim), len(obs.Values)),
			}}
		}
	case node.ObservedTree:
		if pos, reason := checkNewick(obs.Newick); reason != "" {
			return diag.List{&diag.DataFormatError{Path: n.ObservedPath(), Position: pos, Reason: reason}}
		}
	case node.ObservedReal:
		if n.Generates == registry.Integer && !node.IsInteger(obs.Value) {
			return diag.List{&diag.DataFormatError{Path: n.ObservedPath(), Position: -1, Reason: "expected an integer"}}
		}
	}
	return nil
}

func checkAlignment(n *node.Node, obs node.ObservedAlignment) diag.List {
	var errs diag.List
	path := n.ObservedPath()
	if len(obs.Sequences) == 0 {
		errs.Add(&diag.DataFormatError{Path: path, Position: -1, Reason: "alignment has no sequences"})
		return errs
	}

	alphabet := Alphabet(n)
	want := utf8.RuneCountInString(obs.Sequences[0].Sequence)
	seen := make(map[string]bool)
	for i, row := range obs.Sequences {
		rowPath := path.Index(i)
		if seen[row.Taxon] {
			errs.Add(&diag.DataFormatError{Path: rowPath.Attr("taxon"), Taxon: row.Taxon, Position: -1, Reason: "duplicate taxon"})
		}
		seen[row.Taxon] = true

		seqPath := rowPath.Attr("sequence")
		if row.Sequence == "" {
			errs.Add(&diag.DataFormatError{Path: seqPath, Taxon: row.Taxon, Position: -1, Reason: "empty sequence"})
			continue
		}
		if got := utf8.RuneCountInString(row.Sequence); got != want {
			errs.Add(&diag.DataFormatError{
				Path:     seqPath,
				Taxon:    row.Taxon,
				Position: -1,
				Reason:   fmt.Sprintf("sequence length %d differs from %d", got, want),
			})
		}
		for pos, r := range []rune(row.Sequence) {
			if !strings.ContainsRune(alphabet, toUpper(r)) {
				errs.Add(&diag.DataFormatError{
					Path:     seqPath,
					Taxon:    row.Taxon,
					Position: pos,
					Reason:   fmt.Sprintf("invalid character %q", r),
				})
				break
			}
		}
	}
	return errs
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

// checkNewick performs a structural check of a Newick string: balanced
// parentheses, no empty input and a terminating semicolon. It returns the
// offending position and a reason, or an empty reason when well formed.
func checkNewick(s string) (int, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return -1, "empty Newick string"
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return i, "unbalanced ')'"
			}
		case ';':
			if i != len(s)-1 {
				return i, "';' before end of tree"
			}
		}
	}
	if depth != 0 {
		return len(s) - 1, "unbalanced '('"
	}
	if !strings.HasSuffix(s, ";") {
		return len(s) - 1, "missing terminating ';'"
	}
	return -1, ""
}
