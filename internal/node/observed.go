package node

import (
	"fmt"

	"github.com/vk/codephy/internal/address"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/registry"
)

// Observed is the fixed data attached to an observed random variable.
type Observed interface {
	isObserved()
}

// ObservedReal is a scalar observation.
type ObservedReal struct {
	Value float64
}

// ObservedVector is a vector observation.
type ObservedVector struct {
	Values []float64
}

// ObservedTree is a fixed tree in Newick notation.
type ObservedTree struct {
	Newick string
}

// TaxonSequence is one row of an alignment.
type TaxonSequence struct {
	Taxon    string `json:"taxon"`
	Sequence string `json:"sequence"`
}

// ObservedAlignment is an ordered list of taxon sequences.
type ObservedAlignment struct {
	Sequences []TaxonSequence
}

func (ObservedReal) isObserved()      {}
func (ObservedVector) isObserved()    {}
func (ObservedTree) isObserved()      {}
func (ObservedAlignment) isObserved() {}

func dataError(path address.Address, format string, args ...any) error {
	return &diag.DataFormatError{Path: path, Position: -1, Reason: fmt.Sprintf(format, args...)}
}

// ParseObserved decodes an observed value according to the node's generates
// type. A nil raw value means no observation.
func ParseObserved(path address.Address, g registry.GeneratesType, raw any) (Observed, error) {
	if raw == nil {
		return nil, nil
	}
	switch g {
	case registry.Real, registry.Integer:
		f, ok := ToFloat(raw)
		if !ok {
			return nil, dataError(path, "expected a number, got %T", raw)
		}
		if g == registry.Integer && !IsInteger(f) {
			return nil, dataError(path, "expected an integer, got %v", f)
		}
		return ObservedReal{Value: f}, nil
	case registry.RealVector:
		list, ok := raw.([]any)
		if !ok {
			return nil, dataError(path, "expected a list of numbers, got %T", raw)
		}
		var errs diag.List
		values := make([]float64, len(list))
		for i, item := range list {
			f, ok := ToFloat(item)
			if !ok {
				errs.Add(dataError(path.Index(i), "expected a number, got %T", item))
				continue
			}
			values[i] = f
		}
		if err := errs.Err(); err != nil {
			return nil, err
		}
		return ObservedVector{Values: values}, nil
	case registry.Tree:
		switch v := raw.(type) {
		case string:
			return ObservedTree{Newick: v}, nil
		case map[string]any:
			if s, ok := v["newick"].(string); ok {
				return ObservedTree{Newick: s}, nil
			}
		}
		return nil, dataError(path, "expected a Newick string")
	case registry.Alignment:
		return parseAlignment(path, raw)
	default:
		return nil, dataError(path, "observed values of type %s are not supported", g)
	}
}

func parseAlignment(path address.Address, raw any) (Observed, error) {
	list, ok := raw.([]any)
	if !ok {
		obj, isObj := raw.(map[string]any)
		if !isObj {
			return nil, dataError(path, "expected a list of taxon/sequence pairs, got %T", raw)
		}
		path = path.Attr("sequences")
		if list, ok = obj["sequences"].([]any); !ok {
			return nil, dataError(path, "expected a list of taxon/sequence pairs")
		}
	}

	var errs diag.List
	seqs := make([]TaxonSequence, 0, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			errs.Add(dataError(path.Index(i), "expected an object with 'taxon' and 'sequence'"))
			continue
		}
		taxon, okT := entry["taxon"].(string)
		seq, okS := entry["sequence"].(string)
		switch {
		case !okT || taxon == "":
			errs.Add(dataError(path.Index(i).Attr("taxon"), "taxon must be a non-empty string"))
		case !okS:
			errs.Add(&diag.DataFormatError{Path: path.Index(i).Attr("sequence"), Taxon: taxon, Position: -1, Reason: "sequence must be a string"})
		default:
			seqs = append(seqs, TaxonSequence{Taxon: taxon, Sequence: seq})
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return ObservedAlignment{Sequences: seqs}, nil
}
