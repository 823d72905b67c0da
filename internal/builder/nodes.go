package builder

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/codephy/internal/address"
	"github.com/vk/codephy/internal/config"
	"github.com/vk/codephy/internal/ctxlog"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/node"
	"github.com/vk/codephy/internal/registry"
)

const (
	randomVariablesKey        = "randomVariables"
	deterministicFunctionsKey = "deterministicFunctions"
)

func (b *builder) createNodes(ctx context.Context, doc *config.Document) {
	for _, entry := range doc.RandomVariables {
		b.createNode(ctx, node.RandomVariable, address.Root(randomVariablesKey).Attr(entry.Name), entry)
	}
	for _, entry := range doc.DeterministicFunctions {
		b.createNode(ctx, node.DeterministicFunction, address.Root(deterministicFunctionsKey).Attr(entry.Name), entry)
	}
}

// decl is the shape shared by both collections once the per-kind layout
// has been unpacked.
type decl struct {
	typeName   string
	typePath   address.Address
	generates  any
	genPath    address.Address
	params     any
	paramsPath address.Address
	observed   any
	obsPath    address.Address
}

func (b *builder) createNode(ctx context.Context, kind node.Kind, path address.Address, entry config.Entry) {
	logger := ctxlog.FromContext(ctx).With("node_id", entry.Name)

	if b.taken[entry.Name] {
		b.errs.Add(&diag.DuplicateNameError{Path: path, Name: entry.Name})
		return
	}
	b.taken[entry.Name] = true

	raw, ok := entry.Raw.(map[string]any)
	if !ok {
		b.errs.Add(&diag.ParseError{Path: path, Reason: fmt.Sprintf("entry must be an object, got %T", entry.Raw)})
		b.add(node.New(entry.Name, kind, registry.Unknown, "", registry.Inferred, nil, path, b.order))
		return
	}

	s := b.unpack(kind, path, raw)

	family := registry.DistributionFamily
	if kind == node.DeterministicFunction {
		family = registry.FunctionFamily
	}
	tag := registry.Unknown
	if s.typeName != "" {
		var known bool
		if tag, known = registry.Lookup(family, s.typeName); !known {
			b.errs.Add(&diag.UnsupportedTypeError{Path: s.typePath, TypeName: s.typeName, Family: family.String()})
		}
	}
	desc := tag.Descriptor()

	generates, declared := desc.DefaultGenerates(), false
	if s.generates != nil {
		name, _ := s.generates.(string)
		if g, ok := registry.ParseGenerates(name); ok {
			generates, declared = g, true
		} else {
			b.errs.Add(&diag.ParseError{Path: s.genPath, Reason: fmt.Sprintf("unknown generates type %v", s.generates)})
		}
	}

	params := b.params(desc, s.paramsPath, s.params)

	n := node.New(entry.Name, kind, tag, s.typeName, generates, params, path, b.order)
	n.GeneratesDeclared = declared
	if s.observed != nil {
		if kind == node.DeterministicFunction {
			b.errs.Add(&diag.ParseError{Path: s.obsPath, Reason: "deterministic functions cannot be observed"})
		} else {
			obs, err := node.ParseObserved(s.obsPath, generates, s.observed)
			b.errs.Add(err)
			n.Observed = obs
		}
	}

	logger.Debug("Created node.", "kind", kind, "type", s.typeName, "generates", generates, "params", len(params), "observed", n.Observed != nil)
	b.add(n)
}

func (b *builder) add(n *node.Node) {
	b.order++
	// Names are deduplicated before this point.
	_ = b.g.AddNode(n)
}

// unpack reads the kind-specific layout of an entry.
func (b *builder) unpack(kind node.Kind, path address.Address, raw map[string]any) decl {
	var s decl
	if kind == node.DeterministicFunction {
		s.typePath = path.Attr("function")
		s.genPath = path.Attr("generates")
		s.paramsPath = path.Attr("arguments")
		s.generates = raw["generates"]
		s.params = raw["arguments"]
		s.obsPath = path.Attr("observedValue")
		s.observed = raw["observedValue"]
		if name, ok := raw["function"].(string); ok && name != "" {
			s.typeName = name
		} else {
			b.errs.Add(&diag.ParseError{Path: s.typePath, Reason: "missing function name"})
		}
		return s
	}

	distPath := path.Attr("distribution")
	s.typePath = distPath.Attr("type")
	s.genPath = distPath.Attr("generates")
	s.paramsPath = distPath.Attr("parameters")
	s.obsPath = path.Attr("observedValue")
	s.observed = raw["observedValue"]

	dist, ok := raw["distribution"].(map[string]any)
	if !ok {
		b.errs.Add(&diag.ParseError{Path: distPath, Reason: "missing distribution object"})
		return s
	}
	s.generates = dist["generates"]
	s.params = dist["parameters"]
	if name, ok := dist["type"].(string); ok && name != "" {
		s.typeName = name
	} else {
		b.errs.Add(&diag.ParseError{Path: s.typePath, Reason: "missing distribution type"})
	}
	return s
}

// params converts a raw parameter object, resolving aliases to canonical names.
func (b *builder) params(desc *registry.Descriptor, path address.Address, raw any) []node.Param {
	if raw == nil {
		return nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		b.errs.Add(&diag.ParseError{Path: path, Reason: fmt.Sprintf("parameters must be an object, got %T", raw)})
		return nil
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []node.Param
	canonical := make(map[string]string)
	for _, key := range keys {
		paramPath := path.Attr(key)
		name := key
		if def, ok := desc.Param(key); ok {
			name = def.Name
		}
		if prev, dup := canonical[name]; dup {
			b.errs.Add(&diag.ParseError{Path: paramPath, Reason: fmt.Sprintf("parameter %q is also given as %q", key, prev)})
			continue
		}
		canonical[name] = key

		value, err := node.FromRaw(paramPath, obj[key])
		if err != nil {
			b.errs.Add(err)
			continue
		}
		out = append(out, node.Param{Name: name, Declared: key, Value: value, Path: paramPath})
	}
	return out
}
