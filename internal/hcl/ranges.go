package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/codephy/internal/address"
	"github.com/zclconf/go-cty/cty"
)

// attrNames maps HCL attribute names to their document names.
var attrNames = map[string]string{
	"observed_value":  "observedValue",
	"codephy_version": "codephyVersion",
}

func docName(name string) string {
	if n, ok := attrNames[name]; ok {
		return n
	}
	return name
}

// collectRanges records the source range of every block, attribute and
// parameter entry keyed by its canonical document address.
func collectRanges(file *hcl.File) map[string]hcl.Range {
	ranges := make(map[string]hcl.Range)
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return ranges
	}

	constraintIndex := 0
	for _, block := range body.Blocks {
		var addr address.Address
		switch {
		case block.Type == "random_variable" && len(block.Labels) == 1:
			addr = address.Root("randomVariables").Attr(block.Labels[0])
		case block.Type == "deterministic_function" && len(block.Labels) == 1:
			addr = address.Root("deterministicFunctions").Attr(block.Labels[0])
		case block.Type == "constraint":
			addr = address.Root("constraints").Index(constraintIndex)
			constraintIndex++
		default:
			continue
		}
		ranges[addr.String()] = block.DefRange()
		collectBody(ranges, addr, block.Body)
	}
	for name, attr := range body.Attributes {
		ranges[address.Root(docName(name)).String()] = attr.Expr.Range()
	}
	return ranges
}

func collectBody(ranges map[string]hcl.Range, addr address.Address, body *hclsyntax.Body) {
	for name, attr := range body.Attributes {
		attrAddr := addr.Attr(docName(name))
		ranges[attrAddr.String()] = attr.Expr.Range()
		collectExpr(ranges, attrAddr, attr.Expr)
	}
	for _, block := range body.Blocks {
		blockAddr := addr.Attr(block.Type)
		ranges[blockAddr.String()] = block.DefRange()
		collectBody(ranges, blockAddr, block.Body)
	}
}

func collectExpr(ranges map[string]hcl.Range, addr address.Address, expr hclsyntax.Expression) {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		for _, item := range e.Items {
			key, diags := item.KeyExpr.Value(nil)
			if diags.HasErrors() || key.IsNull() || !key.IsKnown() || key.Type() != cty.String {
				continue
			}
			itemAddr := addr.Attr(key.AsString())
			ranges[itemAddr.String()] = item.ValueExpr.Range()
			collectExpr(ranges, itemAddr, item.ValueExpr)
		}
	case *hclsyntax.TupleConsExpr:
		for i, elem := range e.Exprs {
			elemAddr := addr.Index(i)
			ranges[elemAddr.String()] = elem.Range()
			collectExpr(ranges, elemAddr, elem)
		}
	}
}
