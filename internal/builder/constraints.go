package builder

import (
	"github.com/vk/codephy/internal/address"
	"github.com/vk/codephy/internal/config"
	"github.com/vk/codephy/internal/node"
)

func (b *builder) addConstraints(doc *config.Document) {
	for i, raw := range doc.Constraints {
		c, err := node.ParseConstraint(address.Root("constraints").Index(i), raw)
		if err != nil {
			b.errs.Add(err)
			continue
		}
		b.g.AddConstraint(c)
	}
}
