// Package assemble splits a lowered model into latent, observed and derived
// nodes and groups their distributions into prior, likelihood and posterior
// compounds. The grouping is structural; evaluating densities is left to
// the engine behind the lowering adapter.
package assemble
