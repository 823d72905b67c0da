package assemble

// ConstraintPolicy names how an engine enforces declared constraints. The
// compiler only records it; enforcement belongs to the engine.
type ConstraintPolicy string

const (
	// ZeroDensity gives any violating joint assignment zero probability.
	ZeroDensity ConstraintPolicy = "zero-density"
	// RejectProposal discards sampler proposals that violate a constraint.
	RejectProposal ConstraintPolicy = "reject-proposal"
	// Ignore leaves constraints unenforced.
	Ignore ConstraintPolicy = "ignore"

	DefaultPolicy = ZeroDensity
)

// PolicyProvider is implemented by adapters that enforce constraints in
// their own way.
type PolicyProvider interface {
	ConstraintPolicy() ConstraintPolicy
}

// PolicyOf returns the policy advertised by adapter, or DefaultPolicy.
func PolicyOf(adapter any) ConstraintPolicy {
	if p, ok := adapter.(PolicyProvider); ok && p.ConstraintPolicy() != "" {
		return p.ConstraintPolicy()
	}
	return DefaultPolicy
}
