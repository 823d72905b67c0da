package registry

// Family separates distributions from deterministic functions.
type Family int

const (
	DistributionFamily Family = iota
	FunctionFamily
)

func (f Family) String() string {
	if f == FunctionFamily {
		return "function"
	}
	return "distribution"
}

// Tag is the closed set of supported distribution and function types.
type Tag int

const (
	Unknown Tag = iota

	Normal
	LogNormal
	Gamma
	Beta
	Exponential
	Uniform
	Dirichlet
	MultivariateNormal
	Yule
	BirthDeath
	Coalescent
	ConstrainedYule
	PhyloCTMC

	HKY
	JC69
	GTR
	Normalize
	VectorElement
	StrictClock
	RelaxedClock
	UncorrelatedClock
	Add
	Multiply

	tagCount
)

func (t Tag) String() string {
	if t <= Unknown || t >= tagCount {
		return "unknown"
	}
	return descriptors[t].Name
}

// Known reports whether t names a supported type.
func (t Tag) Known() bool {
	return t > Unknown && t < tagCount
}

// Family returns the family of t.
func (t Tag) Family() Family {
	if t >= HKY && t < tagCount {
		return FunctionFamily
	}
	return DistributionFamily
}

// Descriptor returns the descriptor of t. Unknown tags return a descriptor
// with no parameters.
func (t Tag) Descriptor() *Descriptor {
	if !t.Known() {
		return &Descriptor{Tag: Unknown, Name: "unknown"}
	}
	return &descriptors[t]
}

// Tags lists every supported tag in declaration order.
func Tags() []Tag {
	out := make([]Tag, 0, tagCount-1)
	for t := Unknown + 1; t < tagCount; t++ {
		out = append(out, t)
	}
	return out
}
