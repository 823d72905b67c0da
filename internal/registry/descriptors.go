package registry

var (
	scalarTypes = []GeneratesType{Real, Integer}
	vectorTypes = []GeneratesType{RealVector}
)

func scalar(name string, required bool, rules ...Rule) ParamDef {
	return ParamDef{Name: name, Accepts: scalarTypes, Shape: Scalar, Required: required, Rules: rules}
}

func vector(name string, required bool, rules ...Rule) ParamDef {
	return ParamDef{Name: name, Accepts: vectorTypes, Shape: Vector, Required: required, Rules: rules}
}

func ref(name string, required bool, accepts ...GeneratesType) ParamDef {
	return ParamDef{Name: name, Accepts: accepts, Shape: Reference, Required: required}
}

func alias(p ParamDef, aliases ...string) ParamDef {
	p.Aliases = aliases
	return p
}

func frequencies(name string) ParamDef {
	p := vector(name, true, RulePositive, RuleProbability, RuleSumToOne, RuleLength)
	p.Length = 4
	return p
}

// dimensionParam is added to every vectorizable distribution.
var dimensionParam = ParamDef{
	Name:    "dimension",
	Accepts: []GeneratesType{Integer, Real},
	Shape:   Scalar,
	Rules:   []Rule{RulePositive, RuleInteger},
}

var descriptors = [tagCount]Descriptor{
	Normal: {
		Name: "Normal", Generates: []GeneratesType{Real}, Vectorizable: true,
		Params: []ParamDef{
			scalar("mean", true, RuleFinite),
			alias(scalar("sigma", true, RulePositive), "sd"),
		},
	},
	LogNormal: {
		Name: "LogNormal", Generates: []GeneratesType{Real}, Vectorizable: true,
		Params: []ParamDef{
			alias(scalar("meanlog", true, RuleFinite), "m"),
			alias(scalar("sdlog", true, RulePositive), "s"),
		},
	},
	Gamma: {
		Name: "Gamma", Generates: []GeneratesType{Real}, Vectorizable: true,
		Params: []ParamDef{
			alias(scalar("shape", true, RulePositive), "alpha"),
			alias(scalar("rate", true, RulePositive), "beta"),
		},
	},
	Beta: {
		Name: "Beta", Generates: []GeneratesType{Real}, Vectorizable: true,
		Params: []ParamDef{
			scalar("alpha", true, RulePositive),
			scalar("beta", true, RulePositive),
		},
	},
	Exponential: {
		Name: "Exponential", Generates: []GeneratesType{Real}, Vectorizable: true,
		Params: []ParamDef{
			alias(scalar("rate", true, RulePositive), "lambda"),
		},
	},
	Uniform: {
		Name: "Uniform", Generates: []GeneratesType{Real}, Vectorizable: true,
		Params: []ParamDef{
			scalar("lower", true, RuleFinite, RuleOrdered),
			scalar("upper", true, RuleFinite, RuleOrdered),
		},
	},
	Dirichlet: {
		Name: "Dirichlet", Generates: []GeneratesType{RealVector},
		Params: []ParamDef{
			vector("alpha", true, RulePositive),
			dimensionParam,
		},
	},
	MultivariateNormal: {
		Name: "MultivariateNormal", Generates: []GeneratesType{RealVector},
		Params: []ParamDef{
			vector("mean", true, RuleFinite),
			{Name: "covariance", Shape: Matrix, Required: true, Rules: []Rule{RuleSquare}},
			dimensionParam,
		},
	},
	Yule: {
		Name: "Yule", Generates: []GeneratesType{Tree},
		Params: []ParamDef{
			scalar("birthRate", true, RulePositive),
		},
	},
	BirthDeath: {
		Name: "BirthDeath", Generates: []GeneratesType{Tree},
		Params: []ParamDef{
			scalar("birthRate", true, RulePositive),
			scalar("deathRate", true, RuleNonNegative),
			scalar("rootHeight", false, RulePositive),
		},
	},
	Coalescent: {
		Name: "Coalescent", Generates: []GeneratesType{Tree},
		Params: []ParamDef{
			scalar("populationSize", true, RulePositive),
		},
	},
	ConstrainedYule: {
		Name: "ConstrainedYule", Generates: []GeneratesType{Tree},
		Params: []ParamDef{
			scalar("birthRate", true, RulePositive),
			{Name: "taxonSet", Shape: TextList},
			{Name: "topology", Shape: Text, Rules: []Rule{RuleEnum}, Enum: []string{"monophyly", "fixed"}},
			{Name: "newick", Shape: Text},
		},
	},
	PhyloCTMC: {
		Name: "PhyloCTMC", Generates: []GeneratesType{Alignment},
		Params: []ParamDef{
			ref("tree", true, Tree),
			alias(ref("Q", true, QMatrix), "substitutionModel"),
			vector("siteRates", false, RulePositive),
			ref("branchRates", false, BranchRates),
			scalar("rate", false, RulePositive),
			{Name: "dataType", Shape: Text, Rules: []Rule{RuleEnum}, Enum: []string{"nucleotide", "aminoacid"}},
		},
	},

	HKY: {
		Name: "HKY", Generates: []GeneratesType{QMatrix},
		Params: []ParamDef{
			scalar("kappa", true, RulePositive),
			frequencies("baseFrequencies"),
		},
	},
	JC69: {
		Name: "JC69", Generates: []GeneratesType{QMatrix},
	},
	GTR: {
		Name: "GTR", Generates: []GeneratesType{QMatrix},
		Params: []ParamDef{
			scalar("rateAC", true, RulePositive),
			scalar("rateAG", true, RulePositive),
			scalar("rateAT", true, RulePositive),
			scalar("rateCG", true, RulePositive),
			scalar("rateCT", true, RulePositive),
			scalar("rateGT", true, RulePositive),
			frequencies("baseFrequencies"),
		},
	},
	Normalize: {
		Name: "normalize", Generates: []GeneratesType{RealVector},
		Params: []ParamDef{
			vector("values", true, RuleNonNegative),
		},
	},
	VectorElement: {
		Name: "vectorElement", Generates: []GeneratesType{Real},
		Params: []ParamDef{
			vector("vector", true),
			scalar("index", true, RuleNonNegative, RuleInteger),
		},
	},
	StrictClock: {
		Name: "strictClock", Generates: []GeneratesType{BranchRates},
		Params: []ParamDef{
			scalar("rate", true, RulePositive),
		},
	},
	RelaxedClock: {
		Name: "relaxedClock", Generates: []GeneratesType{BranchRates},
		Params: []ParamDef{
			ref("tree", true, Tree),
			scalar("mean", true, RulePositive),
			scalar("sd", true, RulePositive),
		},
	},
	UncorrelatedClock: {
		Name: "uncorrelatedClock", Generates: []GeneratesType{BranchRates},
		Params: []ParamDef{
			ref("tree", true, Tree),
			scalar("mean", true, RulePositive),
			scalar("sd", true, RulePositive),
		},
	},
	Add: {
		Name: "add", Generates: []GeneratesType{Real},
		Params: []ParamDef{scalar("a", true), scalar("b", true)},
	},
	Multiply: {
		Name: "multiply", Generates: []GeneratesType{Real},
		Params: []ParamDef{scalar("a", true), scalar("b", true)},
	},
}

func init() {
	for t := Unknown + 1; t < tagCount; t++ {
		d := &descriptors[t]
		d.Tag = t
		d.Family = t.Family()
		if d.Vectorizable {
			d.Params = append(d.Params, dimensionParam)
		}
	}
}
