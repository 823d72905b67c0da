package testutil

// PhyloModel is a complete HKY + Yule model with an observed four-taxon
// alignment. Every random variable except "alignment" is latent and
// "substModel" is derived.
const PhyloModel = `{
  "model": "hky-yule",
  "codephyVersion": "0.1",
  "randomVariables": {
    "kappaParam": {
      "distribution": {"type": "LogNormal", "generates": "REAL", "parameters": {"meanlog": 1.0, "sdlog": 0.5}}
    },
    "baseFreqParam": {
      "distribution": {"type": "Dirichlet", "generates": "REAL_VECTOR", "parameters": {"alpha": [1, 1, 1, 1]}}
    },
    "birthRateParam": {
      "distribution": {"type": "Gamma", "generates": "REAL", "parameters": {"shape": 2.0, "rate": 20.0}}
    },
    "tree": {
      "distribution": {"type": "Yule", "generates": "TREE", "parameters": {"birthRate": {"variable": "birthRateParam"}}}
    },
    "alignment": {
      "distribution": {
        "type": "PhyloCTMC",
        "generates": "ALIGNMENT",
        "parameters": {"tree": {"variable": "tree"}, "Q": {"variable": "substModel"}}
      },
      "observedValue": [
        {"taxon": "human", "sequence": "ACGTACGT"},
        {"taxon": "chimp", "sequence": "ACGTACGA"},
        {"taxon": "gorilla", "sequence": "ACGTACGG"},
        {"taxon": "orangutan", "sequence": "ACGTAC-N"}
      ]
    }
  },
  "deterministicFunctions": {
    "substModel": {
      "function": "HKY",
      "generates": "Q_MATRIX",
      "arguments": {"kappa": {"variable": "kappaParam"}, "baseFrequencies": {"variable": "baseFreqParam"}}
    }
  },
  "constraints": [
    {"type": "lessThan", "left": "birthRateParam", "right": 1.0}
  ],
  "metadata": {"title": "primates"}
}`

// ExpressionModel exercises expression parameters and forward references.
const ExpressionModel = `{
  "randomVariables": {
    "scaled": {
      "distribution": {"type": "Normal", "parameters": {"mean": {"expression": "2 * base + sigma"}, "sigma": 0.5}}
    },
    "base": {
      "distribution": {"type": "Normal", "parameters": {"mean": 3, "sigma": {"expression": "sqrt(4)"}}}
    }
  },
  "deterministicFunctions": {
    "total": {"function": "add", "arguments": {"a": {"variable": "base"}, "b": {"variable": "scaled"}}}
  }
}`
