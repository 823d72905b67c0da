// Package hcl provides the HCL front end for model documents. It implements
// config.Loader by decoding `random_variable`, `deterministic_function` and
// `constraint` blocks into the same raw tree the JSON and YAML loaders
// produce, and records source ranges so diagnostics can point at the
// offending block or attribute.
//
//	random_variable "kappaParam" {
//	  distribution {
//	    type       = "LogNormal"
//	    generates  = "REAL"
//	    parameters = { meanlog = 1.0, sdlog = 0.5 }
//	  }
//	}
//
// Values are evaluated without variables or functions.
package hcl
