// Package config defines the format-agnostic pipeline model along with the
// interfaces (Loader, Evaluator) for loading a pipeline from a source file
// and evaluating its expressions against run state.
//
// The `config.Model` is the single input of the `builder` package. Concrete
// implementations of the interfaces, such as for HCL, are provided in
// separate packages.
package config
