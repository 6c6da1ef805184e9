// Package hcl_adapter loads pipeline files written in HCL into the config
// model and evaluates their expressions at run time, with the run state bound
// to the `state` variable.
package hcl_adapter
