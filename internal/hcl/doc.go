// Package hcl provides the HCL implementation of config.Loader. It parses a
// batch manifest, evaluates its expressions and translates the result into
// the format-agnostic config.Manifest.
//
// Expressions can reference env.<NAME> for environment variables and
// manifest_dir for the directory holding the manifest.
package hcl
