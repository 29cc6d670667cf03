// Package config defines the format-agnostic batch manifest and the Loader
// interface that turns a manifest file into it.
//
// The manifest is the single source of truth for a non-interactive run: the
// mode, the files, the catalog, the analyzer and where to publish progress.
// Concrete loaders, such as the HCL one, live in separate packages.
package config
