// Package registry provides the column registry: the ordered, two-column
// table of loaded files plus a per-row status that every other part of the
// batch reads or writes.
//
// Rows have no identity beyond their position. Column1 and column2 are
// independent lists joined by index; the row count is the longer of the two.
// Removing a row shifts every later row down by one, so callers holding a row
// index must tolerate it no longer resolving: SetStatus on such an index
// reports ErrRowOutOfRange instead of panicking.
//
// The registry never reconciles uneven columns itself. Validate checks the
// registry against a schema at the run boundary.
package registry
