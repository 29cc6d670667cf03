// Package batch holds the explicit state of one batch: the mode, the loaded
// files, the annotation catalog, the results directory and the analysis
// controller. Front ends drive it through a small command surface
// (SetMode, StartLoad, LoadCatalog, RemoveRow, StartRun, Cancel, ...) and
// observe it through the session.Sink they pass in.
//
// While a session is active every mutating command fails with ErrLocked.
package batch
