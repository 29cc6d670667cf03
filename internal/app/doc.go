// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the batch lifecycle (load the manifest,
// prepare the batch, run it, report), decoupled from any specific entrypoint
// like a CLI or server.
package app
