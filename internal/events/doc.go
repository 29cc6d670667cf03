// Package events provides session.Sink implementations: a structured log
// sink, a fan-out, an in-memory recorder and a Socket.IO publisher that
// streams progress to a remote dashboard.
package events
