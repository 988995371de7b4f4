// Package mockserver provides a local stand-in for the document-assistant
// HTTP API, built on gin. It accepts uploads into memory, answers chat turns
// with the simulated reply and exposes a health endpoint, so the backend
// upload driver and the api completion provider can run without the real
// service.
package mockserver
