// Package http implements the HTTP transport layer of the synchronization
// engine.
//
// It exposes route wiring, request handlers, and middleware for the REST
// API. Cross-cutting concerns such as request tracing and access logging
// are handled here before requests are delegated to the service layer.
package http
