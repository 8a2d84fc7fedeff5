// Package requestid tags every request with a correlation id.
//
// Middleware reuses a well-formed X-Request-ID header from the client or
// generates a time-ordered UUID, stores it in the request context and echoes
// it in the response. LogExtractor adds it to every log record written with
// the request context.
package requestid
