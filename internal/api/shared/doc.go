// Package shared holds the request decoding, response writing and trace ID
// helpers used by both the api handlers and the api middleware.
package shared
