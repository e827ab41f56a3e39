// Package api handles incoming HTTP requests for tasks and comments: path
// parameter parsing, request decoding and validation, and response
// formatting. Handlers translate HTTP concerns into calls on the service
// layer and map service errors back to status codes through HandleAPIError.
package api
