// Package api handles incoming HTTP requests, request validation and
// response formatting. It translates HTTP concerns into calls on the
// calendar services and maps their error kinds back to status codes.
package api
