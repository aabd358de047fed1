// Package http exposes the cleansing pipeline over HTTP: a cleanse
// endpoint that accepts CSV input and returns the cleaned table or a
// column-type report, plus health and metrics endpoints.
package http
