// Package api contains the HTTP delivery layer: request/response models,
// handlers for each service area, and the error-to-status mapping that
// keeps internal error details out of client responses.
package api
