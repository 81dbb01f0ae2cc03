// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts external clients to the internal
// application services, translating HTTP concerns to business operations.
package api
