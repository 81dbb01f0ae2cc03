// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and stores
// (defined in internal/store) to fulfill application features.
//
// Services receive their dependencies through constructor injection, apply
// transactional boundaries when operations span multiple store calls, and
// translate store-level errors into application-level errors the API layer
// can map to HTTP status codes. Practice-mode use cases live in the nested
// practice package; token handling lives in auth.
package service
