// Package image owns the lifecycle of a single avatar attachment per owner
// record (a viewer or a seller): format validation, blob persistence and
// keeping the owner's stored reference consistent with what is actually on
// disk or in the record. The sentinel errors below let handlers map
// failures onto HTTP status codes without inspecting error strings.
package image

import "errors"

// ErrInvalidFormat is returned when an uploaded payload is empty or its
// declared content type is not an allowed image format. Handlers should
// translate this into an HTTP 400 response.
var ErrInvalidFormat = errors.New("invalid image format")

// ErrOwnerNotFound is returned when the owner id does not resolve to a
// record. Handlers should translate this into an HTTP 404 response.
var ErrOwnerNotFound = errors.New("owner not found")

// ErrNotFound is returned when the owner exists but carries no attachment,
// or when the owner record references a blob that is missing from storage.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("image not found")
