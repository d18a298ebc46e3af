package errors

import "net/http"

var (
	ErrBadRequest = New(
		"BAD_REQUEST",
		"The request could not be understood",
		http.StatusBadRequest,
	)

	ErrUnauthorized = New(
		"UNAUTHORIZED",
		"A valid bearer token is required",
		http.StatusUnauthorized,
	)

	ErrNotFound = New(
		"NOT_FOUND",
		"The requested resource was not found",
		http.StatusNotFound,
	)

	ErrConflict = New(
		"CONFLICT",
		"The request conflicts with the current state",
		http.StatusConflict,
	)

	ErrPayloadTooLarge = New(
		"PAYLOAD_TOO_LARGE",
		"The uploaded file exceeds the size limit",
		http.StatusRequestEntityTooLarge,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)

	ErrRouteNotFound = New(
		"ROUTE_NOT_FOUND",
		"Route not found",
		http.StatusNotFound,
	)
)

const (
	CodeInvalidInput = "INVALID_INPUT"
)
