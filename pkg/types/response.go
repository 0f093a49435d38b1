// Package types holds the JSON envelopes shared by every API response.
package types

// SuccessEnvelope wraps successful payloads; lists are returned as arrays in Data.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public shape of a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
