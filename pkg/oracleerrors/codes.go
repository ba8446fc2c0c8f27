package oracleerrors

import "net/http"

type ErrorCode string

const (
	SignerUnconfigured    ErrorCode = "SignerUnconfigured"
	ContractNotConfigured ErrorCode = "ContractNotConfigured"
	KeyLoadFailure        ErrorCode = "KeyLoadFailure"
	NetworkFailure        ErrorCode = "NetworkFailure"
	ParseFailure          ErrorCode = "ParseFailure"
	StalePrice            ErrorCode = "StalePrice"
	BadRequest            ErrorCode = "BadRequest"
	Unauthorized          ErrorCode = "Unauthorized"
	NotFound              ErrorCode = "NotFound"
	Unknown               ErrorCode = "Unknown"
)

// HTTPStatus is the status the public API answers with for an error of this code.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case BadRequest, ParseFailure:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case SignerUnconfigured, ContractNotConfigured, KeyLoadFailure, StalePrice:
		return http.StatusServiceUnavailable
	case NetworkFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
