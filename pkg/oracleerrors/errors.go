package oracleerrors

import (
	"errors"
	"fmt"
)

// Error is an error carrying a stable code that callers and API clients can branch on.
type Error struct {
	code    ErrorCode
	message string
	details map[string]string
	cause   error
}

// New returns an error with the given code and formatted message.
func New(code ErrorCode, format string, a ...any) *Error {
	return &Error{
		code:    code,
		message: fmt.Sprintf(format, a...),
	}
}

// Wrap returns an error with the given code whose cause is err.
func Wrap(code ErrorCode, err error, format string, a ...any) *Error {
	e := New(code, format, a...)
	e.cause = err
	return e
}

// WithDetail returns a copy of the error with the key/value attached.
func (e *Error) WithDetail(key, value string) *Error {
	details := make(map[string]string, len(e.details)+1)
	for k, v := range e.details {
		details[k] = v
	}
	details[key] = value
	return &Error{code: e.code, message: e.message, details: details, cause: e.cause}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports a match for any *Error with the same code, so sentinels match wrapped instances.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.code == e.code
}

func (e *Error) Code() ErrorCode {
	return e.code
}

func (e *Error) Message() string {
	return e.message
}

func (e *Error) Details() map[string]string {
	return e.details
}

var (
	ErrSignerUnconfigured    = New(SignerUnconfigured, "oracle signer has no key loaded")
	ErrContractNotConfigured = New(ContractNotConfigured, "contract address is not configured")
	ErrKeyLoadFailure        = New(KeyLoadFailure, "failed to load oracle key")
	ErrNetworkFailure        = New(NetworkFailure, "network request failed")
	ErrParseFailure          = New(ParseFailure, "failed to parse response")
	ErrStalePrice            = New(StalePrice, "price feed returned a stale quote")
)

// NewStalePrice reports that a settlement was refused because the price feed fell back.
func NewStalePrice(pairID, reason string) *Error {
	return New(StalePrice, "price for pair %s is stale: %s", pairID, reason).WithDetail("pairId", pairID)
}

func NewKeyLoadFailure(path string, err error) *Error {
	return Wrap(KeyLoadFailure, err, "failed to load oracle key from %s", path).WithDetail("path", path)
}

func NewContractNotConfigured(contract string) *Error {
	return New(ContractNotConfigured, "%s contract address is not configured", contract).WithDetail("contract", contract)
}

func NewNetworkFailure(op string, err error) *Error {
	return Wrap(NetworkFailure, err, "%s failed", op)
}

func NewParseFailure(what string, err error) *Error {
	return Wrap(ParseFailure, err, "failed to parse %s", what)
}

// CodeOf returns the code of the first *Error in err's chain, or Unknown.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return Unknown
}
