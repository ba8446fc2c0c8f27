package oracleerrors

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
)

// ErrorResponse is the JSON body returned by the public API on failure.
type ErrorResponse struct {
	Code    ErrorCode         `json:"Code"`
	Message string            `json:"Message"`
	Details map[string]string `json:"Details,omitempty"`
	Err     string            `json:"Err"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

func NewResponseUnknownError(err error) *ErrorResponse {
	return &ErrorResponse{
		Code:    Unknown,
		Message: err.Error(),
		Err:     err.Error(),
	}
}

func ErrorToErrorResponseObject(err error) *ErrorResponse {
	if err == nil {
		return &ErrorResponse{}
	}

	var e *Error
	if errors.As(err, &e) {
		return &ErrorResponse{
			Code:    e.Code(),
			Message: e.Message(),
			Details: e.Details(),
			Err:     err.Error(),
		}
	}
	return NewResponseUnknownError(err)
}

func ErrorToErrorResponse(err error) string {
	b, marshalErr := json.Marshal(ErrorToErrorResponseObject(err))
	if marshalErr != nil {
		log.Error().Err(marshalErr).Msg("failed to marshal error response")
		return `{"Code":"Unknown","Message":"unable to render error"}`
	}
	return string(b)
}
