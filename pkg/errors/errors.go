package errors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrCharacterNotFound  = errors.New("character not found")
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrCharacterLimit     = errors.New("character limit reached")
	ErrTurnInProgress     = errors.New("a turn is already in progress")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

type APIError struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, code int) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
	}
}

func HTTPStatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCharacterNotFound), errors.Is(err, ErrCampaignNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrTurnInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrUserAlreadyExists), errors.Is(err, ErrCharacterLimit):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
