package model

import "net/http"

const (
	ErrCodeInvalidUsername = "INVALID_USERNAME"
	ErrCodeInvalidURL      = "INVALID_URL"
	ErrCodeRateLimit       = "RATE_LIMIT_REACHED"
	ErrCodeUpstream        = "UPSTREAM_ERROR"
)

type APIError struct {
	Error string `json:"error"`
}

func NewAPIError(errReason error) APIError {
	switch errReason.Error() {
	case ErrCodeInvalidUsername:
		return APIError{
			Error: "username must be 1 to 39 alphanumeric characters or hyphens, without leading, trailing or consecutive hyphens",
		}

	case ErrCodeInvalidURL:
		return APIError{
			Error: "a valid http or https url is required",
		}

	case ErrCodeRateLimit:
		return APIError{
			Error: "github rate limit reached. consider using a token to increase the limit or wait few minutes and try again",
		}

	case ErrCodeUpstream:
		return APIError{
			Error: "unable to fetch data from github. try again later",
		}

	default:
		return APIError{
			Error: "internal server error. try again later",
		}
	}
}

// StatusCode maps an error code to the HTTP status of the response carrying it
func StatusCode(errReason error) int {
	switch errReason.Error() {
	case ErrCodeInvalidUsername, ErrCodeInvalidURL:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
