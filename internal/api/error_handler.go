package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/vytor/visualdex/internal/errors"
	"github.com/vytor/visualdex/internal/logger"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code              string `json:"code"`
	Message           string `json:"message"`
	RetryAfterSeconds int64  `json:"retry_after_seconds,omitempty"`
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	body := errorBody{Error: errorDetail{Code: appErr.Code, Message: appErr.Message}}
	if appErr.Code == errors.ErrCodeQuotaExceeded {
		secs := int64(math.Ceil(appErr.RetryAfter.Seconds()))
		body.Error.RetryAfterSeconds = secs
		w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
	}
	writeJSON(w, r, appErr.Status, body)
}

func errNoRoute(r *http.Request) *errors.AppError {
	return errors.NewNotFoundError("route", r.URL.Path)
}

func errMethodNotAllowed(r *http.Request) *errors.AppError {
	return &errors.AppError{
		Code:    errors.ErrCodeBadRequest,
		Message: fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path),
		Status:  http.StatusMethodNotAllowed,
	}
}
