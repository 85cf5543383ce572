package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service sentinel errors onto HTTP responses.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidationFailure), errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrGenerationDiscarded):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrTripNotFound),
		errors.Is(err, ErrPointNotFound),
		errors.Is(err, ErrFileNotFound),
		errors.Is(err, ErrNoActiveTrip),
		errors.Is(err, ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoAPIKey):
		RespondError(c, http.StatusServiceUnavailable, "AI features are not configured")
	case errors.Is(err, ErrNetworkFailure),
		errors.Is(err, ErrEmptyResponse),
		errors.Is(err, ErrParseFailure):
		log.Warn().Err(err).Str("trace_id", traceID(c)).Msg("generative request failed")
		RespondError(c, http.StatusBadGateway, "AI request failed, please retry")
	default:
		log.Error().Stack().Err(err).Str("trace_id", traceID(c)).Msg("unhandled service error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
