package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/hwhelper/internal/learning"
	"github.com/abhisek/hwhelper/internal/passage"
	"github.com/abhisek/hwhelper/internal/store"
)

// APIError is the body of every error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

var errUnavailable = errors.New("service not configured")

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// fail maps domain errors onto HTTP statuses.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, passage.ErrEmptyText),
		errors.Is(err, passage.ErrUnsupportedType),
		errors.Is(err, learning.ErrNoWord):
		respondError(c, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, passage.ErrNoPassage):
		respondError(c, http.StatusNotFound, "no_passage", err)
	case errors.Is(err, errUnavailable):
		respondError(c, http.StatusServiceUnavailable, "unavailable", err)
	default:
		respondError(c, http.StatusInternalServerError, "internal", err)
	}
}

func badRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "invalid_input", err)
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, errors.New(name+" must be an integer"))
		return 0, false
	}
	return v, true
}
