package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/embedding"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrStoreUnavailable indicates the server runs without a vector store
type ErrStoreUnavailable struct{}

func (e *ErrStoreUnavailable) Error() string {
	return "vector store is not configured"
}

// ErrWeightsUnavailable indicates the server has no reloadable weight store
type ErrWeightsUnavailable struct{}

func (e *ErrWeightsUnavailable) Error() string {
	return "weight store is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var storeUnavailable *ErrStoreUnavailable
	var weightsUnavailable *ErrWeightsUnavailable
	var configErr *config.ConfigError
	var embeddingErr *embedding.EmbeddingError
	var storeErr *db.StoreError

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &storeUnavailable), errors.As(err, &weightsUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &configErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &embeddingErr), errors.As(err, &storeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
