package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Error types.
const (
	ErrTypeValidation       = "validation_error"
	ErrTypeScenarioNotFound = "scenario_not_found"
	ErrTypeInternal         = "internal_error"
)

// APIError is the structured JSON error body.
type APIError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorBuilder assembles an APIError.
type ErrorBuilder struct {
	errType   string
	message   string
	context   map[string]any
	requestID string
}

// NewError starts an error of the given type.
func NewError(errType, message string) *ErrorBuilder {
	return &ErrorBuilder{errType: errType, message: message, context: make(map[string]any)}
}

// WithContext adds a context field.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context[key] = value
	return b
}

// WithRequestID sets the request id.
func (b *ErrorBuilder) WithRequestID(id string) *ErrorBuilder {
	b.requestID = id
	return b
}

// WithCause records the underlying error message.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	if err != nil {
		b.context["cause"] = err.Error()
	}
	return b
}

// Build returns the APIError.
func (b *ErrorBuilder) Build() APIError {
	return APIError{
		Type:      b.errType,
		Message:   b.message,
		Context:   b.context,
		RequestID: b.requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorHandler logs and writes structured errors.
type ErrorHandler struct {
	logger *log.Logger
}

// NewErrorHandler returns an ErrorHandler logging to logger.
func NewErrorHandler(logger *log.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleValidationError writes a 400 for a bad request field.
func (h *ErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, field, message string) {
	apiErr := NewError(ErrTypeValidation, "Validation failed: "+message).
		WithRequestID(middleware.GetReqID(r.Context())).
		WithContext("field", field).
		WithContext("path", r.URL.Path).
		Build()
	h.write(w, r, http.StatusBadRequest, apiErr)
}

// HandleNotFound writes a 404 for an unknown scenario.
func (h *ErrorHandler) HandleNotFound(w http.ResponseWriter, r *http.Request, id string) {
	apiErr := NewError(ErrTypeScenarioNotFound, "Scenario not found").
		WithRequestID(middleware.GetReqID(r.Context())).
		WithContext("scenario_id", id).
		Build()
	h.write(w, r, http.StatusNotFound, apiErr)
}

// HandleError writes a 500 for an unexpected failure.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := NewError(ErrTypeInternal, "Internal server error").
		WithRequestID(middleware.GetReqID(r.Context())).
		WithContext("path", r.URL.Path).
		WithCause(err).
		Build()
	h.write(w, r, http.StatusInternalServerError, apiErr)
}

// RecoveryHandler turns panics into structured 500 responses.
func (h *ErrorHandler) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				requestID := middleware.GetReqID(r.Context())
				h.logger.Printf("panic_recovered request_id=%s path=%s method=%s panic=%v", requestID, r.URL.Path, r.Method, rvr)
				apiErr := NewError(ErrTypeInternal, "Internal server error").
					WithRequestID(requestID).
					WithContext("panic", fmt.Sprintf("%v", rvr)).
					Build()
				h.writeResponse(w, http.StatusInternalServerError, apiErr)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *ErrorHandler) write(w http.ResponseWriter, r *http.Request, status int, apiErr APIError) {
	level := "ERROR"
	if status < 500 {
		level = "WARN"
	}
	h.logger.Printf("error_occurred level=%s type=%s status=%d request_id=%s method=%s path=%s message=%q",
		level, apiErr.Type, status, apiErr.RequestID, r.Method, r.URL.Path, apiErr.Message)
	h.writeResponse(w, status, apiErr)
}

func (h *ErrorHandler) writeResponse(w http.ResponseWriter, status int, apiErr APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Service-Version", Version)
	w.Header().Set("X-Error-Type", apiErr.Type)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiErr); err != nil {
		h.logger.Printf("encode_error_failed error=%q", err)
	}
}
