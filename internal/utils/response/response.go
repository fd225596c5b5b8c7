// Package response provides helpers for writing consistent HTTP responses.
//
// Two error shapes leave this service. EEDM resources answer with the
// integration errors v2 payload; self-service resources answer with the
// small status/error envelope below.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/go-playground/validator/v10"
)

// MediaTypeErrorsV2 is the content type of EEDM error payloads.
const MediaTypeErrorsV2 = "application/vnd.hedtech.integration.errors.v2+json"

// ─────────────────────────────────────────────────────────────────────────────
// Response is the envelope returned for self-service error cases:
//
//	{ "status": "error", "error": "field StudentIds is required" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// IntegrationErrors is the EEDM error payload.
type IntegrationErrors struct {
	Errors []apperr.Detail `json:"errors"`
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes data as JSON with the given status code.
//
// Header() → WriteHeader() → body. Once WriteHeader is called the headers
// are locked, so callers set paging and media headers before calling this.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteIntegrationError writes err as an integration errors v2 payload.
func WriteIntegrationError(w http.ResponseWriter, status int, err error) error {
	w.Header().Set("Content-Type", MediaTypeErrorsV2)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(IntegrationErrors{Errors: apperr.Details(err)})
}

// WritePDF sends a PDF document as an attachment named filename.
func WritePDF(w http.ResponseWriter, filename string, data []byte) error {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(data)
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// GeneralError wraps any error into the self-service envelope.
//
//	response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
//
// ─────────────────────────────────────────────────────────────────────────────
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// WriteGeneralError writes err in the self-service envelope. Session
// failures answer 401, permission failures 403 and everything else 400.
// A non-empty message replaces the error text sent to the client.
func WriteGeneralError(w http.ResponseWriter, err error, message string) error {
	status := http.StatusBadRequest
	switch apperr.KindOf(err) {
	case apperr.KindSessionExpired:
		status = http.StatusUnauthorized
	case apperr.KindPermission:
		status = http.StatusForbidden
	}
	if message != "" {
		return WriteJSON(w, status, Response{Status: StatusError, Error: message})
	}
	return WriteJSON(w, status, GeneralError(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError turns validator failures into one readable sentence per
// field, joined with ", ":
//
//	{ "status": "error", "error": "field StudentIds is required" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	return Response{
		Status: StatusError,
		Error:  validationMessage(errs),
	}
}

// ValidationIntegrationError renders validator failures as an argument
// error with one detail per field, for EEDM and instant-enrollment bodies.
func ValidationIntegrationError(errs validator.ValidationErrors) *apperr.Error {
	e := apperr.Argument("%s", validationMessage(errs))
	for _, fe := range errs {
		msg := fieldMessage(fe)
		e.WithDetail(apperr.CodeMissingField, msg, msg)
	}
	return e
}

func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fieldMessage(e))
	}
	return strings.Join(msgs, ", ")
}

func fieldMessage(e validator.FieldError) string {
	switch e.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is required", e.Namespace())
	case "min":
		return fmt.Sprintf("field %s must have at least %s entries", e.Namespace(), e.Param())
	default:
		return fmt.Sprintf("field %s is invalid", e.Namespace())
	}
}
