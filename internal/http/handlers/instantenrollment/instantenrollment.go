// Package instantenrollment serves the instant enrollment registration
// workflow: section search, pricing, registration, payment and the
// acknowledgement lookups that follow it.
package instantenrollment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/request"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// Service is what the instant enrollment routes need.
type Service interface {
	SearchSections(ctx context.Context, c types.InstantEnrollmentCourseSearchCriteria, pageSize, pageIndex int) (types.SectionPage2, error)
	ProposedRegistration(ctx context.Context, r types.InstantEnrollmentProposedRegistration) (types.InstantEnrollmentProposedRegistrationResult, error)
	ZeroCostRegistration(ctx context.Context, r types.InstantEnrollmentZeroCostRegistration) (types.InstantEnrollmentZeroCostRegistrationResult, error)
	EcheckRegistration(ctx context.Context, r types.InstantEnrollmentEcheckRegistration) (types.InstantEnrollmentEcheckRegistrationResult, error)
	StartPaymentGateway(ctx context.Context, r types.InstantEnrollmentPaymentGatewayRegistration) (types.InstantEnrollmentStartPaymentGatewayRegistrationResult, error)
	PaymentAcknowledgementParagraph(ctx context.Context, r types.InstantEnrollmentPaymentAcknowledgementParagraphRequest) ([]string, error)
	PersonMatch(ctx context.Context, c types.PersonMatchCriteriaInstantEnrollment) (types.InstantEnrollmentPersonMatchResult, error)
	CashReceiptAcknowledgement(ctx context.Context, r types.InstantEnrollmentCashReceiptAcknowledgementRequest) (types.InstantEnrollmentCashReceiptAcknowledgement, error)
	StudentPrograms(ctx context.Context, studentID string, currentOnly bool) ([]types.StudentProgram2, error)
}

// messages are the fixed texts an endpoint answers with. Empty fields fall
// back to the error's own text.
type messages struct {
	permission string
	missing    string
	invalid    string
	other      string
}

type Handler struct {
	svc      Service
	validate *validator.Validate
	log      *slog.Logger
}

func New(svc Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, validate: validator.New(), log: log}
}

func route(version string, def bool, h http.HandlerFunc) ethos.Route {
	return ethos.Route{Version: version, MediaType: ethos.MediaTypeInstantEnrollment, Default: def, Handler: h}
}

func (h *Handler) Register(reg *ethos.Registry) {
	reg.Handle("POST /instant-enrollment/sections/search", route("2", true, h.SearchSections()))
	reg.Handle("POST /instant-enrollment/proposed-registration", route("1", true, h.ProposedRegistration()))
	reg.Handle("POST /instant-enrollment/zero-cost-registration", route("1", true, h.ZeroCostRegistration()))
	reg.Handle("POST /instant-enrollment/echeck-registration", route("1", true, h.EcheckRegistration()))
	reg.Handle("POST /instant-enrollment/start-payment-gateway-transaction", route("1", true, h.StartPaymentGateway()))
	reg.Handle("POST /qapi/instant-enrollment/payment-acknowledgement-paragraph-text", route("1", true, h.PaymentAcknowledgementParagraph()))
	reg.Handle("POST /qapi/persons", route("1", false, h.PersonMatch()))
	reg.Handle("POST /qapi/instant-enrollment/cash-receipt-acknowledgement", route("1", true, h.CashReceiptAcknowledgement()))
	reg.Handle("GET /students/{studentId}/programs", route("1", false, h.StudentPrograms()))
}

// fail maps err onto the endpoint's messages. Session failures always
// answer 401 with the shared session text.
func (h *Handler) fail(w http.ResponseWriter, op string, err error, m messages) {
	h.log.Error(op, slog.String("error", err.Error()))

	var message string
	switch apperr.KindOf(err) {
	case apperr.KindSessionExpired:
		message = apperr.SessionExpiredMessage
	case apperr.KindPermission:
		message = m.permission
	case apperr.KindArgument:
		message = m.invalid
	default:
		message = m.other
	}
	response.WriteGeneralError(w, err, message)
}

// decodeRegistration reads and validates a registration body. A missing
// body is reported with m.missing and a body failing validation with
// m.invalid.
func (h *Handler) decodeRegistration(r *http.Request, dst any, m messages) (string, error) {
	ok, err := request.DecodeJSON(r, dst, true)
	if err != nil {
		return m.invalid, err
	}
	if !ok {
		return m.missing, apperr.Argument("request body is empty")
	}
	if err := h.validate.Struct(dst); err != nil {
		return m.invalid, apperr.Argument("%s", err.Error())
	}
	return "", nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apperr.Argument("'%s' is not a valid %s.", v, name)
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SearchSections handles POST /instant-enrollment/sections/search
//
// Query: pageSize (default 10) and pageIndex (default 0).
// Request body (JSON):
//
//	{ "Keyword": "math", "Subjects": ["MATH"], "OpenSections": true }
//
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) SearchSections() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("searching instant enrollment sections")

		pageSize, err := queryInt(r, "pageSize", 10)
		if err != nil {
			h.fail(w, "search sections", err, messages{})
			return
		}
		pageIndex, err := queryInt(r, "pageIndex", 0)
		if err != nil {
			h.fail(w, "search sections", err, messages{})
			return
		}

		var c types.InstantEnrollmentCourseSearchCriteria
		if _, err := request.DecodeJSON(r, &c, true); err != nil {
			h.fail(w, "search sections", err, messages{})
			return
		}

		page, err := h.svc.SearchSections(r.Context(), c, pageSize, pageIndex)
		if err != nil {
			h.fail(w, "search sections", err, messages{})
			return
		}
		response.WriteJSON(w, http.StatusOK, page)
	}
}

var proposedMessages = messages{
	permission: "User is not permitted to complete the mock registration for classes selected for instant enrollment",
	missing:    "Proposed registration argument was not provided in order to complete proposed registration for classes selected for instant enrollment",
	invalid:    "An invalid argument was supplied for proposed registrations.",
	other:      "Couldn't complete the mock registration for classes selected for instant enrollment",
}

// ProposedRegistration handles POST /instant-enrollment/proposed-registration
func (h *Handler) ProposedRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("pricing a proposed registration")

		var body types.InstantEnrollmentProposedRegistration
		if message, err := h.decodeRegistration(r, &body, proposedMessages); err != nil {
			h.log.Error("proposed registration", slog.String("error", err.Error()))
			response.WriteGeneralError(w, err, message)
			return
		}

		result, err := h.svc.ProposedRegistration(r.Context(), body)
		if err != nil {
			h.fail(w, "proposed registration", err, proposedMessages)
			return
		}
		response.WriteJSON(w, http.StatusOK, result)
	}
}

var zeroCostMessages = messages{
	permission: "User is not permitted to complete the zero cost registration for classes selected for instant enrollment",
	missing:    "A required zero cost registration argument was not provided to register for classes for instant enrollment.",
	invalid:    "An invalid argument was supplied for the zero cost registration.",
	other:      "Could not complete the zero cost registration for selected classes for instant enrollment.",
}

// ZeroCostRegistration handles POST /instant-enrollment/zero-cost-registration
func (h *Handler) ZeroCostRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("completing a zero cost registration")

		var body types.InstantEnrollmentZeroCostRegistration
		if message, err := h.decodeRegistration(r, &body, zeroCostMessages); err != nil {
			h.log.Error("zero cost registration", slog.String("error", err.Error()))
			response.WriteGeneralError(w, err, message)
			return
		}

		result, err := h.svc.ZeroCostRegistration(r.Context(), body)
		if err != nil {
			h.fail(w, "zero cost registration", err, zeroCostMessages)
			return
		}
		response.WriteJSON(w, http.StatusOK, result)
	}
}

var echeckMessages = messages{
	permission: "User is not permitted to complete the echeck registration for classes selected for instant enrollment",
	missing:    "Echeck registration argument was not provided in order to complete registration for classes selected for instant enrollment",
	invalid:    "An invalid argument was supplied",
	other:      "Couldn't complete the echeck registration for classes selected for instant enrollment",
}

// EcheckRegistration handles POST /instant-enrollment/echeck-registration
func (h *Handler) EcheckRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("completing an echeck registration")

		var body types.InstantEnrollmentEcheckRegistration
		if message, err := h.decodeRegistration(r, &body, echeckMessages); err != nil {
			h.log.Error("echeck registration", slog.String("error", err.Error()))
			response.WriteGeneralError(w, err, message)
			return
		}

		result, err := h.svc.EcheckRegistration(r.Context(), body)
		if err != nil {
			h.fail(w, "echeck registration", err, echeckMessages)
			return
		}
		response.WriteJSON(w, http.StatusOK, result)
	}
}

var gatewayMessages = messages{
	permission: "User is not permitted to start the payment gateway instant enrollment registration",
	missing:    "A required argument was not provided.",
	invalid:    "An invalid argument was supplied.",
	other:      "Unable to start the payment gateway instant enrollment registration",
}

// StartPaymentGateway handles POST /instant-enrollment/start-payment-gateway-transaction
func (h *Handler) StartPaymentGateway() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("starting a payment gateway registration")

		var body types.InstantEnrollmentPaymentGatewayRegistration
		if message, err := h.decodeRegistration(r, &body, gatewayMessages); err != nil {
			h.log.Error("start payment gateway", slog.String("error", err.Error()))
			response.WriteGeneralError(w, err, message)
			return
		}

		result, err := h.svc.StartPaymentGateway(r.Context(), body)
		if err != nil {
			h.fail(w, "start payment gateway", err, gatewayMessages)
			return
		}
		response.WriteJSON(w, http.StatusOK, result)
	}
}

// PaymentAcknowledgementParagraph handles
// POST /qapi/instant-enrollment/payment-acknowledgement-paragraph-text
func (h *Handler) PaymentAcknowledgementParagraph() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("getting payment acknowledgement paragraph text")

		var body *types.InstantEnrollmentPaymentAcknowledgementParagraphRequest
		if _, err := request.DecodeJSON(r, &body, true); err != nil || body == nil {
			response.WriteGeneralError(w, apperr.Argument("missing request"),
				"An instant enrollment payment acknowledgement paragraph request is required to get instant enrollment payment acknowledgement paragraph text.")
			return
		}

		other := fmt.Sprintf("An error occurred while attempting to retrieve instant enrollment payment acknowledgement paragraph text for person %s", body.PersonId)
		if body.CashReceiptId != "" {
			other += fmt.Sprintf(" for cash receipt %s", body.CashReceiptId)
		}
		m := messages{
			permission: fmt.Sprintf("User is not permitted to retrieve instant enrollment payment acknowledgement paragraph text for person %s", body.PersonId),
			invalid:    other,
			other:      other,
		}

		lines, err := h.svc.PaymentAcknowledgementParagraph(r.Context(), *body)
		if err != nil {
			h.fail(w, "payment acknowledgement paragraph", err, m)
			return
		}
		response.WriteJSON(w, http.StatusOK, lines)
	}
}

// PersonMatch handles POST /qapi/persons in the instant enrollment format.
func (h *Handler) PersonMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("querying instant enrollment person matches")

		var c types.PersonMatchCriteriaInstantEnrollment
		if _, err := request.DecodeJSON(r, &c, false); err != nil {
			h.fail(w, "person match", err, messages{})
			return
		}
		if err := h.validate.Struct(c); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verrs))
				return
			}
			h.fail(w, "person match", err, messages{})
			return
		}

		result, err := h.svc.PersonMatch(r.Context(), c)
		if err != nil {
			h.fail(w, "person match", err, messages{
				permission: "User is not permitted to query person matches for instant enrollment.",
			})
			return
		}
		response.WriteJSON(w, http.StatusOK, result)
	}
}

// CashReceiptAcknowledgement handles
// POST /qapi/instant-enrollment/cash-receipt-acknowledgement
func (h *Handler) CashReceiptAcknowledgement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("getting a cash receipt acknowledgement")

		var body *types.InstantEnrollmentCashReceiptAcknowledgementRequest
		if _, err := request.DecodeJSON(r, &body, true); err != nil || body == nil {
			response.WriteGeneralError(w, apperr.Argument("missing request"),
				"An instant enrollment cash receipt acknowledgement request is required to get instant enrollment cash receipt acknowledgement.")
			return
		}

		suffix := ""
		if body.TransactionId != "" {
			suffix += fmt.Sprintf(" for e-commerce transaction id %s", body.TransactionId)
		}
		if body.CashReceiptId != "" {
			suffix += fmt.Sprintf(" for cash receipt id %s", body.CashReceiptId)
		}
		other := "An error occurred while attempting to retrieve an instant enrollment cash receipt acknowledgement" + suffix
		m := messages{
			permission: "User is not permitted to retrieve instant enrollment cash receipt acknowledgement" + suffix,
			invalid:    other,
			other:      other,
		}

		receipt, err := h.svc.CashReceiptAcknowledgement(r.Context(), *body)
		if err != nil {
			h.fail(w, "cash receipt acknowledgement", err, m)
			return
		}
		response.WriteJSON(w, http.StatusOK, receipt)
	}
}

// StudentPrograms handles GET /students/{studentId}/programs. Query
// currentOnly defaults to true.
func (h *Handler) StudentPrograms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := r.PathValue("studentId")
		h.log.Info("listing instant enrollment student programs", slog.String("studentId", studentID))

		currentOnly := true
		if v := r.URL.Query().Get("currentOnly"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				h.fail(w, "student programs", apperr.Argument("'%s' is not a valid currentOnly.", v), messages{})
				return
			}
			currentOnly = b
		}

		other := fmt.Sprintf("An error occurred while attempting to retrieve student programs for person %s", studentID)
		programs, err := h.svc.StudentPrograms(r.Context(), studentID, currentOnly)
		if err != nil {
			h.fail(w, "student programs", err, messages{
				permission: fmt.Sprintf("User is not permitted to retrieve student programs for person %s", studentID),
				invalid:    other,
				other:      other,
			})
			return
		}
		response.WriteJSON(w, http.StatusOK, programs)
	}
}
