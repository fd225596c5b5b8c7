// Package taxform serves the 1098-T and T2202A tax form PDFs of a person.
package taxform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/service"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

// Service renders the documents.
type Service interface {
	Form1098Pdf(ctx context.Context, personID, recordID string, allowBypass bool) ([]byte, error)
	FormT2202aPdf(ctx context.Context, personID, recordID string) ([]byte, error)
}

type Handler struct {
	svc Service
	log *slog.Logger
}

func New(svc Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(reg *ethos.Registry) {
	reg.Handle("GET /persons/{personId}/form1098ts/{recordId}",
		ethos.Route{Version: "2", MediaType: ethos.MediaTypeEllucianPDF, Default: true, Handler: h.Form1098(true)},
		ethos.Route{Version: "1", MediaType: ethos.MediaTypeEllucianPDF, Handler: h.Form1098(false)},
	)
	reg.Handle("GET /persons/{personId}/formT2202as/{recordId}",
		ethos.Route{Version: "2", MediaType: ethos.MediaTypeEllucianPDF, Default: true, Handler: h.FormT2202a()},
		ethos.Route{Version: "1", MediaType: ethos.MediaTypeEllucianPDF, Handler: h.FormT2202a()},
	)
}

// fail answers consent refusals with 401 and everything else in the
// self-service envelope.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.log.Error(op, slog.String("error", err.Error()))
	if errors.Is(err, service.ErrConsentRequired) {
		response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(service.ErrConsentRequired))
		return
	}
	response.WriteGeneralError(w, err, "")
}

// ─────────────────────────────────────────────────────────────────────────────
// Form1098 handles GET /persons/{personId}/form1098ts/{recordId}
//
// Only v2 lets the institution's bypass consent setting apply.
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) Form1098(allowBypass bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personID, recordID := r.PathValue("personId"), r.PathValue("recordId")
		h.log.Info("rendering a 1098-T", slog.String("personId", personID), slog.String("recordId", recordID))

		doc, err := h.svc.Form1098Pdf(r.Context(), personID, recordID, allowBypass)
		if err != nil {
			h.fail(w, "render 1098-T", err)
			return
		}
		if err := response.WritePDF(w, "TaxForm1098_"+recordID+".pdf", doc); err != nil {
			h.log.Error("write 1098-T", slog.String("error", err.Error()))
		}
	}
}

// FormT2202a handles GET /persons/{personId}/formT2202as/{recordId}
func (h *Handler) FormT2202a() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personID, recordID := r.PathValue("personId"), r.PathValue("recordId")
		h.log.Info("rendering a T2202A", slog.String("personId", personID), slog.String("recordId", recordID))

		doc, err := h.svc.FormT2202aPdf(r.Context(), personID, recordID)
		if err != nil {
			h.fail(w, "render T2202A", err)
			return
		}
		if err := response.WritePDF(w, "TaxFormT2202a_"+recordID+".pdf", doc); err != nil {
			h.log.Error("write T2202A", slog.String("error", err.Error()))
		}
	}
}
