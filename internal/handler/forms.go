package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
	"github.com/bosk-dev/work-hours/backend/internal/export"
	"github.com/bosk-dev/work-hours/backend/internal/formpdf"
	"github.com/bosk-dev/work-hours/backend/internal/repository"
	"github.com/bosk-dev/work-hours/backend/internal/storage"
	"github.com/bosk-dev/work-hours/backend/internal/utils"
	"github.com/bosk-dev/work-hours/backend/internal/workhours"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (h *Handler) readFormInput(w http.ResponseWriter, r *http.Request) (*domain.FormInput, bool) {
	var in domain.FormInput
	if err := h.readJSON(r, &in); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}
	if err := h.validate.Struct(in); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}
	return &in, true
}

// formError maps the errors of rendering and submitting a form to responses.
func (h *Handler) formError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *utils.ValidationError
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &validationErr):
		h.badRequest(w, r, err)
	case formpdf.IsKind(err, formpdf.KindInvalidSignature):
		h.badRequest(w, r, errors.New("signature is not a valid image"))
	case errors.As(err, &pgErr):
		switch pgErr.ConstraintName {
		case "forms_status_check":
			h.badRequest(w, r, errors.New("status is not allowed"))
		case "forms_service_week_check":
			h.badRequest(w, r, errors.New("service week ends before it starts"))
		default:
			h.internalServerError(w, r, err)
		}
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readFormInput(w, r)
	if !ok {
		return
	}

	pdf, err := h.forms.Preview(in)
	if err != nil {
		h.formError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=preview.pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readFormInput(w, r)
	if !ok {
		return
	}

	res, err := h.forms.Submit(r.Context(), in)
	if err != nil {
		h.formError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusCreated, "form submitted", map[string]any{
		"formId":    res.Form.ID,
		"filename":  res.FileName,
		"pdfKey":    res.Form.PDFKey,
		"createdAt": res.Form.CreatedAt,
	})
}

func (h *Handler) listFilter(w http.ResponseWriter, r *http.Request) (repository.ListFilter, bool) {
	var req struct {
		Status         string `json:"status" validate:"omitempty,oneof=pending approved confirmed deleted"`
		IncludeDeleted bool
	}
	req.Status = r.URL.Query().Get("status")
	req.IncludeDeleted = r.URL.Query().Get("includeDeleted") == "1"

	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return repository.ListFilter{}, false
	}

	return repository.ListFilter{
		Status:         domain.Status(req.Status),
		IncludeDeleted: req.IncludeDeleted,
	}, true
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.listFilter(w, r)
	if !ok {
		return
	}

	forms, err := h.repository.ListForms(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "forms fetched", forms)
}

func (h *Handler) ExportSubmissions(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.listFilter(w, r)
	if !ok {
		return
	}

	forms, err := h.repository.ListForms(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	buf, fileName, err := export.WorkLog(forms, time.Now())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) presignExpiration() time.Duration {
	return time.Duration(h.config.Storage.PresignExpiration) * time.Second
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	form := r.Context().Value(FormCtxKey).(*domain.FormRecord)

	resp := struct {
		Form       *domain.FormRecord     `json:"form"`
		Schedule   []domain.ScheduleEntry `json:"schedule"`
		TotalHours float64                `json:"totalHours"`
		PreviewURL string                 `json:"previewUrl,omitempty"`
	}{
		Form:       form,
		Schedule:   form.Schedule,
		TotalHours: workhours.TotalHours(form.Schedule),
	}

	if r.URL.Query().Get("includeUrl") == "1" && form.PDFKey != "" {
		url, err := h.objects.PresignGet(r.Context(), form.PDFKey, h.presignExpiration())
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		resp.PreviewURL = url
	}

	h.successResponse(w, r, http.StatusOK, "form fetched", resp)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, status domain.Status) {
	form := r.Context().Value(FormCtxKey).(*domain.FormRecord)

	if err := h.forms.ChangeStatus(r.Context(), form, status); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r, "the form was changed by someone else, reload and try again")
		default:
			h.formError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, http.StatusOK, "form status updated", form)
}

func (h *Handler) UpdateSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status" validate:"required,oneof=pending approved confirmed deleted"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.changeStatus(w, r, domain.Status(req.Status))
}

// DeleteSubmission hides a form from the work log. The record and its PDF are kept.
func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, domain.StatusDeleted)
}

func (h *Handler) GetFormPDFURL(w http.ResponseWriter, r *http.Request) {
	key, err := storage.KeyForFileName(h.config.Storage.Prefix, chi.URLParam(r, "filename"))
	if err != nil {
		h.badRequest(w, r, errors.New("invalid file name"))
		return
	}

	url, err := h.objects.PresignGet(r.Context(), key, h.presignExpiration())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "url generated", map[string]any{
		"url":       url,
		"expiresIn": h.config.Storage.PresignExpiration,
	})
}
