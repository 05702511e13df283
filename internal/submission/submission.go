// Package submission sequences a form submission: normalize, validate, render, persist, archive
// and announce. Nothing is written before the form has rendered, and a form whose PDF could not
// be archived is removed again.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
	"github.com/bosk-dev/work-hours/backend/internal/notify"
	"github.com/bosk-dev/work-hours/backend/internal/storage"
	"github.com/bosk-dev/work-hours/backend/internal/utils"
	"github.com/bosk-dev/work-hours/backend/internal/workhours"
)

var ErrStorage = errors.New("object storage failure")

type Store interface {
	CreateForm(ctx context.Context, f *domain.FormRecord) error
	SetFormPDFKey(ctx context.Context, f *domain.FormRecord, key string) error
	UpdateFormStatus(ctx context.Context, f *domain.FormRecord) error
	DeleteForm(ctx context.Context, id string) error
}

type Renderer interface {
	Render(template []byte, rec *domain.FormRecord) ([]byte, error)
}

type Deps struct {
	Normalizer *workhours.Normalizer
	Renderer   Renderer
	Template   []byte
	Store      Store
	Objects    storage.ObjectStore
	Publisher  notify.Publisher
	Logger     *slog.Logger

	// Prefix is prepended to every object key, e.g. "work-hours-forms/".
	Prefix        string
	UploadTimeout time.Duration
}

type Service struct {
	Deps
}

func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Normalizer == nil {
		deps.Normalizer = workhours.NewNormalizer(deps.Logger)
	}
	if deps.Publisher == nil {
		deps.Publisher = notify.NopPublisher{}
	}
	if deps.UploadTimeout <= 0 {
		deps.UploadTimeout = 30 * time.Second
	}
	return &Service{Deps: deps}
}

type Result struct {
	Form     *domain.FormRecord
	FileName string
	PDF      []byte
}

// Preview renders the form without storing anything. Missing fields are simply left blank.
func (s *Service) Preview(in *domain.FormInput) ([]byte, error) {
	rec := s.Normalizer.Form(in)
	return s.Renderer.Render(s.Template, rec)
}

func (s *Service) Submit(ctx context.Context, in *domain.FormInput) (*Result, error) {
	rec := s.Normalizer.Form(in)
	if err := utils.ValidateFormRecord(rec); err != nil {
		return nil, err
	}

	pdf, err := s.Renderer.Render(s.Template, rec)
	if err != nil {
		return nil, err
	}

	if err := s.Store.CreateForm(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save form: %w", err)
	}

	fileName := storage.FileName(rec.EmployeeName, rec.ID)
	key := storage.ObjectKey(s.Prefix, rec.EmployeeName, rec.ID)

	uploadCtx, cancel := context.WithTimeout(ctx, s.UploadTimeout)
	err = s.Objects.Put(uploadCtx, key, pdf, storage.PDFContentType)
	cancel()
	if err != nil {
		s.discard(ctx, rec.ID, "")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if err := s.Store.SetFormPDFKey(ctx, rec, key); err != nil {
		s.discard(ctx, rec.ID, key)
		return nil, fmt.Errorf("failed to save pdf key: %w", err)
	}

	s.Logger.Info("form submitted", "formId", rec.ID, "employee", rec.EmployeeName, "pdfKey", key)
	s.publish(ctx, domain.NewFormEvent(domain.EventFormSubmitted, rec, workhours.TotalHours(rec.Schedule)))

	return &Result{Form: rec, FileName: fileName, PDF: pdf}, nil
}

// discard removes a form whose archive step failed. The request context may already be done,
// so the delete runs on a detached one.
func (s *Service) discard(ctx context.Context, id, orphanKey string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.UploadTimeout)
	defer cancel()

	if err := s.Store.DeleteForm(ctx, id); err != nil {
		s.Logger.Error("failed to remove unarchived form", "formId", id, "error", err)
	}
	if orphanKey != "" {
		s.Logger.Warn("orphaned pdf left in object storage", "formId", id, "pdfKey", orphanKey)
	}
}

// ChangeStatus moves f to status. Concurrent changes are detected through f.Version; the store
// reports them as sql.ErrNoRows and f is left untouched.
func (s *Service) ChangeStatus(ctx context.Context, f *domain.FormRecord, status domain.Status) error {
	if !status.Valid() {
		return &utils.ValidationError{Field: "status", Message: fmt.Sprintf("must be one of %v", domain.Statuses)}
	}
	if f.Status == status {
		return nil
	}

	previous := f.Status
	f.Status = status
	if err := s.Store.UpdateFormStatus(ctx, f); err != nil {
		f.Status = previous
		return err
	}

	s.Logger.Info("form status changed", "formId", f.ID, "from", previous, "to", status)

	ev := domain.NewFormEvent(domain.EventStatusChanged, f, workhours.TotalHours(f.Schedule))
	ev.PreviousStatus = previous
	s.publish(ctx, ev)

	return nil
}

func (s *Service) publish(ctx context.Context, ev domain.FormEvent) {
	if err := s.Publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.Logger.Error("failed to publish form event", "type", ev.Type, "formId", ev.FormID, "error", err)
	}
}
