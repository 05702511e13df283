package handler

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/bosk-dev/work-hours/backend/internal/config"
	"github.com/bosk-dev/work-hours/backend/internal/domain"
	"github.com/bosk-dev/work-hours/backend/internal/repository"
	"github.com/bosk-dev/work-hours/backend/internal/storage"
	"github.com/bosk-dev/work-hours/backend/internal/submission"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/rs/cors"
)

type FormService interface {
	Preview(in *domain.FormInput) ([]byte, error)
	Submit(ctx context.Context, in *domain.FormInput) (*submission.Result, error)
	ChangeStatus(ctx context.Context, f *domain.FormRecord, status domain.Status) error
}

type FormRepository interface {
	GetFormByID(ctx context.Context, id string) (*domain.FormRecord, error)
	ListForms(ctx context.Context, filter repository.ListFilter) ([]domain.FormSummary, error)
	Ping(ctx context.Context) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository FormRepository
	forms      FormService
	objects    storage.ObjectStore
	translator ut.Translator

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo FormRepository, forms FormService, objects storage.ObjectStore) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// report json field names in messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		forms:      forms,
		objects:    objects,
		translator: trans,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) cors() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: h.config.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			"X-Request-ID",
		},
		MaxAge: 300,
	}).Handler
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(h.cors())
	h.Mux.Use(h.limitBody)

	h.Mux.Get("/", h.Root)
	h.Mux.Get("/healthz", h.Healthz)

	// form app
	h.Mux.Post("/generate-pdf", h.GeneratePDF)
	h.Mux.Post("/submit-form", h.SubmitForm)

	// dashboard
	h.Mux.Route("/submission", func(r chi.Router) {
		r.Get("/", h.ListSubmissions)
		r.Get("/export", h.ExportSubmissions)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.formRecord)
			r.Get("/", h.GetSubmission)
			r.Patch("/status", h.UpdateSubmissionStatus)
			r.Delete("/", h.DeleteSubmission)
		})
	})
	h.Mux.Get("/form-pdf-url/{filename}", h.GetFormPDFURL)
}
