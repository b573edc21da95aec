// Package httpapi exposes the template gallery, previews and patient search
// over HTTP with fiber.
package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/goliatone/go-formtemplate/pkg/catalog"
	"github.com/goliatone/go-formtemplate/pkg/orchestrator"
	"github.com/goliatone/go-formtemplate/pkg/patients"
	"github.com/goliatone/go-formtemplate/pkg/query"
	"github.com/goliatone/go-formtemplate/pkg/render"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

// ErrPatientsDisabled is returned by patient routes when no store is wired.
var ErrPatientsDisabled = errors.New("httpapi: patient store not configured")

// Option customises a Server.
type Option func(*Server)

// WithLogger routes request logs to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPatients enables the patient routes.
func WithPatients(store *patients.Store) Option {
	return func(s *Server) {
		s.patients = store
	}
}

// WithRecentCutoff sets the default date splitting the recent and overdue
// patient chips.
func WithRecentCutoff(cutoff string) Option {
	return func(s *Server) {
		s.cutoff = cutoff
	}
}

// Server is the HTTP front end.
type Server struct {
	app      *fiber.App
	orch     *orchestrator.Orchestrator
	patients *patients.Store
	logger   *zap.Logger
	cutoff   string
}

// New builds the fiber app and registers every route.
func New(orch *orchestrator.Orchestrator, options ...Option) *Server {
	if orch == nil {
		orch = orchestrator.New()
	}
	s := &Server{
		orch:   orch,
		logger: zap.NewNop(),
		cutoff: patients.DefaultCutoff,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "formtpl",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(s.requestLogger)
	s.routes()
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until the context is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app.Get("/templates", s.listTemplates)
	s.app.Get("/templates/:id", s.getTemplate)
	s.app.Get("/templates/:id/questions", s.templateQuestions)
	s.app.Post("/templates/:id/preview", s.previewTemplate)
	s.app.Get("/templates/:id/schema", s.templateSchema)
	s.app.Get("/openapi.json", s.openAPIDocument)

	s.app.Get("/community", s.listCommunity)
	s.app.Get("/community/:id", s.getCommunity)

	s.app.Get("/facets", s.facets)

	s.app.Get("/patients", s.searchPatients)
	s.app.Get("/patients/:id", s.getPatient)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = statusFor(err)
		}
	}
	s.logger.Debug("http request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(start)),
	)
	return err
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	var invalid *template.ValidationError
	switch {
	case errors.Is(err, query.ErrInvalidSortKey),
		errors.Is(err, render.ErrRendererNotFound),
		errors.As(err, &invalid):
		return fiber.StatusBadRequest
	case errors.Is(err, catalog.ErrTemplateNotFound),
		errors.Is(err, patients.ErrPatientNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, catalog.ErrCatalogUnavailable),
		errors.Is(err, ErrPatientsDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
