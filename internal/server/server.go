package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"linkedout/internal/engine"
	"linkedout/internal/engine/auth"
	"linkedout/internal/logger"
	"linkedout/internal/repo"
	linkedoutsdk "linkedout/sdk/go"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	BasePath string
	Logger   *zap.Logger
}

// apiError is the failure envelope every endpoint answers with.
type apiError struct {
	status  int
	Success bool                           `json:"success"`
	Message string                         `json:"message"`
	Errors  []linkedoutsdk.ValidationError `json:"errors,omitempty"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Message }

func newAPIError(status int, message string, fields []linkedoutsdk.ValidationError) huma.StatusError {
	return &apiError{status: status, Message: message, Errors: fields}
}

// envelope is the success envelope.
type envelope[T any] struct {
	Body linkedoutsdk.Envelope[T]
}

func reply[T any](data T, message string) *envelope[T] {
	out := &envelope[T]{Body: linkedoutsdk.Envelope[T]{Success: true, Data: &data}}
	if message != "" {
		out.Body.Message = &message
	}
	return out
}

func done(message string) *envelope[json.RawMessage] {
	return &envelope[json.RawMessage]{Body: linkedoutsdk.Envelope[json.RawMessage]{Success: true, Message: &message}}
}

// New returns an HTTP handler exposing the LinkedOut API under BasePath and
// signed file downloads under /files.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/api"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	if basePath == "" {
		return nil, errors.New("base path must not be the root")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	huma.DefaultArrayNullable = false
	// Override Huma errors to use the envelope.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(requestStatus(status), msg, validationErrors(errs))
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(requestStatus(status), msg, validationErrors(errs))
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(log))
	router.Use(newAuthMiddleware(basePath, cfg.Engine.Auth))
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondStatusError(w, newAPIError(http.StatusNotFound, "Route not found", nil))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondStatusError(w, newAPIError(http.StatusMethodNotAllowed, "Method not allowed", nil))
	})

	hcfg := huma.DefaultConfig("LinkedOut API", "1.0.0")
	hcfg.OpenAPIPath = ""
	hcfg.DocsPath = ""
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	registerAuth(group, cfg.Engine)
	registerRecruiterJobs(group, cfg.Engine)
	registerApplications(group, cfg.Engine)
	registerSeekerJobs(group, cfg.Engine)
	registerFiles(router, group, basePath, cfg.Engine)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

// requestStatus reports schema validation failures as 400.
func requestStatus(status int) int {
	if status == http.StatusUnprocessableEntity {
		return http.StatusBadRequest
	}
	return status
}

// validationErrors converts Huma error details such as body.email into field errors.
func validationErrors(errs []error) []linkedoutsdk.ValidationError {
	var out []linkedoutsdk.ValidationError
	for _, err := range errs {
		d, ok := err.(huma.ErrorDetailer)
		if !ok {
			continue
		}
		detail := d.ErrorDetail()
		location, param, _ := strings.Cut(detail.Location, ".")
		out = append(out, linkedoutsdk.ValidationError{Msg: detail.Message, Param: param, Location: location})
	}
	return out
}

func handleError(ctx context.Context, err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var se huma.StatusError
	if errors.As(err, &se) {
		return se
	}
	var ve engine.ValidationError
	if errors.As(err, &ve) {
		return newAPIError(http.StatusBadRequest, ve.Msg, []linkedoutsdk.ValidationError{{Msg: ve.Msg, Param: ve.Param, Location: "body"}})
	}
	var fe auth.ForbiddenError
	if errors.As(err, &fe) {
		return newAPIError(http.StatusForbidden, fe.Error(), nil)
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return newAPIError(http.StatusNotFound, "Resource not found", nil)
	case errors.Is(err, engine.ErrAlreadyApplied):
		return newAPIError(http.StatusBadRequest, "You have already applied to this job", nil)
	case errors.Is(err, engine.ErrInvalidCredentials):
		return newAPIError(http.StatusUnauthorized, "Invalid email or password", nil)
	case errors.Is(err, engine.ErrEmailTaken):
		return newAPIError(http.StatusConflict, "Email is already registered", nil)
	case errors.Is(err, auth.ErrInvalidToken):
		return newAPIError(http.StatusUnauthorized, "Invalid or expired token", nil)
	}
	logger.FromContext(ctx).Error("request failed", zap.Error(err))
	return newAPIError(http.StatusInternalServerError, "Internal server error", nil)
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var (
		once sync.Once
		spec []byte
	)
	r.Get(path.Join(basePath, "openapi.json"), func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			oas := api.OpenAPI()
			applyAuthSecurity(oas, basePath)
			spec, _ = json.Marshal(oas)
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func applyAuthSecurity(oas *huma.OpenAPI, basePath string) {
	if oas == nil {
		return
	}
	if oas.Components == nil {
		oas.Components = &huma.Components{}
	}
	if oas.Components.SecuritySchemes == nil {
		oas.Components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}
	oas.Components.SecuritySchemes["bearerAuth"] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
	}
	security := []map[string][]string{{"bearerAuth": {}}}
	oas.Security = security
	public := publicPaths(basePath)
	for route, item := range oas.Paths {
		for _, op := range []*huma.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Options, item.Head, item.Patch, item.Trace,
		} {
			if op == nil {
				continue
			}
			if public[route] {
				op.Security = []map[string][]string{}
				continue
			}
			op.Security = security
		}
	}
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}
