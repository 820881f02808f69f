// Package httpapi exposes the HTTP/JSON surface of the gateway: auth
// pass-through routes, file routes guarded by bearer-token middleware, and a
// health endpoint.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/cloudfiles/internal/logging"
	"github.com/dmitrijs2005/cloudfiles/internal/server/models"
)

// UserService is the slice of the user service consumed by the API layer.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (token, username string, err error)
}

// FileService is the slice of the file service consumed by the API layer.
type FileService interface {
	Upload(ctx context.Context, ownerID, filename string, content []byte) (*models.FileRecord, error)
	List(ctx context.Context, ownerID string) ([]*models.FileRecord, error)
	Download(ctx context.Context, storageKey string) (string, error)
	Delete(ctx context.Context, storageKey string) error
}

type HTTPServer struct {
	address      string
	logger       logging.Logger
	users        UserService
	files        FileService
	jwtSecret    []byte
	uploadFolder string
	validate     *validator.Validate
}

func NewHTTPServer(address string, l logging.Logger, us UserService, fs FileService, secretKey string, uploadFolder string) *HTTPServer {
	return &HTTPServer{
		address:      address,
		logger:       l.With("module", "http_server"),
		users:        us,
		files:        fs,
		jwtSecret:    []byte(secretKey),
		uploadFolder: uploadFolder,
		validate:     validator.New(),
	}
}

// Router assembles the chi router with CORS, request logging, and the
// bearer-token group around file routes.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
	})

	r.Route("/files", func(r chi.Router) {
		r.Use(s.accessTokenMiddleware)
		r.Post("/upload", s.handleUpload)
		r.Get("/list", s.handleList)
		r.Get("/download", s.handleDownload)
		r.Delete("/delete", s.handleDelete)
	})

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
