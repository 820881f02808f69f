// Package server initializes and runs the file storage gateway: it opens the
// metadata database, applies migrations, builds the shared S3 client once,
// wires the services, and serves HTTP until an OS signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/cloudfiles/internal/filex"
	"github.com/dmitrijs2005/cloudfiles/internal/logging"
	"github.com/dmitrijs2005/cloudfiles/internal/server/config"
	"github.com/dmitrijs2005/cloudfiles/internal/server/httpapi"
	"github.com/dmitrijs2005/cloudfiles/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cloudfiles/internal/server/services"
	"github.com/dmitrijs2005/cloudfiles/internal/server/storage"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	fileService *services.FileService
}

// NewApp wires every collaborator explicitly: one database handle, one
// repository manager, one object store client, and the two services built on
// top of them. Nothing here is a package-level singleton.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := storage.NewS3Store(ctx, storage.Config{
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	if _, err := filex.EnsureSubDir(cfg.UploadFolder); err != nil {
		return nil, fmt.Errorf("upload folder init error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg)
	fs := services.NewFileService(db, rm, store, cfg)

	return &App{config: cfg, logger: logger, db: db, userService: us, fileService: fs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(
		app.config.EndpointAddr,
		app.logger,
		app.userService,
		app.fileService,
		app.config.SecretKey,
		app.config.UploadFolder,
	)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
