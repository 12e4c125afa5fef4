package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-converter/internal/conversions"
	"resume-converter/internal/ocr"
	"resume-converter/internal/shared/config"
	"resume-converter/internal/shared/server"
	"resume-converter/internal/shared/storage/db"
	"resume-converter/internal/shared/storage/object"
	localstore "resume-converter/internal/shared/storage/object/local"
	s3store "resume-converter/internal/shared/storage/object/s3"
	"resume-converter/internal/shared/telemetry"
	"resume-converter/internal/spool"
)

// App holds shared dependencies.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Store             object.ObjectStore
	ConversionsRepo   conversions.ConversionsRepo
	ConversionService *conversions.Service
	ConversionHandler *conversions.Handler
}

// Build prepares dependencies and the router. engine performs OCR for
// images and scanned PDFs.
func Build(cfg config.Config, engine ocr.Engine) (*App, error) {
	cfg = config.Normalize(cfg)
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var store object.ObjectStore
	if cfg.DocxEnabled {
		store, err = buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	buildServices(app, engine)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:   app.Config,
		Handlers: []server.RouteRegistrar{app.ConversionHandler},
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":           cfg.Env,
		"docx_enabled":  cfg.DocxEnabled,
		"object_store":  cfg.ObjectStoreType,
		"output_dir":    cfg.OutputDir,
		"temp_dir":      cfg.TempDir,
		"ocr_languages": cfg.OCRLanguages,
		"database":      sqlDB != nil,
	})
	return app, nil
}

// buildDB connects and migrates when DATABASE_URL is set. Outside production a
// failure falls back to the in-memory conversion log.
func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("database: %w", err)
		}
		telemetry.Warn("bootstrap.db.fallback", map[string]any{"err": err})
		return nil, nil
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.OutputDir)
	}
}

func buildServices(app *App, engine ocr.Engine) {
	var repo conversions.ConversionsRepo
	if app.DB != nil {
		repo = &conversions.PGRepo{DB: app.DB}
	} else {
		repo = conversions.NewMemoryRepo()
	}

	svc := &conversions.Service{
		Spool:       spool.New(app.Config.TempDir),
		OCR:         ocr.NewAdapter(engine, app.Config.Languages()),
		Store:       app.Store,
		Repo:        repo,
		DocxEnabled: app.Config.DocxEnabled,
	}

	app.ConversionsRepo = repo
	app.ConversionService = svc
	app.ConversionHandler = conversions.NewHandler(svc, app.Config.MaxUploadBytes)
}
