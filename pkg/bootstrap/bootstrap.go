package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"

	shared "github.com/ripixel/liftlog/pkg"
	"github.com/ripixel/liftlog/pkg/fuzzy"
	"github.com/ripixel/liftlog/pkg/infrastructure/database"
	infrastorage "github.com/ripixel/liftlog/pkg/infrastructure/storage"
	"github.com/ripixel/liftlog/pkg/recommend"
)

// DefaultCatalogObject is read from LIFTLOG_CATALOG_BUCKET when no object
// name is configured.
const DefaultCatalogObject = "strength_workout_names.csv"

// Config holds standard configuration for all services
type Config struct {
	ProjectID      string
	CatalogBucket  string // empty means the embedded stock catalog
	CatalogObject  string
	Location       *time.Location
	RecommendLimit int
	MinScore       float64
}

// Service holds initialized dependencies
type Service struct {
	History shared.HistoryStore
	Blobs   shared.BlobStore
	Config  *Config
	Logger  *slog.Logger
}

// LoadConfig reads configuration from environment variables. Invalid values
// are logged and replaced with their defaults.
func LoadConfig() *Config {
	cfg := &Config{
		ProjectID:      os.Getenv("GOOGLE_CLOUD_PROJECT"),
		CatalogBucket:  os.Getenv("LIFTLOG_CATALOG_BUCKET"),
		CatalogObject:  os.Getenv("LIFTLOG_CATALOG_OBJECT"),
		Location:       time.Local,
		RecommendLimit: recommend.DefaultLimit,
		MinScore:       fuzzy.DefaultMinScore,
	}
	if cfg.CatalogObject == "" {
		cfg.CatalogObject = DefaultCatalogObject
	}

	if tz := os.Getenv("LIFTLOG_TIMEZONE"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			cfg.Location = loc
		} else {
			slog.Warn("Ignoring invalid LIFTLOG_TIMEZONE", "value", tz, "error", err)
		}
	}
	if v := os.Getenv("LIFTLOG_RECOMMEND_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RecommendLimit = n
		} else {
			slog.Warn("Ignoring invalid LIFTLOG_RECOMMEND_LIMIT", "value", v)
		}
	}
	if v := os.Getenv("LIFTLOG_MIN_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.MinScore = f
		} else {
			slog.Warn("Ignoring invalid LIFTLOG_MIN_SCORE", "value", v)
		}
	}
	return cfg
}

// GetSlogHandlerOptions returns standard handler options for GCP
func GetSlogHandlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Map standard keys to Cloud Logging keys
			if a.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: a.Value}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{Key: "severity", Value: a.Value}
			}
			return a
		},
	}
}

// ComponentHandler wraps a slog.Handler to prepend [component] to the message.
// Loggers derived with With("component", ...) carry the attribute on the
// handler rather than the record, so it is tracked here as well.
type ComponentHandler struct {
	slog.Handler
	component string
}

// Handle implements slog.Handler
func (h *ComponentHandler) Handle(ctx context.Context, r slog.Record) error {
	component := h.component

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			component = a.Value.String()
			return false // stop
		}
		return true
	})

	if component != "" {
		newRecord := slog.NewRecord(r.Time, r.Level, fmt.Sprintf("[%s] %s", component, r.Message), r.PC)
		r.Attrs(func(a slog.Attr) bool {
			if a.Key != "component" {
				newRecord.AddAttrs(a)
			}
			return true
		})
		r = newRecord
	}

	return h.Handler.Handle(ctx, r)
}

// WithAttrs implements slog.Handler
func (h *ComponentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	component := h.component
	rest := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		if a.Key == "component" {
			component = a.Value.String()
			continue
		}
		rest = append(rest, a)
	}
	return &ComponentHandler{Handler: h.Handler.WithAttrs(rest), component: component}
}

// WithGroup implements slog.Handler
func (h *ComponentHandler) WithGroup(name string) slog.Handler {
	return &ComponentHandler{Handler: h.Handler.WithGroup(name), component: h.component}
}

// ParseLevel maps LOG_LEVEL values to slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger configures structured logging with Cloud Logging compatible keys
func InitLogger() {
	slog.SetDefault(NewLogger("liftlog", false))
}

// NewLogger creates a configured logger instance. Development loggers write
// text to stderr instead of JSON to stdout.
func NewLogger(serviceName string, isDev bool) *slog.Logger {
	opts := GetSlogHandlerOptions(ParseLevel(os.Getenv("LOG_LEVEL")))
	var handler slog.Handler
	if isDev {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.Level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(&ComponentHandler{Handler: handler}).With("service", serviceName)
}

// NewService initializes all standard dependencies
func NewService(ctx context.Context) (*Service, error) {
	InitLogger()
	cfg := LoadConfig()

	slog.Info("Initializing service", "project_id", cfg.ProjectID, "catalog_bucket", cfg.CatalogBucket)

	// Firestore
	fsClient, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		slog.Error("Firestore init failed", "error", err)
		return nil, fmt.Errorf("firestore init: %w", err)
	}

	// Storage, only needed for a remote catalog
	var blobs shared.BlobStore
	if cfg.CatalogBucket != "" {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			slog.Error("Storage init failed", "error", err)
			return nil, fmt.Errorf("storage init: %w", err)
		}
		blobs = &infrastorage.StorageAdapter{Client: gcsClient}
		slog.Info("Catalog: REMOTE", "bucket", cfg.CatalogBucket, "object", cfg.CatalogObject)
	} else {
		slog.Info("Catalog: EMBEDDED")
	}

	return &Service{
		History: database.NewFirestoreAdapter(fsClient),
		Blobs:   blobs,
		Config:  cfg,
		Logger:  slog.Default(),
	}, nil
}
