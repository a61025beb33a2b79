package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/username/shiprecon/src/config"
	"github.com/username/shiprecon/src/handlers"
	"github.com/username/shiprecon/src/logger"
	"github.com/username/shiprecon/src/processors"
	"github.com/username/shiprecon/src/security"
	"github.com/username/shiprecon/src/services"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

// buildDirectory returns the cached directory client, or the configuration
// error that prevents building one.
func buildDirectory(cfg *config.AppConfig) (services.DirectoryService, services.Directory, error) {
	auth, err := security.NewDirectoryAuthorizer(cfg)
	if err != nil {
		return nil, nil, err
	}
	client := services.NewDirectoryService(cfg, auth)
	return client, services.NewCachedDirectory(client, cfg.LookupCacheTTL), nil
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Shiprecon server starting...")

	logger.L.Info("Initializing directory client...", "base", config.Cfg.DirectoryBaseURL, "authMode", config.Cfg.EffectiveAuthMode())
	directoryClient, directory, directoryErr := buildDirectory(config.Cfg)
	if directoryErr != nil {
		logger.L.Error("Directory configuration invalid, reconciliation disabled", "error", directoryErr)
	}

	logger.L.Info("Initializing services and handlers...")
	var reconcileService services.ReconcileService
	if directoryErr == nil {
		reconcileService = services.NewReconcileService(
			directory,
			processors.NewDecisionProcessor(config.Cfg.PolicyWindowDays),
			processors.NewArbitrationProcessor(),
			config.Cfg.LookupWorkers,
		)
	}
	reconcileHandler := handlers.NewReconcileHandler(reconcileService, directoryErr, config.Cfg.MaxUploadSizeBytes)
	diagHandler := handlers.NewDiagHandler(directoryClient, directoryErr, config.Cfg.DirectoryBaseURL)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/reconcile", reconcileHandler.HandleReconcile)
	apiRouter.HandleFunc("GET /api/diag/directory", diagHandler.HandleDirectoryDiag)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Shiprecon backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := handlers.CORS(config.Cfg.AllowedOrigins)(handlers.RateLimit(limiter)(handlers.RequestLogger(rootMux)))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
