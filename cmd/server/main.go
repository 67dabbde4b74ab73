package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"cognicard/internal/auth"
	"cognicard/internal/config"
	"cognicard/internal/handler"
	"cognicard/internal/metrics"
	"cognicard/internal/middleware"
	"cognicard/internal/repository/postgres"
	postgresLibrary "cognicard/internal/repository/postgres/library"
	serviceAuth "cognicard/internal/service/auth"
	serviceLibrary "cognicard/internal/service/library"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging, optionally teeing into a rotated log file
	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}
	logger := config.NewLogger(cfg.Environment, logOutput)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	logger.Info("database connected",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgresLibrary.NewFolderRepository(repoConfig)
	deckRepo := postgresLibrary.NewDeckRepository(repoConfig)
	cardRepo := postgresLibrary.NewCardRepository(repoConfig)
	attemptRepo := postgresLibrary.NewAttemptRepository(repoConfig)
	searchRepo := postgresLibrary.NewSearchRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Ownership checks shared by every service
	authorizer := serviceAuth.NewOwnerBasedAuthorizer(folderRepo, deckRepo, cardRepo)

	m := metrics.NewMetrics()

	// Create services
	folderService := serviceLibrary.NewFolderService(folderRepo, txManager, authorizer, m, logger)
	deckService := serviceLibrary.NewDeckService(deckRepo, txManager, authorizer, m, logger)
	treeService := serviceLibrary.NewTreeService(folderRepo, deckRepo, logger)
	cardService := serviceLibrary.NewCardService(cardRepo, txManager, authorizer, m, logger)
	studyService := serviceLibrary.NewStudyService(attemptRepo, authorizer, m, logger)
	searchService := serviceLibrary.NewSearchService(searchRepo, authorizer, logger)

	// Create handlers
	handlers := &handler.Handlers{
		Folders: handler.NewFolderHandler(folderService, logger),
		Decks:   handler.NewDeckHandler(deckService, logger),
		Tree:    handler.NewTreeHandler(treeService, logger),
		Cards:   handler.NewCardHandler(cardService, logger),
		Import:  handler.NewImportHandler(cardService, logger),
		Study:   handler.NewStudyHandler(studyService, logger),
		Search:  handler.NewSearchHandler(searchService, logger),
	}

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handlers.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, m, logger)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestLogger → Recovery → Auth → RateLimit → Routes
	h = rateLimiter.Middleware(h)
	h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger, m, mux)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Shut down cleanly on SIGINT/SIGTERM
	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
