package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/copydesk/copydesk/internal/api/handlers"
	"github.com/copydesk/copydesk/internal/api/middleware"
	"github.com/copydesk/copydesk/internal/config"
	"github.com/copydesk/copydesk/internal/database"
	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/llm"
	"github.com/copydesk/copydesk/internal/repository"
	"github.com/copydesk/copydesk/internal/server"
	"github.com/copydesk/copydesk/internal/service"
	"github.com/copydesk/copydesk/internal/telemetry"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the copydesk API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	workspaceRepo := repository.NewWorkspaceRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	patternRepo := repository.NewPatternRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	authValidator, err := service.NewStaticTokenValidator(cfg.APITokens)
	if err != nil {
		return fmt.Errorf("failed to load api tokens: %w", err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to configure embedder: %w", err)
	}
	cache := service.NewMemoryVectorCache()

	hierarchy := service.NewHierarchyResolver(workspaceRepo)
	searchSvc := service.NewKnowledgeSearchService(chunkRepo, hierarchy, embedder, cache)
	if err := searchSvc.LoadCache(ctx); err != nil {
		// Cold cache only; searches fall back to the persisted embeddings.
		log.Printf("vector cache warmup failed: %v", err)
	} else {
		log.Printf("vector cache warmed (%d vectors)", cache.Len())
	}

	workspaceSvc := service.NewWorkspaceService(workspaceRepo)
	documentSvc := service.NewDocumentService(workspaceRepo, documentRepo, chunkRepo, txRunner, embedder, cache)
	patternSvc := service.NewPatternService(patternRepo)
	assembler := service.NewContextAssembler(searchSvc, patternSvc)

	var generateHandler *handlers.GenerateHandler
	if cfg.HasOpenAI() {
		completer := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		generationSvc := service.NewGenerationService(assembler, completer, patternSvc)
		generateHandler = handlers.NewGenerateHandler(generationSvc, workspaceSvc)
	} else {
		generateHandler = handlers.NewGenerateHandler(&NoOpGenerationService{}, workspaceSvc)
	}

	routerCfg := server.RouterConfig{
		AuthValidator:    authValidator,
		WorkspaceHandler: handlers.NewWorkspaceHandler(workspaceSvc),
		DocumentHandler:  handlers.NewDocumentHandler(documentSvc, workspaceSvc),
		PatternHandler:   handlers.NewPatternHandler(patternSvc),
		SearchHandler:    handlers.NewSearchHandler(searchSvc, workspaceSvc),
		GenerateHandler:  generateHandler,
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

var _ middleware.AuthValidator = (*service.StaticTokenValidator)(nil)

type NoOpGenerationService struct{}

func (s *NoOpGenerationService) Generate(ctx context.Context, input service.GenerateInput) (*service.GenerateOutput, error) {
	return nil, domain.NewDomainError(domain.ErrCodeUnavailable, "generation not configured: OPENAI_API_KEY required")
}

func runMigrations(databaseURL string) error {
	// golang-migrate wants a database/sql handle
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
