package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/directory"
	"quill/internal/domain/repositories"
	"quill/internal/handler"
	"quill/internal/middleware"
	"quill/internal/policy"
	"quill/internal/repository/dynamo"
	"quill/internal/repository/memory"
	"quill/internal/repository/postgres"
	"quill/internal/service"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/verifiedpermissions"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage_driver", cfg.StorageDriver,
	)

	// Token verification against the user pool's JWKS
	verifier, err := auth.NewTokenVerifier(cfg.JWKSURL, cfg.Issuer, logger)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	defer verifier.Close()

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	// External collaborators: identity directory and policy store
	dir := directory.NewCognitoDirectory(
		cognitoidentityprovider.NewFromConfig(awsCfg),
		cfg.UserPoolID,
		logger,
	)
	store := policy.NewAVPStore(
		verifiedpermissions.NewFromConfig(awsCfg),
		cfg.PolicyStoreID,
		logger,
	)

	// Notebook storage
	var notebookRepo repositories.NotebookRepository
	switch cfg.StorageDriver {
	case config.StorageDynamoDB:
		notebookRepo = dynamo.NewNotebookRepository(
			dynamodb.NewFromConfig(awsCfg),
			cfg.NotebooksTable,
			logger,
		)
	case config.StoragePostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()
		notebookRepo = postgres.NewNotebookRepository(pool, cfg.NotebooksTable)
	case config.StorageMemory:
		notebookRepo = memory.NewSeededRepository(memory.SeedNotebooks())
	default:
		log.Fatalf("Unknown storage driver %q", cfg.StorageDriver)
	}

	logger.Info("storage initialized", "driver", cfg.StorageDriver)

	// Services
	notebookService := service.NewNotebookService(notebookRepo, logger)
	sharingService := service.NewSharingService(notebookRepo, dir, store, logger)

	// Handlers
	notebookHandler := handler.NewNotebookHandler(notebookService, logger)
	sharingHandler := handler.NewSharingHandler(sharingService, store, logger)

	logger.Info("services initialized")

	authorize := middleware.NewAuthorizer(store, logger)

	mux := http.NewServeMux()

	// Notebook routes, each gated on its policy-store action
	mux.HandleFunc("GET /notebooks", authorize.Require(policy.ActionListNotebooks, notebookHandler.ListNotebooks))
	mux.HandleFunc("POST /notebooks", authorize.Require(policy.ActionCreateNotebook, notebookHandler.CreateNotebook))
	mux.HandleFunc("GET /notebooks/{id}", authorize.Require(policy.ActionReadNotebook, notebookHandler.GetNotebook))
	mux.HandleFunc("PUT /notebooks/{id}", authorize.Require(policy.ActionPutNotebook, notebookHandler.UpdateNotebook))
	mux.HandleFunc("DELETE /notebooks/{id}", authorize.Require(policy.ActionDeleteNotebook, notebookHandler.DeleteNotebook))

	// Sharing routes; the share handler runs its own policy check against the
	// notebook id carried in the request body
	mux.HandleFunc("PUT /share-notebook", sharingHandler.ShareNotebook)
	mux.HandleFunc("GET /get-acl/{id}", sharingHandler.GetACL)
	mux.HandleFunc("GET /shared-with-me", sharingHandler.SharedWithMe)

	// Build middleware chain; wrapping order is CORS, recovery, auth, routes
	var apiHandler http.Handler = mux
	apiHandler = middleware.Auth(verifier, cfg.UserPoolID)(apiHandler)
	apiHandler = middleware.Recovery(logger)(apiHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	apiHandler = corsHandler.Handler(apiHandler)

	// Health stays outside the auth chain
	root := http.NewServeMux()
	root.HandleFunc("GET /health", notebookHandler.HealthCheck)
	root.Handle("/", apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
