// Package main initializes and starts the personal-finance API server,
// setting up configuration, logging, the document store connection,
// repositories, services, and HTTP routing.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/Wendyydxiao/personalfinaceapp/internal/config"
	"github.com/Wendyydxiao/personalfinaceapp/internal/db"
	"github.com/Wendyydxiao/personalfinaceapp/internal/graph"
	"github.com/Wendyydxiao/personalfinaceapp/internal/logger"
	"github.com/Wendyydxiao/personalfinaceapp/internal/payment"
	"github.com/Wendyydxiao/personalfinaceapp/internal/repository"
	"github.com/Wendyydxiao/personalfinaceapp/internal/server/handler/http"
	"github.com/Wendyydxiao/personalfinaceapp/internal/service"
	"github.com/Wendyydxiao/personalfinaceapp/internal/token"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.TokenSecret == config.DevTokenSecret {
		zapLogger.Warn("running with the default token secret; set TOKEN_SECRET in production")
	}

	// Initialize the document store connection and indexes.
	database, err := db.InitMongo(context.Background(), options.MongoURI, options.MongoDatabase)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.Client().Disconnect(ctx)
	}()

	// Initialize repositories for users, categories, and transactions.
	userRepo := repository.NewMongoUserRepository(database)
	categoryRepo := repository.NewMongoCategoryRepository(database)
	transactionRepo := repository.NewMongoTransactionRepository(database)

	// Initialize the token service and business-logic services.
	tokens := token.New(options.TokenSecret)
	authService := service.NewAuthService(userRepo, tokens)
	financeService := service.NewFinanceService(userRepo, categoryRepo, transactionRepo, zapLogger)

	// Build the GraphQL schema over the resolvers.
	schema, err := graph.NewSchema(graph.NewResolver(authService, financeService))
	if err != nil {
		zapLogger.Fatal("cannot build schema", zap.Error(err))
	}

	// Create HTTP handlers for the API and payment endpoints.
	graphqlHandler := &http.GraphQLHandler{Schema: schema}
	paymentHandler := &http.PaymentHandler{
		Checkout:     payment.NewClient(options.PaymentAPIURL, options.PaymentSecretKey),
		ClientOrigin: options.AllowedOrigin,
		Logger:       zapLogger,
	}

	// Build the router with middleware and routes. The checkout route is
	// only mounted when a payment key is configured; static assets are
	// only served in production.
	router := http.NewRouter(graphqlHandler, paymentHandler, tokens, zapLogger, http.RouterConfig{
		AllowedOrigin: options.AllowedOrigin,
		MountPayment:  options.PaymentSecretKey != "",
		ServeStatic:   options.Production(),
		StaticDir:     options.StaticDir,
	})

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	// Shut down cleanly on SIGINT/SIGTERM.
	idle := make(chan struct{})
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			zapLogger.Error("server shutdown failed", zap.Error(err))
		}
		close(idle)
	}()

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
	<-idle
}
