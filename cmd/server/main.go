package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courier/auth"
	"courier/internal"
	"courier/moderation"
	"courier/repositories"
	"courier/server"
	"courier/services"
	"courier/storage"

	env "github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so deferred cleanup (database close,
// sequence release) always executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	replacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories
	userRepository, err := repositories.NewUserRepository(db)
	if err != nil {
		return err
	}
	defer func() { _ = userRepository.Close() }()

	groupRepository, err := repositories.NewGroupRepository(db)
	if err != nil {
		return err
	}
	defer func() { _ = groupRepository.Close() }()

	messageRepository := repositories.NewMessageRepository(db)

	// 4. Collaborators & Services
	moderator, err := moderation.NewModerator(internal.SplitList(config.CensoredWords), replacement)
	if err != nil {
		return fmt.Errorf("moderator setup failed: %w", err)
	}
	objectStore := storage.NewDiskStore(config.UploadDir, config.PublicBaseURL, log)
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	hasher := auth.NewHasher()

	authService := services.NewAuthService(userRepository, hasher, tokens)
	userService := services.NewUserService(userRepository, objectStore)
	groupService := services.NewGroupService(groupRepository)
	messageService := services.NewMessageService(
		userRepository, groupRepository, messageRepository, objectStore, moderator, log,
	)

	// 5. HTTP server
	router := server.NewRouter(
		tokens,
		internal.SplitList(config.AllowedOrigins),
		server.NewAuthHandler(authService, log),
		server.NewUserHandler(userService, log, config.MaxUploadBytes),
		server.NewMessageHandler(messageService, groupService, log, config.MaxUploadBytes),
	)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Info("Program stopped cleanly")

	return nil
}
