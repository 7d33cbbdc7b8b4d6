package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"gigmarket/internal/adapter/api"
	"gigmarket/internal/adapter/api/handler"
	apimiddleware "gigmarket/internal/adapter/api/middleware"
	"gigmarket/internal/adapter/api/router"
	"gigmarket/internal/adapter/repository"
	"gigmarket/internal/infrastructure/authstate"
	"gigmarket/internal/infrastructure/firebase"
	"gigmarket/internal/infrastructure/payment"
	"gigmarket/internal/infrastructure/ratelimit"
	"gigmarket/internal/infrastructure/storage"
	"gigmarket/internal/infrastructure/websocket"
	"gigmarket/internal/usecase"
	"gigmarket/pkg/config"
	"gigmarket/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt, err := credentials(cfg)
	if err != nil {
		log.Fatalf("Failed to load Firebase credentials: %v", err)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:     cfg.FirebaseProject,
		StorageBucket: cfg.StorageBucket,
	}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	messagingClient, err := firebaseApp.Messaging(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Messaging: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.AllowedOrigin, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	checks := map[string]handler.HealthCheck{
		"firestore": func(ctx context.Context) error {
			_, err := firestoreClient.Collection("postings").Limit(1).Documents(ctx).Next()
			if errors.Is(err, iterator.Done) {
				return nil
			}
			return err
		},
	}

	var hub *authstate.Hub
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(redisOpts)
		defer rdb.Close()

		hub, err = authstate.NewRedisHub(ctx, rdb)
		if err != nil {
			log.Fatalf("Failed to subscribe to Redis: %v", err)
		}
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	} else {
		hub = authstate.NewHub()
	}
	defer hub.Close()

	profileRepo := repository.NewFirestoreProfileRepository(firestoreClient)
	postingRepo := repository.NewFirestorePostingRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)
	locationRepo := repository.NewFirestoreLocationRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	tokenRepo := repository.NewFirestoreDeviceTokenRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)
	pushClient := firebase.NewMessagingClient(messagingClient)
	checkout := payment.NewStripeCheckout(cfg.StripeSecretKey)

	limiter := ratelimit.NewRateLimiter(cfg.RateLimitPerMinute)
	limiter.StartCleanupRoutine(ctx)

	wsManager := websocket.NewManager()

	authUseCase := usecase.NewAuthUseCase(profileRepo, firebaseAuthClient, hub, cfg.DefaultProfileImageURL)
	profileUseCase := usecase.NewProfileUseCase(profileRepo, reviewRepo, postingRepo, storageClient, hub, cfg.DefaultProfileImageURL)
	postingUseCase := usecase.NewPostingUseCase(postingRepo, storageClient)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, profileRepo)
	chatUseCase := usecase.NewChatUseCase(messageRepo, profileRepo, tokenRepo, pushClient, limiter)
	friendUseCase := usecase.NewFriendUseCase(profileRepo)
	locationUseCase := usecase.NewLocationUseCase(locationRepo)
	purchaseUseCase := usecase.NewPurchaseUseCase(checkout, postingRepo, orderRepo, cfg.PostingsURL())

	handler.Setup(authUseCase, profileUseCase, postingUseCase, reviewUseCase, chatUseCase, friendUseCase, locationUseCase, purchaseUseCase)
	handler.GetAuthHandler().WithSockets(wsManager)
	handler.GetChatHandler().WithSockets(wsManager)
	handler.SetupFileHandler(storageClient)
	handler.SetupCheckoutHandler(purchaseUseCase)
	handler.SetupWebSocketHandler(wsManager, chatUseCase, hub, cfg.AllowedOrigin)
	handler.SetupHealthHandler(checks)

	e := echo.New()
	e.HideBanner = true
	e.Debug = !cfg.IsProduction()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.AllowedOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit("8M"))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)
	router.Setup(e, authMiddleware, apimiddleware.RateLimit(limiter, ratelimit.ActionRequest))

	go func() {
		logger.Info("Starting server on port %s (%s)", cfg.ServerPort, cfg.Environment)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown: %v", err)
	}

	// Let pending push notifications finish before the clients close.
	chatUseCase.Wait()
}

func credentials(cfg *config.Config) (option.ClientOption, error) {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON)), nil
	}

	path := cfg.FirebaseServiceAccountPath
	if path == "" {
		path = "./serviceAccountKey.json"
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	logger.Info("Using Firebase service account from file: %s", path)
	return option.WithCredentialsFile(path), nil
}
