package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/adilzhan-s/lostfound/internal/config"
	"github.com/adilzhan-s/lostfound/internal/database"
	"github.com/adilzhan-s/lostfound/internal/handlers"
	"github.com/adilzhan-s/lostfound/internal/repository"
	"github.com/adilzhan-s/lostfound/internal/scheduler"
	"github.com/adilzhan-s/lostfound/internal/services"
	"github.com/adilzhan-s/lostfound/pkg/email"
	"github.com/adilzhan-s/lostfound/pkg/llm"
	"github.com/adilzhan-s/lostfound/pkg/logger"
	"github.com/adilzhan-s/lostfound/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// --- Collaborators ---
	judge := llm.NewClient(cfg.LLMBaseURL, cfg.LLMToken, cfg.LLMModel)
	mailer := email.NewSenderFromEnv()

	// --- Services ---
	userService := services.NewUserService(userRepo)
	itemService := services.NewItemService(itemRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	caseService := services.NewCaseService(itemRepo, userRepo, notificationService, mailer)
	chatService := services.NewChatService(messageRepo, itemRepo, userRepo, notificationService)
	matchService := services.NewMatchService(itemRepo, judge, cfg.JudgeTimeout)

	// --- Handlers ---
	hub := handlers.NewHub()
	userHandler := handlers.NewUserHandler(userService, cfg)
	itemHandler := handlers.NewItemHandler(itemService)
	caseHandler := handlers.NewCaseHandler(caseService)
	chatHandler := handlers.NewChatHandler(chatService, hub)
	matchHandler := handlers.NewMatchHandler(matchService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWSHandler(hub, cfg.JWTSecret)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	// Public user routes
	api.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	api.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// WebSocket push (token authenticated via query parameter)
	api.HandleFunc("/ws", wsHandler.ServeWS).Methods("GET")

	// Everything else requires authentication
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	protected.HandleFunc("/users/{id}", userHandler.GetUserHandler).Methods("GET")

	protected.HandleFunc("/items", itemHandler.CreateItemHandler).Methods("POST")
	protected.HandleFunc("/items", itemHandler.GetItemsHandler).Methods("GET")
	protected.HandleFunc("/items/user/{id}", itemHandler.GetUserItemsHandler).Methods("GET")
	protected.HandleFunc("/items/{id}", itemHandler.GetItemHandler).Methods("GET")
	protected.HandleFunc("/items/{id}", itemHandler.UpdateItemHandler).Methods("PUT")
	protected.HandleFunc("/items/{id}", itemHandler.DeleteItemHandler).Methods("DELETE")

	protected.HandleFunc("/claims", caseHandler.InitiateClaimHandler).Methods("POST")
	protected.HandleFunc("/links", caseHandler.LinkItemsHandler).Methods("POST")
	protected.HandleFunc("/resolve", caseHandler.ResolveHandler).Methods("POST")

	protected.HandleFunc("/messages", chatHandler.SendMessageHandler).Methods("POST")
	protected.HandleFunc("/messages/{lostItemID}/{foundItemID}", chatHandler.GetMessagesHandler).Methods("GET")
	protected.HandleFunc("/chats", chatHandler.GetChatsHandler).Methods("GET")

	protected.HandleFunc("/match-scan", matchHandler.MatchScanHandler).Methods("POST")

	protected.HandleFunc("/notifications", notificationHandler.GetNotificationsHandler).Methods("GET")
	protected.HandleFunc("/notifications/{id}/read", notificationHandler.MarkReadHandler).Methods("POST")

	// Admin-only maintenance routes
	admin := protected.NewRoute().Subrouter()
	admin.Use(middleware.RequireRole("admin"))
	admin.HandleFunc("/admin/notifications/purge", notificationHandler.PurgeExpiredHandler).Methods("POST")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Periodic notification cleanup
	scheduler.StartNotificationCronJobs(notificationService)

	// Start the HTTP server
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
