package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"saarthi/internal/auth"
	"saarthi/internal/chat"
	"saarthi/internal/config"
	"saarthi/internal/database"
	"saarthi/internal/email"
	"saarthi/internal/handlers"
	"saarthi/internal/services"
	"saarthi/internal/translator"
	"saarthi/internal/ws"
	"saarthi/pkg/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresDB(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Optional redis cache for chat history
	var cache *chat.RedisStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Redis unreachable, chat history cache disabled: %v", err)
		} else {
			cache = chat.NewRedisStore(client, cfg.Redis.HistoryMax)
			logger.Info("Chat history cache enabled (redis at %s)", cfg.Redis.Addr)
		}
	}
	recorder := chat.NewRecorder(db, cache)

	// Initialize services
	mail := email.NewService(cfg)
	authService := auth.NewService(db, cfg)
	userService := services.NewUserService(db)
	attendanceService := services.NewAttendanceService(db, cfg)
	portalService := services.NewPortalService(db, mail, cfg)
	translatorService := translator.NewService(cfg.Translator.RapidAPIKey, cfg.Translator.RapidAPIHost)
	if translatorService.Enabled() {
		logger.Info("Translator proxy enabled (host %s)", cfg.Translator.RapidAPIHost)
	} else {
		logger.Info("Translator proxy disabled, endpoints run in shim mode")
	}

	// Initialize WebSocket hub
	hub := ws.NewHub(recorder)
	go hub.Run()

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(authService, mail, cfg)
	userHandlers := handlers.NewUserHandlers(authService, userService, cfg)
	attendanceHandlers := handlers.NewAttendanceHandlers(authService, attendanceService)
	portalHandlers := handlers.NewPortalHandlers(authService, portalService)
	chatHandlers := handlers.NewChatHandlers(authService, recorder)
	translatorHandlers := handlers.NewTranslatorHandlers(translatorService)
	wsHandlers := handlers.NewWebSocketHandlers(hub)

	// Setup routes
	mux := http.NewServeMux()
	setupRoutes(mux, cfg, authHandlers, userHandlers, attendanceHandlers, portalHandlers, chatHandlers, translatorHandlers, wsHandlers)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	logger.Info("🚀 Server started on http://localhost%s", cfg.Server.Port)
	logger.Info("📡 WebSocket endpoint: ws://localhost%s/ws", cfg.Server.Port)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server shutting down...")

	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
}

func setupRoutes(
	mux *http.ServeMux,
	cfg *config.Config,
	authHandlers *handlers.AuthHandlers,
	userHandlers *handlers.UserHandlers,
	attendanceHandlers *handlers.AttendanceHandlers,
	portalHandlers *handlers.PortalHandlers,
	chatHandlers *handlers.ChatHandlers,
	translatorHandlers *handlers.TranslatorHandlers,
	wsHandlers *handlers.WebSocketHandlers,
) {
	// Auth routes
	mux.HandleFunc("/api/auth/register", authHandlers.Register)
	mux.HandleFunc("/api/auth/login", authHandlers.Login)
	mux.HandleFunc("/api/auth/logout", authHandlers.Logout)
	mux.HandleFunc("/api/auth/me", authHandlers.Me)

	// Profile routes
	mux.HandleFunc("/api/user/profile", userHandlers.Profile)
	mux.HandleFunc("/api/user/face", userHandlers.Face)
	mux.HandleFunc("/api/user/photo", userHandlers.UploadPhoto)

	// Attendance routes
	mux.HandleFunc("/api/attendance", attendanceHandlers.Attendance)
	mux.HandleFunc("/api/attendance/stats", attendanceHandlers.Stats)

	// Portal routes
	mux.HandleFunc("/api/calendar", portalHandlers.Calendar)
	mux.HandleFunc("/api/calendar/", portalHandlers.CalendarItem)
	mux.HandleFunc("/api/exams", portalHandlers.Exams)
	mux.HandleFunc("/api/exams/", portalHandlers.ExamItem)
	mux.HandleFunc("/api/syllabus", portalHandlers.Syllabus)
	mux.HandleFunc("/api/syllabus/", portalHandlers.SyllabusItem)
	mux.HandleFunc("/api/feedback", portalHandlers.Feedback)

	// Chat history
	mux.HandleFunc("/api/chat/history", chatHandlers.History)

	// Translation proxy for the chat room
	mux.HandleFunc("/api/v1/translator/detect-language", translatorHandlers.DetectLanguage)
	mux.HandleFunc("/api/v1/translator/text", translatorHandlers.Translate)

	// Uploaded ID photos
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir))))

	// WebSocket route
	mux.HandleFunc("/ws", wsHandlers.HandleWebSocket)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
