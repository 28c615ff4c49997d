// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/workswipe/workswipe-backend/internal/admin"
	"github.com/workswipe/workswipe-backend/internal/auth"
	"github.com/workswipe/workswipe-backend/internal/chat"
	"github.com/workswipe/workswipe-backend/internal/common/database"
	"github.com/workswipe/workswipe-backend/internal/config"
	"github.com/workswipe/workswipe-backend/internal/matching"
	"github.com/workswipe/workswipe-backend/internal/notification"
	"github.com/workswipe/workswipe-backend/internal/profile"
	"github.com/workswipe/workswipe-backend/internal/store"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting WorkSwipe Job Matching API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	log.Println("✅ Configuration loaded")

	// 3. Validate configuration
	log.Println("\n✔️  Step 3: Validating configuration...")
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 4. Connect to PostgreSQL (credentials and sessions)
	log.Println("\n🗄️  Step 4: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	log.Println("   - Running auth migrations...")
	if err := auth.Migrate(db); err != nil {
		log.Fatal("❌ Failed to run auth migrations:", err)
	}
	log.Println("   ✅ Auth migrations completed")

	// 5. Connect to Redis (optional)
	log.Println("\n📮 Step 5: Connecting to Redis...")
	redisClient, err := database.NewRedisClientFromURL(cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️  Redis unavailable (%v), continuing without cache and login throttling", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("✅ Connected to Redis successfully")
	}

	// 6. Open the document store (profiles, swipes, matches, messages)
	log.Println("\n📂 Step 6: Opening document store...")
	var docStore store.Store
	if cfg.FirestoreProjectID != "" {
		docStore, err = store.NewFirestoreStore(context.Background(), cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
		if err != nil {
			log.Fatal("❌ Failed to connect to Firestore:", err)
		}
		log.Println("✅ Connected to Firestore")
	} else {
		if cfg.IsProduction() {
			log.Fatal("❌ Firestore project ID is required in production")
		}
		docStore = store.NewMemoryStore()
		log.Println("⚠️  Using in-memory document store (development mode)")
	}
	defer docStore.Close()

	// 7. Initialize Profile system
	log.Println("\n👤 Step 7: Initializing Profile system...")

	profileRepo := profile.NewStoreRepository(docStore)

	var uploadService profile.UploadService
	if cfg.UseS3 {
		uploadService, err = profile.NewS3UploadService(cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Printf("⚠️  Failed to init S3 uploads, using local storage: %v", err)
			uploadService = profile.NewLocalUploadService(cfg.LocalUploadDir, cfg.BaseURL+"/uploads")
		} else {
			log.Println("   ✅ Using S3 for profile uploads")
		}
	} else {
		uploadService = profile.NewLocalUploadService(cfg.LocalUploadDir, cfg.BaseURL+"/uploads")
		log.Println("   ✅ Using local storage for profile uploads")
	}

	profileCache := profile.NewCache(redisClient)
	profileService := profile.NewService(profileRepo, uploadService, profileCache)
	profileHandler := profile.NewHandler(profileService)
	log.Println("✅ Profile system initialized")

	// 8. Initialize Auth system
	log.Println("\n🔐 Step 8: Initializing authentication system...")

	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, redisClient, profileService, &auth.Config{
		JWTSecret:           cfg.JWTSecret,
		AccessTokenExpiry:   cfg.AccessTokenExpiry,
		RefreshTokenExpiry:  cfg.RefreshTokenExpiry,
		BCryptCost:          cfg.BCryptCost,
		MinAge:              cfg.MinAge,
		LoginAttemptsMax:    cfg.LoginAttemptsMax,
		LoginAttemptsWindow: cfg.LoginAttemptsWindow,
	})
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)
	log.Println("✅ Authentication system initialized")

	// 9. Initialize Notification providers
	log.Println("\n🔔 Step 9: Initializing notification providers...")

	var emailProvider notification.EmailProvider
	switch cfg.EmailProvider {
	case "sendgrid":
		emailProvider = notification.NewSendGridEmailProvider(cfg.SendGridAPIKey, cfg.EmailFrom)
		log.Println("   ✅ Using SendGrid for emails")
	case "smtp":
		emailProvider = notification.NewSMTPEmailProvider(
			cfg.SMTPHost,
			strconv.Itoa(cfg.SMTPPort),
			cfg.SMTPUsername,
			cfg.SMTPPassword,
			cfg.EmailFrom,
		)
		log.Println("   ✅ Using SMTP for emails")
	default:
		emailProvider = notification.NewMockEmailProvider()
		log.Println("   ⚠️  Using mock email provider (development mode)")
	}

	var smsProvider notification.SMSProvider
	switch cfg.SMSProvider {
	case "twilio":
		smsProvider = notification.NewTwilioSMSProvider(
			cfg.TwilioAccountSID,
			cfg.TwilioAuthToken,
			cfg.TwilioPhoneNumber,
		)
		log.Println("   ✅ Using Twilio for SMS")
	default:
		smsProvider = notification.NewMockSMSProvider()
		log.Println("   ⚠️  Using mock SMS provider (development mode)")
	}

	var notifier matching.Notifier
	if cfg.EnableMatchNotifications {
		notifier = notification.NewService(emailProvider, smsProvider, cfg.EnableSMSNotifications)
		log.Println("✅ Match notifications enabled")
	} else {
		log.Println("⚠️  Match notifications disabled")
	}

	// 10. Initialize Matching system
	log.Println("\n🤝 Step 10: Initializing Matching system...")

	matchingRepo := matching.NewRepository(docStore)
	matchingService := matching.NewService(matchingRepo, profileService, notifier)
	matchingHandler := matching.NewHandler(matchingService)
	log.Println("✅ Matching system initialized")

	// 11. Initialize Chat system
	log.Println("\n💬 Step 11: Initializing Chat system...")

	chatRepo := chat.NewRepository(docStore)
	chatService := chat.NewService(chatRepo)
	chatHub := chat.NewHub(chatService)
	go chatHub.Run()
	chatHandler := chat.NewHandler(chatService, chatHub)
	log.Println("✅ Chat system initialized, WebSocket hub started")

	// 12. Initialize Admin system
	log.Println("\n🛠️  Step 12: Initializing Admin system...")

	adminService := admin.NewService(profileService, matchingRepo, authService, chatHub)
	adminHandler := admin.NewHandler(adminService)
	log.Println("✅ Admin system initialized")

	// 13. Setup routes
	log.Println("\n🛣️  Step 13: Setting up routes...")
	router := mux.NewRouter()

	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/",
				http.FileServer(http.Dir(cfg.LocalUploadDir))))
		log.Println("   ✅ Static file server configured")
	}

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/api", apiInfo).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	auth.RegisterRoutes(router, authHandler, authMiddleware)
	log.Println("   ✅ Auth routes registered")

	profile.RegisterRoutes(router, profileHandler, authMiddleware.Authenticate)
	log.Println("   ✅ Profile routes registered")

	matching.RegisterRoutes(router, matchingHandler, authMiddleware)
	log.Println("   ✅ Matching routes registered")

	chat.RegisterRoutes(router, chatHandler, authMiddleware)
	log.Println("   ✅ Chat routes registered")

	admin.RegisterRoutes(router, adminHandler, authMiddleware)
	log.Println("   ✅ Admin routes registered")

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	// 14. Create and start HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")

	log.Println("   - Shutting down chat hub...")
	chatHub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

var startTime = time.Now()

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// apiInfo returns API information
func apiInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{
        "name": "WorkSwipe API",
        "version": "1.0.0",
        "status": "running",
        "endpoints": {
            "health": "GET /health",
            "metrics": "GET /metrics",
            "auth": {
                "signup": "POST /api/v1/auth/signup",
                "signin": "POST /api/v1/auth/signin",
                "refresh": "POST /api/v1/auth/refresh",
                "logout": "POST /api/v1/auth/logout",
                "me": "GET /api/v1/auth/me"
            },
            "profile": {
                "get": "GET /api/v1/profile",
                "update": "PUT /api/v1/profile",
                "picture": "POST /api/v1/profile/picture",
                "banner": "POST /api/v1/profile/banner",
                "user": "GET /api/v1/users/{id}/profile"
            },
            "matching": {
                "feed": "GET /api/v1/feed",
                "swipe": "POST /api/v1/swipes",
                "pending": "GET /api/v1/likes/pending",
                "pendingStream": "GET /api/v1/likes/pending/stream",
                "accept": "POST /api/v1/likes/pending/{id}/accept",
                "decline": "POST /api/v1/likes/pending/{id}/decline",
                "past": "GET /api/v1/likes/past",
                "saved": "GET /api/v1/saved",
                "connect": "POST /api/v1/saved/{id}/connect",
                "matches": "GET /api/v1/matches"
            },
            "chat": {
                "websocket": "GET /api/v1/ws",
                "messages": "GET /api/v1/matches/{id}/messages",
                "send": "POST /api/v1/matches/{id}/messages"
            },
            "admin": {
                "stats": "GET /api/v1/admin/stats",
                "users": "GET /api/v1/admin/users"
            }
        }
    }`))
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
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
