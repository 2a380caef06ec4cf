package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"shikayat/config"
	"shikayat/notification"
	"shikayat/pkg/logger"
	"shikayat/repository"
	"shikayat/routes"
	"shikayat/schema"
	"shikayat/service"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	cfg := config.LoadConfig()
	log := logger.New(cfg.Server.Env)

	// Database connection (UTC for consistent timestamps)
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database connection")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	log.Info().Msg("database connection established")

	if err := schema.InitializeDatabase(db); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize schema")
	}

	// Repositories
	lookupRepo := repository.NewLookupRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	suggestionRepo := repository.NewSuggestionRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	lookupService := service.NewLookupService(lookupRepo)
	if err := lookupService.Reload(); err != nil {
		log.Fatal().Err(err).Msg("failed to load lookup trees")
	}

	var sender notification.Sender = notification.NoopSender{}
	if cfg.Email.Mode != "" {
		sender = notification.NewEmailSender(cfg.Email)
		log.Info().Str("mode", cfg.Email.Mode).Msg("email notifications enabled")
	}

	now := func() time.Time { return time.Now().UTC() }
	dashboardService := service.NewDashboardService(dashboardRepo, lookupService)
	analyticsService := service.NewAnalyticsService(analyticsRepo, lookupService, now)
	complaintService := service.NewComplaintService(complaintRepo, userRepo, lookupService, sender, log, now)
	suggestionService := service.NewSuggestionService(suggestionRepo, userRepo, lookupService, sender, log, now)

	router := routes.SetupRoutes(
		dashboardService,
		analyticsService,
		complaintService,
		suggestionService,
		lookupService,
		cfg.Auth.JWTSecret,
		log,
	)

	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server starting")
	if err := http.ListenAndServe(addr, corsHandler(router)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
