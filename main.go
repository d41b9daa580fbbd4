package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"interest-insights-system/handlers"
	"interest-insights-system/middleware"
	"interest-insights-system/models"
	"interest-insights-system/services"
	"interest-insights-system/utils"
	"interest-insights-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Service-Token, X-User-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.FamilyMember{},
		&models.UserInterest{},
		&models.CohortStats{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	classifier := services.NewAgeCohortClassifier(models.DefaultAgeBands)
	roster := services.NewGormCohortRoster(db)
	statsStore := services.NewGormCohortStatsStore(db)
	maintainer := services.NewCohortStatsMaintainer(roster, statsStore)
	comparisonService := services.NewComparisonService(roster, statsStore, maintainer, classifier)
	bulkJob := services.NewBulkRecomputeJob(roster, maintainer, classifier)
	snapshotService := services.NewSnapshotService(db)

	// --- CONFIGURE Sync Service Details for Family Members ---
	profileServiceURL := os.Getenv("SYNC_SERVICE_URL")
	if profileServiceURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable not set")
	}
	insightsServiceToken := os.Getenv("INSIGHTS_SERVICE_TOKEN")
	if insightsServiceToken == "" {
		log.Fatal("INSIGHTS_SERVICE_TOKEN environment variable not set")
	}
	// --- END CONFIG ---

	syncWorker := workers.NewProfileSyncWorker(db, profileServiceURL, "/api/v1/public/members", insightsServiceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("Starting Profile Sync Worker...")
		syncWorker.Start(ctx)
	}()

	services.StartCohortScheduler(bulkJob, snapshotService)

	// ✅ Setup routes — with enforced Gateway auth
	handlers.SetupComparisonRoutes(app, comparisonService, bulkJob, snapshotService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Profile Sync Worker running")
	log.Println("✅ Cohort scheduler running (bulk recompute + snapshot every 24h)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
