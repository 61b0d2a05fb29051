package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Optional .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/tajtravel/guidehire/internal/config"
	"github.com/tajtravel/guidehire/internal/database"
	"github.com/tajtravel/guidehire/internal/handler"
	"github.com/tajtravel/guidehire/internal/queue"
	"github.com/tajtravel/guidehire/internal/repository"
	"github.com/tajtravel/guidehire/internal/router"
	"github.com/tajtravel/guidehire/internal/service"
)

func main() {
	_ = godotenv.Load() // best effort; real deployments set env vars directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	guideRepo := repository.NewGuideRepo(db)
	hireRepo := repository.NewHireRepo(db)
	rateRepo := repository.NewRateRepo(db)
	orderRepo := repository.NewOrderRepo(db)

	hireService := service.NewHireService(guideRepo, hireRepo, rateRepo, orderRepo, queue.NewPublisher())

	// Background consumer records hire notifications; it reconnects on
	// its own and never takes the server down.
	go func() {
		if err := queue.StartHireConsumer(); err != nil {
			log.Printf("hire consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient() // nil when unavailable; middleware degrades

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewAvailabilityHandler(hireService), handler.NewHireHandler(hireService), rdb)
	router.RegisterAdmin(e, handler.NewAdminHireHandler(hireService), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
