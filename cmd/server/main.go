// Command server runs the cinema reservation HTTP API.
package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rmontufar/cine-reservas/internal/config"
	"github.com/rmontufar/cine-reservas/internal/database"
	"github.com/rmontufar/cine-reservas/internal/handler"
	"github.com/rmontufar/cine-reservas/internal/queue"
	"github.com/rmontufar/cine-reservas/internal/repository"
	"github.com/rmontufar/cine-reservas/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	rooms := repository.NewRoomRepo(db)
	seats := repository.NewSeatRepo(db)
	movies := repository.NewMovieRepo(db)
	screenings := repository.NewScreeningRepo(db)
	reservations := repository.NewReservationRepo(db)
	users := repository.NewUserRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Register(e, router.Deps{
		Cfg:          cfg,
		CacheCfg:     cacheCfg,
		RateLimitCfg: rlCfg,
		Redis:        rdb,
		Auth:         handler.NewAuthHandler(cfg, users),
		Admin:        handler.NewAdminHandler(rooms, movies, screenings),
		Browse:       handler.NewBrowseHandler(rooms, seats, movies, screenings, reservations),
		Reservations: handler.NewReservationHandler(reservations),
	})

	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reserva consumer stopped: %v", err)
		}
	}()

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
