// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rmontufar/cine-reservas/internal/config"
	"github.com/rmontufar/cine-reservas/internal/handler"
	"github.com/rmontufar/cine-reservas/internal/middleware"
)

// Deps collects everything the route table needs.
type Deps struct {
	Cfg          config.Config
	CacheCfg     config.CacheConfig
	RateLimitCfg config.RateLimitConfig
	Redis        *redis.Client

	Auth         *handler.AuthHandler
	Admin        *handler.AdminHandler
	Browse       *handler.BrowseHandler
	Reservations *handler.ReservationHandler
}

// Register attaches all routes to the Echo instance. Read endpoints are
// public and cached; catalog mutations require an administrador token;
// reservation endpoints require any authenticated user.
func Register(e *echo.Echo, d Deps) {
	limiter := middleware.NewTokenBucket(d.RateLimitCfg, d.Redis)
	cache := middleware.NewRedisCache(d.CacheCfg, d.Redis)
	authed := middleware.JWTAuth(d.Cfg.JWTSecret)
	admin := middleware.RequireRole("administrador")

	e.GET("/healthz", handler.Health)

	// Public auth endpoints.
	e.POST("/usuarios", d.Auth.Register, limiter)
	e.POST("/login", d.Auth.Login, limiter)

	// Public catalog reads, served from cache when warm.
	e.GET("/salas", d.Browse.ListRooms, limiter, cache)
	e.GET("/salas/:id_sala", d.Browse.GetRoom, limiter, cache)
	e.GET("/asientos", d.Browse.ListSeats, limiter, cache)
	e.GET("/asientos/:id_sala", d.Browse.ListRoomSeats, limiter, cache)
	e.GET("/peliculas", d.Browse.ListMovies, limiter, cache)
	e.GET("/funciones", d.Browse.ListScreenings, limiter, cache)
	e.GET("/funciones/:id_funcion", d.Browse.GetScreening, limiter, cache)
	e.GET("/funciones/sala/:id_sala", d.Browse.ListRoomScreenings, limiter, cache)

	// Availability is never cached: stale answers would invite conflicts.
	e.GET("/asientos/:id_asiento/disponible/:id_funcion", d.Browse.SeatAvailability, limiter)

	// Administrator mutations.
	e.POST("/sala", d.Admin.CreateRoom, authed, admin)
	e.PUT("/sala/:id", d.Admin.UpdateRoom, authed, admin)
	e.POST("/pelicula", d.Admin.CreateMovie, authed, admin)
	e.POST("/funcion", d.Admin.CreateScreening, authed, admin)
	e.PUT("/funcion/:id_funcion", d.Admin.UpdateScreening, authed, admin)
	e.GET("/usuarios", d.Auth.ListUsers, authed, admin)
	e.PUT("/usuarios/:id_usuario", d.Auth.UpdateUser, authed, admin)
	e.DELETE("/usuarios/:id_usuario", d.Auth.DeleteUser, authed, admin)

	// Reservations, any authenticated role.
	e.POST("/reservarSala", d.Reservations.Reserve, authed, limiter)
	e.POST("/asientoReservado", d.Reservations.AddSeat, authed, limiter)
	e.GET("/reservaciones", d.Reservations.ListReservations, authed)
	e.GET("/reservaciones/:id_reservacion", d.Reservations.GetReservation, authed)
	e.GET("/asientosReservados", d.Reservations.ListReservedSeats, authed)
	e.GET("/asientosReservados/:id_reservacion", d.Reservations.ListReservationSeats, authed)
	e.PUT("/reservacion/:id_reservacion/estado", d.Reservations.UpdateStatus, authed)
}
