package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"labreserva-backend/config"
	"labreserva-backend/internal/auth"
	"labreserva-backend/internal/metrics"
	"labreserva-backend/internal/mw"
	"labreserva-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, tokens *auth.Tokens, cfg *config.ServerConfig, log *zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestID(log))

	metrics.Register()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	handler := NewHandler(s, tokens, cacheStore, log)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	authenticated := mw.Authenticate(tokens)
	adminOnly := mw.RequireAdmin()

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/login", handler.Login)

		user := api.Group("", authenticated)
		{
			user.PUT("/atualizar_senha", handler.ChangePassword)

			user.GET("/laboratorios", caching, handler.GetLaboratories)
			user.GET("/laboratorio/:id", handler.GetLabReservations)
			user.GET("/laboratorio/:id/reservas", handler.GetLabReservationsByDate)

			user.POST("/verificar_disponibilidade", handler.CheckAvailability)
			user.GET("/minhas_reservas", handler.MyReservations)
			user.POST("/add_reserva", handler.AddReservations)
			user.PUT("/reserva/:id", handler.UpdateReservation)
			user.DELETE("/reserva/:id", handler.DeleteReservation)

			admin := user.Group("", adminOnly)
			{
				admin.POST("/usuarios", handler.CreateUser)
				admin.POST("/add_laboratorio", handler.AddLaboratory)
				admin.PUT("/laboratorio/:id", handler.UpdateLaboratory)
				admin.DELETE("/laboratorio/:id", handler.DeleteLaboratory)
			}
		}
	}

	return r
}
