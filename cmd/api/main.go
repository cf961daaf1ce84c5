package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"homebound/internal/database"
	"homebound/internal/middleware"
	"homebound/internal/modules/booking"
	"homebound/internal/modules/safety"
	jwtsvc "homebound/internal/pkg/jwt"
	"homebound/internal/realtime"
	"homebound/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	listingRepo := repository.NewListingRepository(db)
	safetyRepo := repository.NewSafetyReportRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	hub := realtime.NewHub()
	wsHandler := realtime.NewWSHandler(hub, j)

	bookingService := booking.NewService(bookingRepo, listingRepo, hub)
	bookingHandler := booking.NewHandler(bookingService)

	safetyService := safety.NewService(safetyRepo, hub)
	safetyHandler := safety.NewHandler(safetyService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/ws", wsHandler.HandleWebSocket)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			safetyHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
