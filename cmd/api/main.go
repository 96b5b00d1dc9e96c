package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tourbook/internal/database"
	"tourbook/internal/gateway/stripe"
	"tourbook/internal/middleware"
	"tourbook/internal/modules/booking"
	"tourbook/internal/modules/catalog"
	"tourbook/internal/modules/payment"
	jwtsvc "tourbook/internal/pkg/jwt"
	"tourbook/internal/pkg/logger"
	"tourbook/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.ErrorLogger.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.ErrorLogger.Fatal("JWT_SECRET is empty")
	}
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		logger.ErrorLogger.Fatal("STRIPE_SECRET_KEY is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		logger.ErrorLogger.Fatal(err)
	}

	tourRepo := repository.NewTourRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)
	gateway := stripe.NewClient(stripeKey)

	catalogService := catalog.NewService(tourRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, tourRepo)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(bookingRepo, bookingRepo, gateway)
	paymentHandler := payment.NewHandler(paymentService)

	r := gin.Default()
	r.Use(middleware.CORS(), middleware.RequestLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)

			operator := protected.Group("/")
			operator.Use(middleware.OperatorOnly())
			paymentHandler.RegisterOperatorRoutes(operator)
		}
	}

	addr := ":" + envOrDefault("PORT", "8080")
	if err := r.Run(addr); err != nil {
		logger.ErrorLogger.Fatal(err)
	}
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
