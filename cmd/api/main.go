package main

import (
	"github.com/gin-gonic/gin"

	"venuebook/internal/config"
	"venuebook/internal/database"
	"venuebook/internal/gateway/khalti"
	"venuebook/internal/middleware"
	"venuebook/internal/modules/auth"
	"venuebook/internal/modules/booking"
	"venuebook/internal/modules/catalog"
	"venuebook/internal/modules/notification"
	"venuebook/internal/modules/payment"
	"venuebook/internal/modules/request"
	jwtsvc "venuebook/internal/pkg/jwt"
	"venuebook/internal/pkg/logger"
	"venuebook/internal/repository"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db, &notification.Notification{}); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	gateway := khalti.NewClient(khalti.Config{
		BaseURL:   cfg.KhaltiBaseURL,
		SecretKey: cfg.KhaltiSecretKey,
		Timeout:   cfg.KhaltiTimeout,
	}, log)

	notifService := notification.NewService(db, log)
	notifHandler := notification.NewHandler(notifService)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(venueRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	requestService := request.NewService(requestRepo, venueRepo, notifService, log)
	requestHandler := request.NewHandler(requestService)

	bookingService := booking.NewService(bookingRepo, paymentRepo, venueRepo, notifService, log)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(db, gateway, bookingRepo, venueRepo, paymentRepo, cfg.MinAdvanceAmount, log)
	paymentHandler := payment.NewHandler(paymentService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			requestHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)

			owner := protected.Group("/")
			owner.Use(middleware.OwnerOnly())
			{
				catalogHandler.RegisterOwnerRoutes(owner)
				bookingHandler.RegisterOwnerRoutes(owner)
			}

			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				bookingHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	log.WithField("port", cfg.Port).Info("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
