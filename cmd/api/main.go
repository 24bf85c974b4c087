package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"tailorshop/internal/config"
	"tailorshop/internal/domain"
	"tailorshop/internal/handler"
	"tailorshop/internal/middleware"
	"tailorshop/internal/repository"
	"tailorshop/internal/service"
	authsvc "tailorshop/internal/service/auth"
	"tailorshop/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (unread counts will not be cached)", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (file upload will not work)", err)
		minioClient = nil
	}

	hub := ws.NewHub()
	repos := repository.NewRepositories(db)

	services, err := service.NewServices(repos, redisClient, minioClient, hub, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	if err := services.User.EnsureAdmin(context.Background(), authsvc.CanonicalEmail(cfg.AdminEmail), cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to bootstrap admin account: %v", err)
	}

	handlers := handler.NewHandlers(services, hub)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    12 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Use(middleware.Authenticate(services.Auth))

	setupRoutes(app, handlers)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/ws", h.WS.Upgrade, h.WS.Serve())

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Get("/me", middleware.RequireAuthenticated(), h.Auth.Me)

	users := v1.Group("/users", middleware.RequireAuthenticated())
	users.Put("/me", h.User.UpdateProfile)
	users.Post("/me/change-password", h.User.ChangePassword)
	users.Get("/customers", middleware.RequireRole(domain.RoleAdmin), h.User.ListCustomers)
	users.Get("/", middleware.RequireRole(domain.RoleAdmin), h.User.ListAll)
	users.Patch("/:id/active", middleware.RequireRole(domain.RoleAdmin), h.User.SetActive)

	appointments := v1.Group("/appointments", middleware.RequireAuthenticated())
	appointments.Post("/", middleware.RequireRole(domain.RoleCustomer), h.Appointment.Create)
	appointments.Get("/my", middleware.RequireRole(domain.RoleCustomer), h.Appointment.ListMine)
	appointments.Get("/my/:id", middleware.RequireRole(domain.RoleCustomer), h.Appointment.GetMine)
	appointments.Put("/my/:id", middleware.RequireRole(domain.RoleCustomer), h.Appointment.UpdateMine)
	appointments.Delete("/my/:id", middleware.RequireRole(domain.RoleCustomer), h.Appointment.DeleteMine)

	appointments.Get("/:id/images/:index", h.Appointment.DownloadImage)
	appointments.Get("/:id/bill", h.Appointment.DownloadBill)
	appointments.Get("/:id/measurements", h.Appointment.DownloadMeasurements)

	admin := appointments.Group("", middleware.RequireRole(domain.RoleAdmin))
	admin.Get("/", h.Appointment.ListAll)
	admin.Get("/:id", h.Appointment.Get)
	admin.Post("/:id/approve", h.Appointment.Approve)
	admin.Post("/:id/decline", h.Appointment.Decline)
	admin.Patch("/:id/status", h.Appointment.UpdateStatus)
	admin.Delete("/:id", h.Appointment.Delete)
	admin.Post("/:id/bill", h.Appointment.UploadBill)
	admin.Delete("/:id/bill", h.Appointment.DeleteBill)
	admin.Post("/:id/measurements", h.Appointment.UploadMeasurements)
	admin.Delete("/:id/measurements", h.Appointment.DeleteMeasurements)

	notifications := v1.Group("/notifications", middleware.RequireAuthenticated())
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.UnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	messages := v1.Group("/messages", middleware.RequireAuthenticated())
	messages.Post("/", h.Message.Send)
	messages.Get("/unread-count", h.Message.UnreadCount)
	messages.Get("/chat-users", middleware.RequireRole(domain.RoleAdmin), h.Message.ChatUsers)
	messages.Get("/:userId", h.Message.History)

	gallery := v1.Group("/gallery")
	gallery.Get("/", h.Gallery.List)
	gallery.Get("/:id/file", h.Gallery.Download)
	gallery.Post("/", middleware.RequireRole(domain.RoleAdmin), h.Gallery.Upload)
	gallery.Put("/:id", middleware.RequireRole(domain.RoleAdmin), h.Gallery.Update)
	gallery.Delete("/:id", middleware.RequireRole(domain.RoleAdmin), h.Gallery.Delete)
	gallery.Post("/:id/like", middleware.RequireAuthenticated(), h.Gallery.ToggleLike)
}
