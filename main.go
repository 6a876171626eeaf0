package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hotelops-backend/config"
	"hotelops-backend/controllers"
	"hotelops-backend/notifications"
	"hotelops-backend/routes"
	"hotelops-backend/services"
	"hotelops-backend/utils"
)

func buildDispatcher() *notifications.Dispatcher {
	amqpURL := os.Getenv("AMQP_URL")
	if amqpURL == "" {
		return notifications.NewDispatcher(notifications.LogTransport{}, 128)
	}
	transport, err := notifications.NewAMQPTransport(amqpURL, utils.EnvOrDefault("AMQP_EXCHANGE", "guest_notifications"))
	if err != nil {
		log.Printf("warning: AMQP broker unavailable, falling back to log transport: %v", err)
		return notifications.NewDispatcher(notifications.LogTransport{}, 128)
	}
	log.Println("Notification dispatcher connected to AMQP broker")
	return notifications.NewDispatcher(transport, 128)
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("Database connection established and migrations applied")

	dispatcher := buildDispatcher()
	defer dispatcher.Close()

	// Initialize services
	staffService := services.NewStaffService(db)
	roomService := services.NewRoomService(db)
	bookingService := services.NewBookingService(db, dispatcher)
	promotionService := services.NewPromotionService(db)
	orderService := services.NewOrderService(db, promotionService, dispatcher)
	folioService := services.NewFolioService(db)

	// Initialize controllers
	authController := controllers.NewAuthController(staffService)
	bookingController := controllers.NewBookingController(bookingService)
	orderController := controllers.NewOrderController(orderService)
	promotionController := controllers.NewPromotionController(promotionService)
	folioController := controllers.NewFolioController(folioService)
	roomController := controllers.NewRoomController(roomService)

	router := routes.SetupRouter(
		authController,
		bookingController,
		orderController,
		promotionController,
		folioController,
		roomController,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
