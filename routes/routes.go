package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotelops-backend/controllers"
	"hotelops-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the guest-facing endpoints (order submission, pricing
// preview) and the authenticated staff surface.
func SetupRouter(
	ac *controllers.AuthController,
	bc *controllers.BookingController,
	oc *controllers.OrderController,
	pc *controllers.PromotionController,
	fc *controllers.FolioController,
	rc *controllers.RoomController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", ac.Login)
		}

		// Guest-facing: no staff session required.
		api.POST("/orders", oc.SubmitOrder)
		api.POST("/pricing/preview", pc.PricePreview)

		staff := api.Group("")
		staff.Use(middleware.AuthRequired())
		{
			staff.POST("/checkin", bc.CheckIn)
			staff.POST("/checkout", bc.CheckOut)

			bookings := staff.Group("/bookings")
			{
				bookings.GET("", bc.ListBookings)
				bookings.GET("/:id", bc.GetBooking)
			}

			orders := staff.Group("/orders")
			{
				orders.GET("", oc.ListOrders)
				orders.GET("/:id", oc.GetOrder)
				orders.PATCH("/:id/status", oc.UpdateStatus)
			}

			promotions := staff.Group("/promotions")
			{
				promotions.GET("", pc.List)
				promotions.POST("", pc.Create)
				promotions.POST("/:id/items", pc.AddItemDiscount)
				promotions.DELETE("/:id", pc.Deactivate)
			}

			folios := staff.Group("/folios")
			{
				folios.GET("/:bookingId", fc.GetFolio)
				folios.POST("/:bookingId/settle", fc.Settle)
				folios.POST("/:bookingId/adjustments", fc.Correct)
			}

			rooms := staff.Group("/rooms")
			{
				rooms.GET("", rc.List)
				rooms.GET("/board", rc.Board)
				rooms.POST("", rc.Create)
				rooms.PATCH("/:id/status", rc.SetStatus)
			}

			staff.GET("/dashboard", rc.Dashboard)
		}
	}

	return r
}
