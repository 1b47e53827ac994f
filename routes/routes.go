package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"hotel-manager/controllers"
	"hotel-manager/middleware"
	"hotel-manager/models"
	"hotel-manager/services"
)

type Options struct {
	CorsOrigins []string
	UploadDir   string
}

// Controllers bundles the handlers the router wires up.
type Controllers struct {
	Auth     *controllers.AuthController
	Rooms    *controllers.RoomController
	Bookings *controllers.BookingController
	Reports  *controllers.ReportController
}

func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	if err := v.RegisterValidation("roomstatus", func(fl validator.FieldLevel) bool {
		return models.RoomStatus(fl.Field().String()).Valid()
	}); err != nil {
		log.Printf("warning: register roomstatus validator: %v", err)
	}
}

// SetupRouter builds the gin engine. Everything under /api except register and
// login needs a valid access token; /api/users additionally needs an admin.
func SetupRouter(ctl Controllers, auth *services.AuthService, opts Options) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	origins := opts.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
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
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		public := api.Group("/auth")
		{
			public.POST("/register", ctl.Auth.Register)
			public.POST("/login", ctl.Auth.Login)
		}

		private := api.Group("", middleware.RequireAuth(auth))

		private.POST("/auth/logout", ctl.Auth.Logout)
		private.GET("/auth/me", ctl.Auth.Me)
		private.GET("/dashboard", ctl.Reports.Dashboard)

		rooms := private.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.GetRooms)
			rooms.POST("", ctl.Rooms.CreateRoom)
			rooms.GET("/:id", ctl.Rooms.GetRoom)
			rooms.PATCH("/:id", ctl.Rooms.UpdateRoom)
			rooms.PUT("/:id", ctl.Rooms.UpdateRoom)
			rooms.DELETE("/:id", ctl.Rooms.DeleteRoom)
		}

		bookings := private.Group("/bookings")
		{
			bookings.GET("", ctl.Bookings.GetBookings)
			bookings.POST("", ctl.Bookings.CreateBooking)
			bookings.GET("/export", ctl.Reports.ExportBookings)

			bookings.GET("/:id", ctl.Bookings.GetBooking)
			bookings.POST("/:id/checkin", ctl.Bookings.CheckIn)
			bookings.POST("/:id/checkout", ctl.Bookings.CheckOut)
		}

		private.GET("/users", middleware.RequireAdmin(), ctl.Auth.ListUsers)
	}

	return r
}
