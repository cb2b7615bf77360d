package routes

import (
	"time"

	"medicare/handlers"
	"medicare/middleware"
	"medicare/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options carries what the router needs beyond the handlers.
type Options struct {
	AllowedOrigins    []string
	MaxRequestsPerMin int
	Users             middleware.UserLookup
	Sessions          middleware.SessionCache
}

// RegisterAppointmentRoutes mounts the booking API. It is public: patients book without an account.
func RegisterAppointmentRoutes(api *gin.RouterGroup, h *handlers.AppointmentHandler) {
	appointments := api.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAll)
		appointments.GET("/id/:id", h.GetAppointment)
		appointments.GET("/:email", h.ListByEmail)
		appointments.PUT("/:id/status", h.UpdateStatus)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
	api.GET("/availability", h.Availability)
}

// RegisterPatientRoutes mounts patient intake records behind staff authentication.
func RegisterPatientRoutes(api *gin.RouterGroup, h *handlers.PatientHandler, auth gin.HandlerFunc) {
	patients := api.Group("/patients")
	{
		patients.Use(auth)
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
	}
}

func RegisterAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler, auth gin.HandlerFunc) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", auth, h.Me)
		authGroup.GET("/profile", auth, h.Me)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	r.Use(utils.ErrorHandler())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(opts.MaxRequestsPerMin))

	api := r.Group("/api")
	api.GET("/health", handlers.Health)

	if hb.Appointments != nil {
		RegisterAppointmentRoutes(api, hb.Appointments)
	}
	if opts.Users != nil {
		auth := middleware.JWTAuthUserMiddleware(opts.Users, opts.Sessions)
		if hb.Auth != nil {
			RegisterAuthRoutes(api, hb.Auth, auth)
		}
		if hb.Patients != nil {
			RegisterPatientRoutes(api, hb.Patients, auth)
		}
	}
}
