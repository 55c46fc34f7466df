package controllers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/config"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/middleware"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
)

// SetupRouter builds the developer backend. Every route except health,
// registration and login needs a session token issued by Login.
func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", HealthCheck)
		api.GET("/database/status", DatabaseStatus)

		api.POST("/users", RegisterUser)
		api.POST("/users/login", Login)
	}

	protected := api.Group("")
	protected.Use(middleware.EnsureValidToken(cfg))

	users := protected.Group("/users")
	{
		users.GET("", middleware.RequireRole(models.RoleAdmin), ListUsers)
		users.GET("/:id", GetUser)
		users.GET("/email/:email", GetUserByEmail)
		users.PUT("/:id", UpdateUser)
		users.DELETE("/:id", DeleteUser)
	}

	requests := protected.Group("/service-requests")
	{
		requests.POST("", CreateServiceRequest)
		requests.GET("", ListServiceRequests)
		requests.GET("/:id", GetServiceRequest)
		requests.GET("/user/:userId", ListServiceRequestsByUser)
		requests.GET("/status/:status", ListServiceRequestsByStatus)
		requests.GET("/mechanic/:mechanicId", ListServiceRequestsByMechanic)
		requests.PUT("/:id", UpdateServiceRequest)
		requests.PATCH("/:id/status", UpdateServiceRequestStatus)
		requests.PATCH("/:id/assign", middleware.RequireRole(models.RoleMechanic, models.RoleAdmin), AssignMechanic)
		requests.DELETE("/:id", DeleteServiceRequest)
	}

	vehicles := protected.Group("/vehicles")
	{
		vehicles.POST("", CreateVehicle)
		vehicles.GET("/:id", GetVehicle)
		vehicles.PUT("/:id", UpdateVehicle)
		vehicles.DELETE("/:id", DeleteVehicle)
		vehicles.PATCH("/:id/default", SetDefaultVehicle)
		vehicles.GET("/user/:userId", ListVehiclesByUser)
		vehicles.GET("/user/:userId/default", GetDefaultVehicle)
		vehicles.PATCH("/user/:userId/default/clear", ClearDefaultVehicle)
		vehicles.GET("/user/:userId/count", CountVehicles)
	}

	images := protected.Group("/images")
	{
		images.POST("", UploadImage)
		images.GET("/:id", GetImage)
		images.GET("/entity/:entityType/:entityId", ListImagesByEntity)
		images.DELETE("/:id", DeleteImage)
	}

	return router
}
