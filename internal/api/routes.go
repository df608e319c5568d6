// internal/api/routes.go
package api

import (
	"net/http"
	"pulsecoach/coaching-app/internal/domain"
	"pulsecoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures the API routes on the given Gin engine.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	trainerService service.TrainerService,
	profileService service.ProfileService,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService)
	trainerHandler := NewTrainerHandler(trainerService)
	profileHandler := NewProfileHandler(profileService)

	// Liveness probe.
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		// Routes available to any authenticated user.
		authed := v1.Group("")
		authed.Use(AuthMiddleware(jwtSecret))
		{
			authed.GET("/plans/:planId", planHandler.GetPlanDetails)
			authed.GET("/users/:userId/avatar", profileHandler.GetAvatarDownloadURL)

			me := authed.Group("/me")
			{
				me.POST("/avatar/upload-url", profileHandler.RequestAvatarUploadURL)
				me.POST("/avatar/confirm", profileHandler.ConfirmAvatarUpload)
			}
		}

		// Trainer-only routes.
		trainerRoutes := v1.Group("/trainer")
		trainerRoutes.Use(AuthMiddleware(jwtSecret))
		trainerRoutes.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerRoutes.POST("/clients", trainerHandler.AddClient)
			trainerRoutes.GET("/clients", trainerHandler.GetClients)
			trainerRoutes.GET("/clients/overview", trainerHandler.GetClientOverviews)

			trainerRoutes.POST("/clients/:clientId/plans", planHandler.CreatePlan)
			trainerRoutes.GET("/clients/:clientId/plans", planHandler.GetPlansForClient)
			trainerRoutes.PUT("/plans/:planId", planHandler.UpdatePlan)
			trainerRoutes.DELETE("/plans/:planId", planHandler.DeletePlan)
			trainerRoutes.PATCH("/plans/:planId/notes", planHandler.SavePlanNotes)

			trainerRoutes.POST("/templates", trainerHandler.CreateTemplate)
			trainerRoutes.GET("/templates", trainerHandler.GetTemplates)
		}
	}
}
