package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/volunhub-dev/volunhub/internal/handlers"
	"github.com/volunhub-dev/volunhub/internal/middleware"
	"github.com/volunhub-dev/volunhub/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.NotificationStream)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.RegisterUser)
			auth.POST("/login", handlers.LoginUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		projects := api.Group("/projects")
		{
			projects.GET("/approved", handlers.ListApprovedProjects)
			projects.GET("/:project_id", middleware.OptionalAuthMiddleware(), handlers.GetProject)
			projects.GET("/:project_id/approved-applicants", handlers.ListApprovedApplicants)
			projects.GET("/:project_id/open-positions", handlers.ListOpenPositions)
			projects.GET("/:project_id/threads", handlers.ListThreads)

			authed := projects.Group("", middleware.AuthMiddleware())
			{
				authed.POST("", handlers.SubmitProject)
				authed.GET("/pending", handlers.ListPendingProjects)
				authed.GET("/my-projects", handlers.ListMyProjects)
				authed.PUT("/:project_id", handlers.UpdateProject)
				authed.DELETE("/:project_id", handlers.DeleteProject)
				authed.PUT("/:project_id/approve", handlers.ApproveProject)
				authed.PUT("/:project_id/reject", handlers.RejectProject)

				// Applications scoped to a project
				authed.POST("/:project_id/applications", handlers.CreateApplication)
				authed.GET("/:project_id/applications", handlers.ListProjectApplications)

				// Reviewer delegation
				authed.POST("/:project_id/reviewers", handlers.GrantReviewer)
				authed.GET("/:project_id/reviewers", handlers.ListReviewers)
				authed.DELETE("/:project_id/reviewers/:reviewer_id", handlers.RevokeReviewer)

				// Task board
				authed.POST("/:project_id/tasks", handlers.CreateTask)
				authed.GET("/:project_id/tasks", handlers.ListTasks)
				authed.PUT("/:project_id/tasks/:task_id", handlers.UpdateTask)
				authed.DELETE("/:project_id/tasks/:task_id", handlers.DeleteTask)

				// Open positions
				authed.POST("/:project_id/open-positions", handlers.CreateOpenPosition)
				authed.PUT("/:project_id/open-positions/:position_id", handlers.UpdateOpenPosition)
				authed.DELETE("/:project_id/open-positions/:position_id", handlers.DeleteOpenPosition)

				// Discussion threads
				authed.POST("/:project_id/threads", handlers.CreateThread)
			}
		}

		// Discussion reads are public; writes require a logged-in author.
		threads := api.Group("/threads")
		{
			threads.GET("/:thread_id", handlers.GetThread)
			threads.GET("/:thread_id/comments", handlers.ListComments)
			threads.POST("/:thread_id/comments", middleware.AuthMiddleware(), handlers.CreateComment)
		}

		comments := api.Group("/comments")
		{
			comments.GET("/:comment_id/replies", handlers.ListReplies)

			authed := comments.Group("", middleware.AuthMiddleware())
			{
				authed.POST("/:comment_id/replies", handlers.CreateReply)
				authed.PATCH("/:comment_id", handlers.UpdateComment)
				authed.DELETE("/:comment_id", handlers.DeleteComment)
			}
		}

		replies := api.Group("/replies", middleware.AuthMiddleware())
		{
			replies.PATCH("/:reply_id", handlers.UpdateReply)
			replies.DELETE("/:reply_id", handlers.DeleteReply)
		}

		applications := api.Group("/applications", middleware.AuthMiddleware())
		{
			applications.GET("", handlers.ListMyApplications)
			applications.PUT("/:application_id/approve", handlers.ApproveApplication)
			applications.PUT("/:application_id/reject", handlers.RejectApplication)
			applications.DELETE("/:application_id", handlers.DeleteApplication)
		}

		notifications := api.Group("/notifications", middleware.AuthMiddleware())
		{
			notifications.GET("", handlers.ListNotifications)
			notifications.GET("/unread", handlers.ListUnreadNotifications)
			notifications.GET("/unread/count", handlers.GetUnreadCount)
			notifications.PATCH("/:notification_id/read", handlers.MarkNotificationRead)
			notifications.POST("/mark-all-read", handlers.MarkAllNotificationsRead)
		}

		payments := api.Group("/payments")
		{
			payments.POST("/checkout", middleware.AuthMiddleware(), handlers.InitiateCheckout)
			payments.POST("/notify", handlers.PaymentNotify)
		}
	}

	return r
}
