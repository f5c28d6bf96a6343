package app

import (
	"codedrill_backend/internal/config"
	"codedrill_backend/internal/middleware"
	"codedrill_backend/internal/model"
	"codedrill_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerAuthRoutes(router, c, cfg)
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		public.GET("/problems", c.problem.List)
		public.GET("/problems/:slug", c.problem.Get)

		public.GET("/learning/chapters", c.learning.ListChapters)
		public.GET("/learning/chapters/:slug", c.learning.GetChapter)
		public.GET("/learning/roadmap", c.learning.Roadmap)
	}
}

func (a *App) registerAuthRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)

		authGroup.POST("/problems/:slug/run", c.problem.Run)

		authGroup.GET("/progress", c.progress.Index)
		authGroup.GET("/progress/:slug", c.progress.Read)
		authGroup.POST("/progress/:slug", c.progress.Record)
		authGroup.GET("/stats/daily", c.progress.DailyStats)

		authGroup.GET("/todos", c.todo.List)
		authGroup.POST("/todos", c.todo.Create)
		authGroup.PATCH("/todos/:id", c.todo.Patch)
		authGroup.DELETE("/todos/:id", c.todo.Delete)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/problems", c.adminProblem.List)
		admin.POST("/problems", c.adminProblem.Create)
		admin.PATCH("/problems/:slug", c.adminProblem.Patch)
		admin.DELETE("/problems/:slug", c.adminProblem.Delete)
		admin.GET("/problems/:slug/tests", c.adminProblem.ListTests)
		admin.POST("/problems/:slug/tests", c.adminProblem.CreateTest)
		admin.PATCH("/tests/:id", c.adminProblem.UpdateTest)
		admin.DELETE("/tests/:id", c.adminProblem.DeleteTest)

		learning := admin.Group("/learning")
		{
			learning.POST("/chapters", c.learning.UpsertChapter)
			learning.POST("/chapters/reorder", c.learning.Reorder)
			learning.DELETE("/chapters/:slug", c.learning.DeleteChapter)
			learning.POST("/chapters/:slug/sections", c.learning.SaveChapterPage)
			learning.POST("/sections", c.learning.UpsertSection)
			learning.DELETE("/sections/:id", c.learning.DeleteSection)
			learning.POST("/cleanup-orphans", c.learning.CleanupOrphans)
			learning.POST("/assign-parent", c.learning.AssignParent)
		}
	}
}
