package app

import (
	"corp_lms_backend/internal/config"
	"corp_lms_backend/internal/middleware"
	"corp_lms_backend/internal/policy"
	"corp_lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	// Catalog browsing works for guests too; a token just widens what's
	// visible for staff.
	browse := router.Group("/api")
	browse.Use(middleware.TryAuthMiddleware(a.Config))
	{
		browse.GET("/courses", c.course.ListCourses)
		browse.GET("/courses/:id", c.course.GetCourse)
		browse.GET("/learning-paths", c.learningPath.ListPaths)
		browse.GET("/learning-paths/:id", c.learningPath.GetPath)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/me", c.auth.Me)

	rg.GET("/courses/:id/materials",
		middleware.Require(policy.ResCourse, policy.ActionRead), c.course.ListMaterials)
	rg.GET("/courses/:id/quiz",
		middleware.Require(policy.ResQuiz, policy.ActionRead), c.quiz.GetQuizForLearner)
	rg.POST("/courses/:id/quiz/submissions",
		middleware.Require(policy.ResSubmission, policy.ActionCreate), c.submission.SubmitQuiz)
	rg.GET("/courses/:id/quiz/submissions",
		middleware.Require(policy.ResSubmission, policy.ActionRead), c.submission.ListMyAttempts)
	rg.GET("/submissions/:id",
		middleware.Require(policy.ResSubmission, policy.ActionRead), c.submission.GetSubmission)

	rg.GET("/courses/:id/status",
		middleware.Require(policy.ResCourse, policy.ActionRead), c.completion.GetCourseStatus)
	rg.GET("/courses/:id/certificate",
		middleware.Require(policy.ResCourse, policy.ActionRead), c.completion.GetCourseCertificate)
	rg.GET("/learning-paths/:id/certificate",
		middleware.Require(policy.ResLearningPath, policy.ActionRead), c.completion.GetPathCertificate)
	rg.GET("/completions/history",
		middleware.Require(policy.ResCourse, policy.ActionRead), c.completion.GetHistory)
	rg.GET("/completions/leaderboard",
		middleware.Require(policy.ResCourse, policy.ActionRead), c.completion.GetLeaderboard)

	rg.POST("/reset-requests",
		middleware.Require(policy.ResResetRequest, policy.ActionCreate), c.reset.RequestReset)
	rg.GET("/reset-requests/mine",
		middleware.Require(policy.ResResetRequest, policy.ActionRead), c.reset.ListMyRequests)

	rg.GET("/courses/:id/sessions",
		middleware.Require(policy.ResLiveSession, policy.ActionRead), c.liveSession.ListSessions)
	rg.GET("/sessions/:sessionId/status",
		middleware.Require(policy.ResLiveSession, policy.ActionRead), c.liveSession.SessionStatus)

	rg.GET("/notifications", c.notification.ListNotifications)
	rg.POST("/notifications/:id/read", c.notification.MarkRead)
	rg.POST("/notifications/read-all", c.notification.MarkAllRead)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	instructor := rg.Group("/instructor")
	{
		instructor.POST("/courses",
			middleware.Require(policy.ResCourse, policy.ActionCreate), c.course.CreateCourse)
		instructor.PUT("/courses/:id",
			middleware.Require(policy.ResCourse, policy.ActionUpdate), c.course.UpdateCourse)
		instructor.DELETE("/courses/:id",
			middleware.Require(policy.ResCourse, policy.ActionDelete), c.course.DeleteCourse)
		instructor.POST("/courses/:id/materials",
			middleware.Require(policy.ResCourse, policy.ActionUpdate), c.course.UploadMaterial)
		instructor.DELETE("/materials/:materialId",
			middleware.Require(policy.ResCourse, policy.ActionUpdate), c.course.DeleteMaterial)

		instructor.PUT("/courses/:id/quiz",
			middleware.Require(policy.ResQuiz, policy.ActionUpdate), c.quiz.UpdateQuiz)
		instructor.GET("/courses/:id/quiz",
			middleware.Require(policy.ResQuiz, policy.ActionUpdate), c.quiz.GetQuiz)
		instructor.DELETE("/courses/:id/quiz",
			middleware.Require(policy.ResQuiz, policy.ActionDelete), c.quiz.DeleteQuiz)

		instructor.GET("/grading/pending",
			middleware.Require(policy.ResGrading, policy.ActionRead), c.grading.ListPending)
		instructor.GET("/grading/:id",
			middleware.Require(policy.ResGrading, policy.ActionRead), c.grading.GetSubmissionReview)
		instructor.POST("/grading/:id",
			middleware.Require(policy.ResGrading, policy.ActionReview), c.grading.GradeSubmission)

		instructor.POST("/courses/:id/sessions",
			middleware.Require(policy.ResLiveSession, policy.ActionCreate), c.liveSession.CreateSession)
		instructor.POST("/sessions/:sessionId/end",
			middleware.Require(policy.ResLiveSession, policy.ActionUpdate), c.liveSession.EndSession)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	{
		admin.GET("/users",
			middleware.Require(policy.ResUser, policy.ActionRead), c.user.ListUsers)
		admin.GET("/users/:id",
			middleware.Require(policy.ResUser, policy.ActionRead), c.user.GetUser)
		admin.PUT("/users/:id",
			middleware.Require(policy.ResUser, policy.ActionUpdate), c.user.UpdateUser)
		admin.DELETE("/users/:id",
			middleware.Require(policy.ResUser, policy.ActionDelete), c.user.DeleteUser)

		admin.GET("/reset-requests",
			middleware.Require(policy.ResResetRequest, policy.ActionReview), c.reset.ListRequests)
		admin.POST("/reset-requests/:id/approve",
			middleware.Require(policy.ResResetRequest, policy.ActionReview), c.reset.ApproveReset)
		admin.POST("/reset-requests/:id/reject",
			middleware.Require(policy.ResResetRequest, policy.ActionReview), c.reset.RejectReset)

		admin.POST("/learning-paths",
			middleware.Require(policy.ResLearningPath, policy.ActionCreate), c.learningPath.CreatePath)
		admin.PUT("/learning-paths/:id",
			middleware.Require(policy.ResLearningPath, policy.ActionUpdate), c.learningPath.UpdatePath)
		admin.DELETE("/learning-paths/:id",
			middleware.Require(policy.ResLearningPath, policy.ActionDelete), c.learningPath.DeletePath)
	}
}
