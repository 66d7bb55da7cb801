package api

import (
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/metrics"
	"alcyxob/kinevo/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth     service.AuthService
	Coach    service.CoachService
	Student  service.StudentService
	Calendar service.CalendarService
	Export   service.ExportService
}

// SetupRoutes registers every endpoint on router. loc is the timezone date
// keys in query strings are read in.
func SetupRoutes(
	router *gin.Engine,
	services Services,
	loc *time.Location,
	metricsManager *metrics.Manager,
	gatherer prometheus.Gatherer,
) {
	authHandler := NewAuthHandler(services.Auth)
	coachHandler := NewCoachHandler(services.Coach, services.Export)
	studentHandler := NewStudentHandler(services.Student, loc)
	calendarHandler := NewCalendarHandler(services.Calendar)

	router.Use(RequestMetrics(metricsManager))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(services.Auth))
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, ok := mustUserID(c)
			if !ok {
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "role": role})
		})

		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			coachGroup.POST("/students", coachHandler.AddStudentByEmail)
			coachGroup.GET("/students", coachHandler.GetManagedStudents)

			coachGroup.POST("/students/:studentId/programs", coachHandler.CreateProgram)
			coachGroup.GET("/students/:studentId/programs", coachHandler.GetProgramsForStudent)

			coachGroup.POST("/programs/:programId/activate", coachHandler.ActivateProgram)
			coachGroup.POST("/programs/:programId/finish", coachHandler.FinishProgram)
			coachGroup.POST("/programs/:programId/workouts", coachHandler.AddWorkout)
			coachGroup.GET("/programs/:programId/workouts", coachHandler.GetProgramWorkouts)
			coachGroup.PUT("/workouts/:workoutId", coachHandler.UpdateWorkout)
			coachGroup.DELETE("/workouts/:workoutId", coachHandler.DeleteWorkout)

			coachGroup.GET("/programs/:programId/calendar/week", calendarHandler.GetWeekStrip)
			coachGroup.GET("/programs/:programId/calendar/month", calendarHandler.GetMonthGrid)
			coachGroup.GET("/programs/:programId/progress", calendarHandler.GetProgress)

			coachGroup.POST("/programs/:programId/reports", coachHandler.ExportProgress)
			coachGroup.GET("/programs/:programId/reports", coachHandler.ListExports)
			coachGroup.GET("/reports/:reportId/download", coachHandler.GetReportDownloadURL)
		}

		studentGroup := protected.Group("/student")
		studentGroup.Use(RoleMiddleware(domain.RoleStudent))
		{
			studentGroup.GET("/programs", studentHandler.GetMyPrograms)
			studentGroup.GET("/programs/:programId/workouts", studentHandler.GetMyProgramWorkouts)

			studentGroup.GET("/programs/:programId/calendar/week", calendarHandler.GetWeekStrip)
			studentGroup.GET("/programs/:programId/calendar/month", calendarHandler.GetMonthGrid)
			studentGroup.GET("/programs/:programId/progress", calendarHandler.GetProgress)

			studentGroup.POST("/programs/:programId/sessions", studentHandler.StartSession)
			studentGroup.GET("/programs/:programId/sessions", studentHandler.ListSessions)
			studentGroup.POST("/sessions/:sessionId/complete", studentHandler.CompleteSession)
		}
	}
}
