package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"readle/internal/config"
	"readle/internal/handlers"
	"readle/internal/models"
	"readle/internal/progress"
	"readle/internal/repository"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(http.StatusTooManyRequests, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger, catalog *models.Catalog) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("readle_session", store))

	// --- Now that sessions are initialized, other middleware can use them ---
	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Handlers
	builder := progress.NewBuilder(repository.Source{}, log)
	authHandler := handlers.NewAuthHandler(log)
	accountHandler := handlers.NewAccountHandler(log)
	classroomHandler := handlers.NewClassroomHandler(log)
	dashboardHandler := handlers.NewDashboardHandler(log, builder)
	studentHandler := handlers.NewStudentHandler(log, builder)
	exportHandler := handlers.NewExportHandler(log, builder)
	chartsHandler := handlers.NewChartsHandler(log, builder)
	ingestHandler := handlers.NewIngestHandler(log, catalog)

	// Brute-force protection on the auth endpoints.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitErrorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/csrf", CSRFToken)
	router.POST("/register", limiter, authHandler.Register)
	router.POST("/login", limiter, authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	// Signed-in routes: account settings, reading progress, activity attempts.
	signedIn := router.Group("/", AuthRequired())
	{
		signedIn.PUT("/profile", accountHandler.UpdateProfile)
		signedIn.PUT("/password", accountHandler.UpdatePassword)
		signedIn.DELETE("/account", accountHandler.DeleteAccount)
		signedIn.POST("/progress", ingestHandler.SaveProgress)
		signedIn.POST("/activities/attempt", ingestHandler.SaveAttempt)
		signedIn.GET("/students/:id/progress", studentHandler.Progress)
	}

	// Teacher-facing routes: classroom management and rollup views.
	teacher := router.Group("/classrooms", TeacherRequired())
	{
		teacher.POST("", classroomHandler.Create)
		teacher.GET("", classroomHandler.List)
		teacher.POST("/:id/students", classroomHandler.AddStudent)
		teacher.DELETE("/:id/students/:studentId", classroomHandler.RemoveStudent)
		teacher.GET("/:id/progress", dashboardHandler.ClassroomProgress)
		teacher.GET("/:id/progress/export", exportHandler.ClassroomCSV)
		teacher.GET("/:id/charts", chartsHandler.ClassroomCharts)
	}

	return router
}
