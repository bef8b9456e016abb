package router

import (
	"net/http"
	"time"

	"coursehub/controllers"
	"coursehub/db"
	"coursehub/middleware"
	"coursehub/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionName = "coursehub_session"

// Initialize wires all routes and middlewares.
// HTML pages use the session cookie; /api uses bearer tokens. Both share the
// public / authenticated / validated (Authorizer) / admin (Adminizer) layering.
func Initialize(r *gin.Engine, database *gorm.DB, services *controllers.Services, limiter middleware.Limiter) error {
	cfg := services.Config

	tmpl, err := web.Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	r.Use(gin.Recovery())
	r.Use(Logger(services.Logger))
	r.Use(middleware.Metrics())
	r.Use(db.SetDBtoContext(database))
	r.Use(controllers.SetServicesToContext(services))

	r.GET("/health", func(c *gin.Context) {
		if err := database.DB().PingContext(c.Request.Context()); err != nil {
			controllers.RespondError(c, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		controllers.RespondSuccess(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	loginWindow := time.Duration(cfg.Redis.LoginWindowSeconds) * time.Second
	loginLimit := middleware.RateLimit(limiter, "login", cfg.Redis.LoginLimit, loginWindow)
	siteLoginLimit := middleware.RateLimitWith(limiter, "login", cfg.Redis.LoginLimit, loginWindow, controllers.LoginThrottled)

	// Site (sessão + flashes)
	site := r.Group("")
	site.Use(sessions.Sessions(sessionName, store))
	site.Use(controllers.LoadSessionUser())

	site.GET("/", controllers.Home)
	site.GET("/about/", controllers.About)
	site.GET("/contact/", controllers.Contact)
	site.GET("/courses/", controllers.CourseList)

	site.GET("/accounts/signup/", controllers.Signup)
	site.POST("/accounts/signup/", controllers.SignupPost)
	site.GET("/accounts/login/", controllers.LoginPage)
	site.POST("/accounts/login/", siteLoginLimit, controllers.LoginPost)
	site.POST("/accounts/logout/", controllers.Logout)

	member := site.Group("")
	member.Use(controllers.LoginRequired())

	member.GET("/courses/:slug/", controllers.CourseDetail)
	member.GET("/courses/:slug/:lesson_slug/", controllers.LessonDetail)

	member.GET("/memberships/", controllers.MembershipSelect)
	member.POST("/memberships/", controllers.MembershipSelectPost)
	member.GET("/memberships/payment/", controllers.Payment)
	member.POST("/memberships/payment/", controllers.PaymentPost)
	member.POST("/memberships/cancel/", controllers.CancelSubscription)

	member.GET("/profile/", controllers.Profile)
	member.POST("/profile/", controllers.ProfilePost)

	api := r.Group("/api")
	api.Use(middleware.CORSMiddleware(cfg.CorsOrigins...))

	// Public (no auth)
	api.POST("/users", controllers.CreateUser)
	api.POST("/login", loginLimit, controllers.Login)
	api.POST("/refresh", controllers.Refresh)
	api.POST("/password/forgot", loginLimit, controllers.ForgotPasswordSendCode)
	api.POST("/password/check-token", controllers.CheckResetToken)
	api.POST("/password/reset", controllers.ResetPassword)
	api.GET("/memberships", controllers.GetMemberships)
	api.GET("/memberships/:id", controllers.GetMembershipByID)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())

	// Validated routes (token + active user)
	validated := auth.Group("")
	validated.Use(Authorizer())

	validated.GET("/me", controllers.Me)
	validated.GET("/me/membership", controllers.MyMembership)
	validated.PUT("/me/profile", controllers.UpdateCurrentProfile)

	// Admin routes
	admin := validated.Group("/admin")
	admin.Use(Adminizer())

	admin.GET("/categories", controllers.GetCategories)
	admin.POST("/categories", controllers.CreateCategory)
	admin.PUT("/categories/:id", controllers.UpdateCategory)
	admin.DELETE("/categories/:id", controllers.DeleteCategory)

	admin.GET("/courses", controllers.GetCourses)
	admin.GET("/courses/:id", controllers.GetCourseByID)
	admin.POST("/courses", controllers.CreateCourse)
	admin.PUT("/courses/:id", controllers.UpdateCourse)
	admin.DELETE("/courses/:id", controllers.DeleteCourse)

	// Link course <-> membership - IDs no body
	admin.POST("/course-memberships", controllers.AddMembershipToCourse)
	admin.DELETE("/course-memberships", controllers.RemoveMembershipFromCourse)

	admin.GET("/lessons", controllers.GetLessons)
	admin.GET("/lessons/:id", controllers.GetLessonByID)
	admin.POST("/lessons", controllers.CreateLesson)
	admin.PUT("/lessons/:id", controllers.UpdateLesson)
	admin.PATCH("/lessons/:id", controllers.PatchLesson)
	admin.DELETE("/lessons/:id", controllers.DeleteLesson)

	admin.POST("/memberships", controllers.CreateMembership)
	admin.PUT("/memberships/:id", controllers.UpdateMembership)
	admin.DELETE("/memberships/:id", controllers.DeleteMembership)

	services.Logger.Debug().Msg("routes initialized")
	return nil
}
