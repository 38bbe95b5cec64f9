package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ton-education/backend/config"
	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/handlers"
	admin_handlers "github.com/ton-education/backend/handlers/admin"
	auth_handlers "github.com/ton-education/backend/handlers/auth"
	certificate_handlers "github.com/ton-education/backend/handlers/certificate"
	course_handlers "github.com/ton-education/backend/handlers/course"
	leaderboard_handlers "github.com/ton-education/backend/handlers/leaderboard"
	news_handlers "github.com/ton-education/backend/handlers/news"
	progress_handlers "github.com/ton-education/backend/handlers/progress"
	referral_handlers "github.com/ton-education/backend/handlers/referral"
	reward_handlers "github.com/ton-education/backend/handlers/reward"
	user_handlers "github.com/ton-education/backend/handlers/user"
	"github.com/ton-education/backend/services"
	"github.com/ton-education/backend/services/ton"
	"github.com/ton-education/backend/utils/auth"
	"github.com/ton-education/backend/utils/cache"
	"github.com/ton-education/backend/utils/middleware"
)

// Dependencies carries everything SetupRoutes wires into the handlers.
type Dependencies struct {
	Store  database.EntityStore
	Ledger ton.Ledger
	Cache  *cache.RedisCache
	Env    *config.EnviornmentVariable
}

// Services bundles the engines built by SetupRoutes so callers (the cron
// manager in particular) can reuse them.
type Services struct {
	Progress     *services.ProgressService
	Rewards      *services.RewardService
	Referrals    *services.ReferralService
	Certificates *services.CertificateService
	Leaderboard  *services.LeaderboardService
}

// SetupRoutes builds the services and mounts every route on the app.
func SetupRoutes(app *fiber.App, deps Dependencies) *Services {
	env := deps.Env

	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}
	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "ton-education-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 30 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	})

	bruteForce := middleware.NewBruteForceProtection(deps.Cache)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, deps.Store)

	// Engines
	progressService := services.NewProgressService(deps.Store)
	rewardService := services.NewRewardService(deps.Store, deps.Ledger)
	referralService := services.NewReferralService(deps.Store, deps.Ledger, env.BASE_REFERRAL_REWARD)
	certificateService := services.NewCertificateService(deps.Store, deps.Ledger)

	var leaderboardCache services.LeaderboardCache
	if deps.Cache != nil {
		leaderboardCache = deps.Cache
	}
	leaderboardService := services.NewLeaderboardService(deps.Store, leaderboardCache)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(deps.Store, jwtManager, bruteForce)
	userHandler := user_handlers.NewUserHandler(deps.Store, deps.Ledger)
	courseHandler := course_handlers.NewCourseHandler(deps.Store)
	progressHandler := progress_handlers.NewProgressHandler(progressService)
	rewardHandler := reward_handlers.NewRewardHandler(rewardService)
	certificateHandler := certificate_handlers.NewCertificateHandler(certificateService)
	referralHandler := referral_handlers.NewReferralHandler(referralService, deps.Store)
	leaderboardHandler := leaderboard_handlers.NewLeaderboardHandler(leaderboardService)
	newsHandler := news_handlers.NewNewsHandler()
	adminHandler := admin_handlers.NewAdminHandler(deps.Store)

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins(env),
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth)

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public, throttled)
	authGroup := api.Group("/auth")
	authGroup.Post("/telegram", bruteForce.CheckAndRecordAttempt(), authHandler.Telegram)
	authGroup.Post("/refresh", bruteForce.CheckAndRecordAttempt(), authHandler.Refresh)

	// Current user routes (protected)
	me := api.Group("/users/me", authMiddleware.Required())
	me.Get("/", userHandler.Me)
	me.Patch("/wallet", userHandler.UpdateWallet)
	me.Get("/balance", userHandler.Balance)
	me.Get("/progress", progressHandler.GetProgress)
	me.Get("/rewards", rewardHandler.ListRewards)
	me.Get("/certificates", certificateHandler.ListCertificates)

	// Course catalog
	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)                                       // Public: List active courses
	courses.Get("/:id", courseHandler.GetCourse)                                      // Public: Get course with lessons
	courses.Get("/:id/lessons", courseHandler.ListLessons)                            // Public: List lessons
	courses.Post("/", authMiddleware.RequireAdmin(), courseHandler.CreateCourse)      // Admin only
	courses.Put("/:id", authMiddleware.RequireAdmin(), courseHandler.UpdateCourse)    // Admin only
	courses.Delete("/:id", authMiddleware.RequireAdmin(), courseHandler.DeleteCourse) // Admin only
	courses.Post("/:id/lessons", authMiddleware.RequireAdmin(), courseHandler.CreateLesson)

	// Learning flow (protected)
	courses.Post("/:id/start", authMiddleware.Required(), progressHandler.StartCourse)
	courses.Post("/:id/claim-reward", authMiddleware.Required(), rewardHandler.ClaimReward)
	courses.Post("/:id/certificate", authMiddleware.Required(), certificateHandler.IssueCertificate)

	// Lesson routes
	lessons := api.Group("/lessons")
	lessons.Post("/:id/complete", authMiddleware.Required(), progressHandler.CompleteLesson)
	lessons.Put("/:id", authMiddleware.RequireAdmin(), courseHandler.UpdateLesson)
	lessons.Delete("/:id", authMiddleware.RequireAdmin(), courseHandler.DeleteLesson)

	// Certificate verification (public)
	api.Get("/certificates/:id", certificateHandler.GetCertificate)

	// Referral program
	referrals := api.Group("/referrals")
	referrals.Post("/", authMiddleware.Required(), referralHandler.SubmitReferral)
	referrals.Get("/status", authMiddleware.Required(), referralHandler.TierStatus)
	referrals.Get("/tiers", referralHandler.ListTiers) // Public
	referrals.Post("/tiers", authMiddleware.RequireAdmin(), referralHandler.CreateTier)
	referrals.Put("/tiers/:tier", authMiddleware.RequireAdmin(), referralHandler.UpdateTier)

	// Leaderboard (public)
	api.Get("/leaderboard", leaderboardHandler.GetLeaderboard)

	// TON news feed (public)
	api.Get("/ton-news", newsHandler.GetNews)

	// Admin console
	admin := api.Group("/admin", authMiddleware.RequireAdmin())
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
	admin.Get("/rewards", adminHandler.ListRewards)
	admin.Get("/certificates", adminHandler.ListCertificates)

	return &Services{
		Progress:     progressService,
		Rewards:      rewardService,
		Referrals:    referralService,
		Certificates: certificateService,
		Leaderboard:  leaderboardService,
	}
}

func allowedOrigins(env *config.EnviornmentVariable) string {
	if env.ALLOWED_ORIGINS != "" {
		return env.ALLOWED_ORIGINS
	}
	return "http://localhost:3000,http://localhost:5173"
}
