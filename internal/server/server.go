package server

import (
	"context"
	"net/http"

	"github.com/gyaan-ai/levelup-sub000/internal/auth"
	"github.com/gyaan-ai/levelup-sub000/internal/config"
	"github.com/gyaan-ai/levelup-sub000/internal/credit"
	"github.com/gyaan-ai/levelup-sub000/internal/facility"
	"github.com/gyaan-ai/levelup-sub000/internal/joinrequest"
	"github.com/gyaan-ai/levelup-sub000/internal/notify"
	"github.com/gyaan-ai/levelup-sub000/internal/payment"
	"github.com/gyaan-ai/levelup-sub000/internal/session"
	"github.com/gyaan-ai/levelup-sub000/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notify.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLoggingMiddleware(), MetricsMiddleware(), corsMiddleware())

	userRepo := user.NewRepository(db)
	facilityRepo := facility.NewRepository(db)
	creditRepo := credit.NewRepository(db)
	sessionRepo := session.NewRepository(db)
	joinRepo := joinrequest.NewRepository(db)
	paymentRepo := payment.NewRepository(db)

	var checkout session.CheckoutProvider = payment.DisabledProvider{}
	if cfg.StripeSecretKey != "" {
		checkout = payment.NewStripeProvider(cfg.StripeSecretKey, cfg.PublicBaseURL)
	}

	userService := user.NewService(userRepo, cfg.JWTSecret)
	sessionService := session.NewService(sessionRepo, creditRepo, facilityRepo, userRepo, checkout, paymentRepo, notifier)
	joinService := joinrequest.NewService(joinRepo, sessionRepo, userRepo, notifier)

	userHandler := user.NewHandler(userService)
	facilityHandler := facility.NewHandler(facilityRepo)
	creditHandler := credit.NewHandler(creditRepo)
	sessionHandler := session.NewHandler(sessionService)
	joinHandler := joinrequest.NewHandler(joinService)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	router.POST("/webhooks/payment",
		WebhookSignatureMiddleware(cfg.StripeWebhookSecret),
		sessionHandler.ConfirmPaymentWebhook)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.POST("/me/athletes", userHandler.AddYouthAthlete)
		protected.GET("/me/athletes", userHandler.ListYouthAthletes)

		protected.GET("/facilities", facilityHandler.ListFacilities)

		protected.POST("/sessions", sessionHandler.CreateSession)
		protected.GET("/sessions", sessionHandler.ListMySessions)
		protected.GET("/sessions/open", sessionHandler.ListOpenSessions)
		protected.GET("/sessions/code/:code", sessionHandler.ResolveByCode)
		protected.POST("/sessions/code/:code/join", sessionHandler.JoinByCode)
		protected.GET("/sessions/:sessionID", sessionHandler.GetSession)
		protected.POST("/sessions/:sessionID/cancel", sessionHandler.CancelSession)
		protected.POST("/sessions/:sessionID/reschedule", sessionHandler.RescheduleSession)
		protected.POST("/sessions/:sessionID/complete", sessionHandler.CompleteSession)
		protected.POST("/sessions/:sessionID/no-show", sessionHandler.MarkNoShow)
		protected.POST("/sessions/:sessionID/join-requests", joinHandler.SubmitJoinRequest)
		protected.GET("/sessions/:sessionID/join-requests", joinHandler.ListSessionJoinRequests)

		protected.GET("/join-requests", joinHandler.ListMyJoinRequests)
		protected.POST("/join-requests/:requestID/approve", joinHandler.ApproveJoinRequest)
		protected.POST("/join-requests/:requestID/decline", joinHandler.DeclineJoinRequest)

		protected.GET("/credits", creditHandler.ListMyCredits)
		protected.GET("/credits/balance", creditHandler.GetMyBalance)
	}

	adminMiddleware := auth.RequireRole(auth.RoleAdmin)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/facilities", facilityHandler.CreateFacility)
		admin.POST("/credits", creditHandler.GrantCredit)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-notification", TestNotification(notifier))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
