package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/adpilot-app/adpilot-backend/internal/adapter/handler/http"
	"github.com/adpilot-app/adpilot-backend/internal/config"
	domainNotifier "github.com/adpilot-app/adpilot-backend/internal/domain/notifier"
	"github.com/adpilot-app/adpilot-backend/internal/domain/provider"
	"github.com/adpilot-app/adpilot-backend/internal/infrastructure/database"
	notifierInfra "github.com/adpilot-app/adpilot-backend/internal/infrastructure/notifier"
	"github.com/adpilot-app/adpilot-backend/internal/middleware/auth"
	"github.com/adpilot-app/adpilot-backend/internal/middleware/ratelimit"
	"github.com/adpilot-app/adpilot-backend/internal/usecase"
	apperrors "github.com/adpilot-app/adpilot-backend/pkg/errors"
	"github.com/adpilot-app/adpilot-backend/pkg/messaging"
)

type Server struct {
	config  *config.Config
	logger  *zap.Logger
	echo    *echo.Echo
	repos   *database.Repositories
	gateway provider.PaymentGateway
	redis   messaging.RedisClient
}

// NewServer creates the HTTP server. The redis client may be nil; the task
// fan-out target and rate limiting are skipped without it.
func NewServer(cfg *config.Config, logger *zap.Logger, repos *database.Repositories, gateway provider.PaymentGateway, redis messaging.RedisClient) *Server {
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	e.Validator = &requestValidator{validate: validator.New()}

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		httpErr := apperrors.ToHTTPError(err)
		if httpErr.Code >= http.StatusInternalServerError {
			apperrors.LogError(logger, err, "Unhandled request error",
				zap.String("path", c.Request().URL.Path))
		}
		if !c.Response().Committed {
			_ = c.JSON(httpErr.Code, echo.Map{"error": httpErr.Message})
		}
	}

	return &Server{
		config:  cfg,
		logger:  logger,
		echo:    e,
		repos:   repos,
		gateway: gateway,
		redis:   redis,
	}
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Fan-out targets, each gated by its own config section. The email
	// notifier doubles as the abandonment re-engagement sender.
	emailNotifier := notifierInfra.NewEmailNotifier(s.config.SMTP, s.config.Service.ClientURL, s.logger)

	var notifiers []domainNotifier.Notifier
	if s.config.SMTP.Host != "" {
		notifiers = append(notifiers, emailNotifier)
	}
	if s.config.CRM.Enabled {
		notifiers = append(notifiers, notifierInfra.NewCRMNotifier(s.config.CRM, s.logger))
	}
	if s.config.Tracking.Enabled {
		notifiers = append(notifiers, notifierInfra.NewTrackingNotifier(s.config.Tracking, s.logger))
	}
	if s.redis != nil && s.config.Redis.TaskChannel != "" {
		notifiers = append(notifiers, notifierInfra.NewTaskNotifier(s.redis, s.config.Redis.TaskChannel, s.logger))
	}

	// Purchase pipeline
	normalizer := usecase.NewEventNormalizer(s.gateway, s.logger)
	purchaseService := usecase.NewPurchaseService(s.repos.Purchase, s.logger)
	onboarding := usecase.NewOnboardingService(notifiers, s.logger)
	pipeline := usecase.NewPurchasePipeline(normalizer, purchaseService, onboarding, s.logger)

	reconciliation := usecase.NewReconciliationService(s.gateway, s.repos.Purchase, pipeline, s.logger)
	abandonment := usecase.NewAbandonmentService(s.repos.PendingCheckout, s.gateway, emailNotifier, s.logger)
	conversationService := usecase.NewConversationService(s.repos.Conversation, s.logger)

	// Handlers
	webhookHandler := handlers.NewWebhookHandler(s.logger, s.config.Service.StripeWebhookSecret, pipeline)
	checkoutHandler := handlers.NewCheckoutHandler(s.logger, &s.config.Service, s.repos.PendingCheckout, s.gateway)
	conversationHandler := handlers.NewConversationHandler(s.logger, conversationService, s.config.Service.VoiceWebhookToken)
	purchaseHandler := handlers.NewPurchaseHandler(s.logger, purchaseService)
	cronHandler := handlers.NewCronHandler(s.logger, reconciliation, abandonment,
		s.config.Service.ReconcileWindow, s.config.Service.AbandonStaleAge, s.config.Service.AbandonCleanupAge)

	// Public rate limiting backed by redis, shared across instances
	var limited []echo.MiddlewareFunc
	if s.redis != nil && s.config.Service.RateLimit.Enabled {
		limited = append(limited, ratelimit.Middleware(s.redis, ratelimit.Config{
			Requests: s.config.Service.RateLimit.Requests,
			Window:   s.config.Service.RateLimit.Window,
			Logger:   s.logger,
		}))
	}

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	v1.POST("/checkout", checkoutHandler.CreateCheckout, limited...)
	v1.GET("/checkout/session/:sessionId", checkoutHandler.CheckSessionStatus)
	v1.POST("/conversations", conversationHandler.SaveConversation, limited...)

	// Internal admin routes (require JWT authentication)
	internal := v1.Group("/internal", auth.JWTMiddleware(auth.JWTConfig{
		Secret: s.config.Service.JWTSecret,
		Logger: s.logger,
	}))
	internal.GET("/purchases", purchaseHandler.ListRecent)

	// Scheduler-triggered sweeps (shared bearer secret)
	cron := s.echo.Group("/internal/cron", auth.CronMiddleware(auth.CronConfig{
		Secret: s.config.Service.CronSecret,
		Logger: s.logger,
	}))
	cron.GET("/reconcile", cronHandler.Reconcile)
	cron.GET("/abandoned", cronHandler.Abandoned)

	// Webhook routes (outside API versioning; signature/token verified in-handler)
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)
	s.echo.POST("/webhook/voice", conversationHandler.HandleVoiceWebhook)
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
