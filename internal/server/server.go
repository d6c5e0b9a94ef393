package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/tigfin/tigfin/internal/auth/domain"
	clientdomain "github.com/tigfin/tigfin/internal/client/domain"
	"github.com/tigfin/tigfin/internal/clock"
	"github.com/tigfin/tigfin/internal/config"
	expensedomain "github.com/tigfin/tigfin/internal/expense/domain"
	financedomain "github.com/tigfin/tigfin/internal/finance/domain"
	"github.com/tigfin/tigfin/internal/observability/logger"
	paymentdomain "github.com/tigfin/tigfin/internal/payment/domain"
	"github.com/tigfin/tigfin/internal/rollover"
	taskdomain "github.com/tigfin/tigfin/internal/task/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg        config.Config
	Log        *zap.Logger
	DB         *gorm.DB
	Clock      clock.Clock
	AuthSvc    authdomain.Service
	ClientSvc  clientdomain.Service
	TaskSvc    taskdomain.Service
	ExpenseSvc expensedomain.Service
	PaymentSvc paymentdomain.Service
	FinanceSvc financedomain.Service
	Rollover   *rollover.Engine
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	db     *gorm.DB
	clock  clock.Clock

	authSvc    authdomain.Service
	clientSvc  clientdomain.Service
	taskSvc    taskdomain.Service
	expenseSvc expensedomain.Service
	paymentSvc paymentdomain.Service
	financeSvc financedomain.Service
	rollover   *rollover.Engine

	signInLimiter *rateLimiter
}

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		Logger:    log,
		SkipPaths: []string{"/healthz"},
	}))
	return engine
}

func NewServer(p Params, engine *gin.Engine) *Server {
	return &Server{
		engine:        engine,
		cfg:           p.Cfg,
		log:           p.Log.Named("server"),
		db:            p.DB,
		clock:         p.Clock,
		authSvc:       p.AuthSvc,
		clientSvc:     p.ClientSvc,
		taskSvc:       p.TaskSvc,
		expenseSvc:    p.ExpenseSvc,
		paymentSvc:    p.PaymentSvc,
		financeSvc:    p.FinanceSvc,
		rollover:      p.Rollover,
		signInLimiter: newRateLimiter(p.Cfg.SignInRateLimit, p.Cfg.SignInRateWindow),
	}
}

func (s *Server) RegisterRoutes() {
	s.engine.GET("/healthz", s.Healthz)

	api := s.engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/sign-up", s.SignUp)
	auth.POST("/sign-in", s.SignIn)
	auth.POST("/sign-out", s.SignOut)
	auth.GET("/me", s.SessionRequired(), s.Me)

	protected := api.Group("", s.SessionRequired())

	clients := protected.Group("/clients")
	clients.GET("", s.ListClients)
	clients.POST("", s.CreateClient)
	clients.GET("/:id", s.GetClientByID)
	clients.PATCH("/:id", s.UpdateClient)
	clients.DELETE("/:id", s.DeleteClient)

	tasks := protected.Group("/tasks")
	tasks.GET("", s.ListTasks)
	tasks.POST("", s.CreateTask)
	tasks.GET("/:id", s.GetTaskByID)
	tasks.PATCH("/:id", s.UpdateTask)
	tasks.DELETE("/:id", s.DeleteTask)

	expenses := protected.Group("/expenses")
	expenses.GET("", s.ListExpenses)
	expenses.POST("", s.CreateExpense)
	expenses.GET("/:id", s.GetExpenseByID)
	expenses.PATCH("/:id", s.UpdateExpense)
	expenses.DELETE("/:id", s.DeleteExpense)

	recurring := protected.Group("/recurring-payments")
	recurring.GET("", s.ListRecurringPayments)
	recurring.POST("", s.CreateRecurringPayment)
	recurring.POST("/update-due-dates", s.UpdateRecurringDueDates)
	recurring.GET("/:id", s.GetRecurringPaymentByID)
	recurring.PATCH("/:id", s.UpdateRecurringPayment)
	recurring.DELETE("/:id", s.DeleteRecurringPayment)

	clientPayments := protected.Group("/client-payments")
	clientPayments.GET("", s.ListClientPayments)
	clientPayments.POST("", s.CreateClientPayment)
	clientPayments.POST("/update-due-dates", s.UpdateClientPaymentDueDates)
	clientPayments.POST("/record-payment", s.RecordClientPayment)
	clientPayments.GET("/:id", s.GetClientPaymentByID)
	clientPayments.PATCH("/:id", s.UpdateClientPayment)
	clientPayments.DELETE("/:id", s.DeleteClientPayment)

	reports := protected.Group("/financial-reports")
	reports.GET("", s.ListFinancialReports)
	reports.POST("/generate", s.GenerateFinancialReport)
	reports.GET("/summary", s.FinancialSummary)
	reports.GET("/download/:id", s.DownloadFinancialReport)
	reports.GET("/:id", s.GetFinancialReportByID)
	reports.DELETE("/:id", s.DeleteFinancialReport)

	if !s.cfg.IsProduction() {
		api.POST("/test/cleanup", s.TestCleanup)
	}
}

// @Summary      Health Check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]any
// @Router       /healthz [get]
func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		s.log.Error("health check failed", zap.Error(err))
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterRoutes()
	}),
	fx.Invoke(RunHTTP),
)
