package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/moonstead/moonstead/internal/assignment"
	assignmentdomain "github.com/moonstead/moonstead/internal/assignment/domain"
	"github.com/moonstead/moonstead/internal/catalog"
	"github.com/moonstead/moonstead/internal/config"
	"github.com/moonstead/moonstead/internal/journal"
	journaldomain "github.com/moonstead/moonstead/internal/journal/domain"
	"github.com/moonstead/moonstead/internal/kid"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	"github.com/moonstead/moonstead/internal/ledger"
	ledgerdomain "github.com/moonstead/moonstead/internal/ledger/domain"
	"github.com/moonstead/moonstead/internal/observability"
	obsmiddleware "github.com/moonstead/moonstead/internal/observability/logger"
	obsmetrics "github.com/moonstead/moonstead/internal/observability/metrics"
	obstracing "github.com/moonstead/moonstead/internal/observability/tracing"
	"github.com/moonstead/moonstead/internal/purchase"
	purchasedomain "github.com/moonstead/moonstead/internal/purchase/domain"
	"github.com/moonstead/moonstead/internal/ratelimit"
	"github.com/moonstead/moonstead/internal/reward"
	rewarddomain "github.com/moonstead/moonstead/internal/reward/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	catalog.Module,
	kid.Module,
	ledger.Module,
	purchase.Module,
	assignment.Module,
	journal.Module,
	reward.Module,
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	catalog       *catalog.Catalog
	kidSvc        kiddomain.Service
	ledgerSvc     ledgerdomain.Service
	purchaseSvc   purchasedomain.Service
	assignmentSvc assignmentdomain.Service
	journalSvc    journaldomain.Service
	rewardSvc     rewarddomain.Service
	bonusLimiter  *ratelimit.BonusLimiter
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Catalog       *catalog.Catalog
	KidSvc        kiddomain.Service
	LedgerSvc     ledgerdomain.Service
	PurchaseSvc   purchasedomain.Service
	AssignmentSvc assignmentdomain.Service
	JournalSvc    journaldomain.Service
	RewardSvc     rewarddomain.Service
	BonusLimiter  *ratelimit.BonusLimiter `optional:"true"`
	ObsMetrics    *obsmetrics.Metrics     `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		log:           p.Log.Named("http.server"),
		genID:         p.GenID,
		catalog:       p.Catalog,
		kidSvc:        p.KidSvc,
		ledgerSvc:     p.LedgerSvc,
		purchaseSvc:   p.PurchaseSvc,
		assignmentSvc: p.AssignmentSvc,
		journalSvc:    p.JournalSvc,
		rewardSvc:     p.RewardSvc,
		bonusLimiter:  p.BonusLimiter,
		obsMetrics:    p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Kids --------
	api.POST("/kids", s.CreateKid)
	api.GET("/kids", s.ListKids)
	api.GET("/kids/:kidId", s.GetKid)
	api.GET("/kids/:kidId/entitlements", s.GetEntitlements)
	api.POST("/kids/:kidId/tier", s.UnlockTier)

	// -------- Moons --------
	api.POST("/moons", s.AwardBonus)
	api.GET("/moons/history", s.MoonHistory)

	// -------- Purchases --------
	api.POST("/avatar-items/purchase", s.PurchaseAvatarItem)
	api.POST("/avatars/purchase", s.PurchaseAvatar)
	api.POST("/world/:kidId/packs", s.PurchaseWorldPack)

	// -------- Planner --------
	api.POST("/assignments", s.CreateAssignment)
	api.GET("/assignments", s.ListAssignments)
	api.POST("/assignments/:id/complete", s.CompleteAssignment)
	api.POST("/journal", s.SubmitJournalEntry)
	api.GET("/journal", s.ListJournalEntries)

	// -------- Rewards --------
	api.POST("/rewards", s.CreateReward)
	api.GET("/rewards", s.ListRewards)
	api.DELETE("/rewards/:id", s.DeactivateReward)
	api.POST("/rewards/:id/redeem", s.RedeemReward)
	api.GET("/rewards/redemptions", s.ListRedemptions)

	// -------- Catalog --------
	api.GET("/catalog/avatar-items", s.ListCatalogAvatarItems)
	api.GET("/catalog/avatars", s.ListCatalogAvatars)
	api.GET("/catalog/world-packs", s.ListCatalogWorldPacks)
	api.GET("/catalog/tiers", s.ListCatalogTiers)
}
