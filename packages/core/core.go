package core

import (
	"context"
	"math/rand"
	"time"

	"robotics-event-api/packages/core/cron"
	"robotics-event-api/packages/core/handlers"
	"robotics-event-api/packages/core/middleware"
	"robotics-event-api/packages/core/models"
	"robotics-event-api/packages/core/realtime"
	"robotics-event-api/packages/core/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options carries the settings the module needs from the process config.
type Options struct {
	JWTSecret      string
	MatchInterval  time.Duration
	MatchDuration  time.Duration
	LoadedMatchTTL time.Duration
	AutoEndSpec    string
	AllowedOrigins []string
	Settings       models.CompetitionSettings
	Rand           *rand.Rand
}

type Module struct {
	TeamHandler              *handlers.TeamHandler
	TeamService              *services.TeamService
	ScoreTypeHandler         *handlers.ScoreTypeHandler
	ScoreTypeService         *services.ScoreTypeService
	MatchHandler             *handlers.MatchHandler
	MatchService             *services.MatchService
	QualificationScheduler   *services.QualificationScheduler
	ScoreHandler             *handlers.ScoreHandler
	ScoreService             *services.ScoreService
	AllianceSelectionHandler *handlers.AllianceSelectionHandler
	AllianceSelectionService *services.AllianceSelectionService
	EliminationHandler       *handlers.EliminationHandler
	EliminationService       *services.EliminationService
	StatsHandler             *handlers.StatsHandler
	StatsService             *services.StatsService
	WebSocketHandler         *handlers.WebSocketHandler
	AutoEndService           *services.AutoEndService
	Hub                      *realtime.Hub
	Scheduler                *cron.Scheduler
	jwtSecret                string
	logger                   *zap.Logger
}

func NewModule(db *gorm.DB, opts Options, logger *zap.Logger) *Module {
	if logger == nil {
		logger = zap.NewNop()
	}

	hub := realtime.NewHub(logger.Named("hub"))

	teamService := services.NewTeamService(db)
	scoreTypeService := services.NewScoreTypeService(db)
	matchService := services.NewMatchService(db, hub, opts.LoadedMatchTTL, logger.Named("matches"))
	scheduler := services.NewQualificationScheduler(db, opts.Rand, opts.MatchInterval, logger.Named("schedule"))
	scoreService := services.NewScoreService(db, hub, logger.Named("scores"))
	selectionService := services.NewAllianceSelectionService(db, logger.Named("selection"))
	eliminationService := services.NewEliminationService(db, opts.MatchInterval, logger.Named("elimination"))
	statsService := services.NewStatsService(db)

	autoEndService := services.NewAutoEndService(db, matchService, opts.MatchDuration, logger.Named("auto-end"))
	cronScheduler := cron.NewScheduler(autoEndService, opts.AutoEndSpec, logger)

	return &Module{
		TeamHandler:              handlers.NewTeamHandler(teamService),
		TeamService:              teamService,
		ScoreTypeHandler:         handlers.NewScoreTypeHandler(scoreTypeService),
		ScoreTypeService:         scoreTypeService,
		MatchHandler:             handlers.NewMatchHandler(matchService, scheduler),
		MatchService:             matchService,
		QualificationScheduler:   scheduler,
		ScoreHandler:             handlers.NewScoreHandler(scoreService),
		ScoreService:             scoreService,
		AllianceSelectionHandler: handlers.NewAllianceSelectionHandler(selectionService),
		AllianceSelectionService: selectionService,
		EliminationHandler:       handlers.NewEliminationHandler(eliminationService),
		EliminationService:       eliminationService,
		StatsHandler:             handlers.NewStatsHandler(statsService, opts.Settings),
		StatsService:             statsService,
		WebSocketHandler:         handlers.NewWebSocketHandler(hub, opts.AllowedOrigins, logger.Named("ws")),
		AutoEndService:           autoEndService,
		Hub:                      hub,
		Scheduler:                cronScheduler,
		jwtSecret:                opts.JWTSecret,
		logger:                   logger,
	}
}

func (m *Module) SetupRoutes(r *gin.Engine) {
	auth := middleware.JWTMiddleware(m.jwtSecret)
	admin := middleware.RequireRole(middleware.RoleAdmin)
	referee := middleware.RequireAnyRole(middleware.RoleAdmin, middleware.RoleReferee)

	teams := r.Group("/teams")
	{
		teams.GET("", m.TeamHandler.GetTeams)
		teams.GET("/:id", m.TeamHandler.GetTeam)
		teams.POST("", auth, admin, m.TeamHandler.CreateTeam)
		teams.PUT("/:id", auth, admin, m.TeamHandler.UpdateTeam)
		teams.DELETE("/:id", auth, admin, m.TeamHandler.DeleteTeam)
	}
	r.GET("/alliances", m.TeamHandler.GetAlliances)

	scoreTypes := r.Group("/score-types")
	{
		scoreTypes.GET("", m.ScoreTypeHandler.GetScoreTypes)
		scoreTypes.POST("", auth, admin, m.ScoreTypeHandler.CreateScoreType)
		scoreTypes.PUT("/:id", auth, admin, m.ScoreTypeHandler.UpdateScoreType)
		scoreTypes.DELETE("/:id", auth, admin, m.ScoreTypeHandler.DeleteScoreType)
	}
	scoreTypeGroups := r.Group("/score-type-groups")
	{
		scoreTypeGroups.GET("", m.ScoreTypeHandler.GetGroups)
		scoreTypeGroups.POST("", auth, admin, m.ScoreTypeHandler.CreateGroup)
		scoreTypeGroups.PUT("/:id", auth, admin, m.ScoreTypeHandler.UpdateGroup)
		scoreTypeGroups.DELETE("/:id", auth, admin, m.ScoreTypeHandler.DeleteGroup)
	}

	matches := r.Group("/matches")
	{
		matches.GET("", m.MatchHandler.GetMatches)
		matches.GET("/loaded", m.MatchHandler.GetLoadedMatch)
		matches.GET("/:id", m.MatchHandler.GetMatch)
		matches.GET("/:id/scoreboard", m.ScoreHandler.GetScoreboard)
		matches.POST("/generate", auth, admin, m.MatchHandler.GenerateSchedule)
		matches.DELETE("", auth, admin, m.MatchHandler.DeleteAllMatches)
		matches.POST("/:id/start", auth, referee, m.MatchHandler.StartMatch)
		matches.POST("/:id/end", auth, referee, m.MatchHandler.EndMatch)
		matches.POST("/:id/cancel", auth, referee, m.MatchHandler.CancelMatch)
		matches.POST("/:id/load", auth, referee, m.MatchHandler.LoadMatch)
		matches.POST("/:id/scores", auth, referee, m.ScoreHandler.RecordScore)
	}
	r.DELETE("/scores/:id", auth, referee, m.ScoreHandler.DeleteScore)

	r.GET("/rankings", m.AllianceSelectionHandler.GetRankings)
	selection := r.Group("/alliance-selection")
	{
		selection.GET("", m.AllianceSelectionHandler.GetStatus)
		selection.GET("/available-teams", m.AllianceSelectionHandler.GetAvailableTeams)
		selection.POST("/start", auth, admin, m.AllianceSelectionHandler.StartSelection)
		selection.POST("/groups/:id/invite", auth, admin, m.AllianceSelectionHandler.InviteTeam)
		selection.POST("/groups/:id/accept", auth, admin, m.AllianceSelectionHandler.AcceptPick)
		selection.POST("/groups/:id/decline", auth, admin, m.AllianceSelectionHandler.DeclinePick)
		selection.DELETE("", auth, admin, m.AllianceSelectionHandler.Reset)
	}

	elimination := r.Group("/elimination")
	{
		elimination.GET("", m.EliminationHandler.GetBracket)
		elimination.GET("/series/:id/result", m.EliminationHandler.GetSeriesResult)
		elimination.POST("/generate", auth, admin, m.EliminationHandler.GenerateBracket)
		elimination.POST("/series/:id/check-winner", auth, referee, m.EliminationHandler.CheckWinner)
		elimination.POST("/series/:id/tiebreaker", auth, admin, m.EliminationHandler.GenerateTiebreaker)
		elimination.DELETE("", auth, admin, m.EliminationHandler.Reset)
	}

	ws := r.Group("/ws")
	{
		ws.GET("/match-control", m.WebSocketHandler.ServeMatchControl)
		ws.GET("/matches/:id", m.WebSocketHandler.ServeMatch)
	}

	r.GET("/stats", m.StatsHandler.GetStats)
	r.GET("/settings/competition", m.StatsHandler.GetSettings)
}

// Start runs the websocket hub until ctx is cancelled and starts the cron
// scheduler.
func (m *Module) Start(ctx context.Context) error {
	go m.Hub.Run(ctx)
	m.logger.Info("starting core module scheduler")
	return m.Scheduler.Start()
}

// StopScheduler stops the cron scheduler
func (m *Module) StopScheduler() {
	m.logger.Info("stopping core module scheduler")
	m.Scheduler.Stop()
}

// RunAutoEndNow manually triggers the auto-end job
func (m *Module) RunAutoEndNow() {
	m.Scheduler.RunNow()
}
