package api

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/config"
	"crown-platform/backend/internal/db/repositories"
	"crown-platform/backend/internal/metrics"
	"crown-platform/backend/internal/providers"
	"crown-platform/backend/internal/services"
)

type Repositories struct {
	Profiles       *repositories.ProfileRepo
	TikTokAccounts *repositories.TikTokAccountRepo
}

type Services struct {
	Cache       common.CacheInterface
	Session     *common.SessionService
	Bus         *common.EventBus
	Engagement  providers.EngagementAPI
	Connections *services.ConnectionService
	AuthFlow    *services.AuthFlowService
	Join        *services.JoinService
	Contests    *services.ContestService
	Leaderboard *services.LeaderboardService
	Media       *services.MediaService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

// InitDependencies wires the service graph once at startup.
func InitDependencies(cfg config.Config, sqlxDB *sqlx.DB, gormDB *gorm.DB, rdb *redis.Client, store services.ObjectStore, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Profiles:       repositories.NewProfileRepo(sqlxDB),
		TikTokAccounts: repositories.NewTikTokAccountRepo(sqlxDB),
	}

	cacheSvc := common.NewCacheService(time.Minute, 10*time.Minute)
	bus := common.NewEventBus()
	engagement := providers.NewEngagementProvider(cfg.EngagementBaseURL, cfg.EngagementAPIKey)

	connectionSvc := services.NewConnectionService(engagement, repos.TikTokAccounts, bus)

	svcs := &Services{
		Cache:       cacheSvc,
		Session:     common.NewSessionService(rdb),
		Bus:         bus,
		Engagement:  engagement,
		Connections: connectionSvc,
		AuthFlow:    services.NewAuthFlowService(engagement),
		Join:        services.NewJoinService(gormDB, engagement, connectionSvc, bus),
		Contests:    services.NewContestService(gormDB, bus),
		Leaderboard: services.NewLeaderboardService(engagement, cacheSvc),
		Media:       services.NewMediaService(gormDB, store, bus),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
	}, nil
}
