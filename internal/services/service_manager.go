package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/archivus/archive-service/internal/cache"
	"github.com/archivus/archive-service/internal/config"
	"github.com/archivus/archive-service/internal/events"
	"github.com/archivus/archive-service/internal/repositories"
	"github.com/archivus/archive-service/internal/storage"
	"github.com/archivus/archive-service/internal/validator"
)

// ServiceManagerDeps carries everything the services need.
type ServiceManagerDeps struct {
	Repo        repositories.Repository
	RedisClient *redis.Client
	Storage     storage.Storage
	Publisher   events.Publisher
	Validator   *validator.BusinessValidator
	Casdoor     CasdoorVerifier
	JWT         config.JWTConfig
	Logger      *slog.Logger
}

// serviceManager implements ServiceManager
type serviceManager struct {
	deps ServiceManagerDeps

	tokenService     TokenService
	authService      AuthService
	documentService  DocumentService
	dashboardService DashboardService
	pointsService    PointsService
	lookupService    LookupService
	aboutService     AboutService
	exportService    ExportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(deps ServiceManagerDeps) ServiceManager {
	return &serviceManager{deps: deps}
}

// Initialize wires up all services.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.deps.Repo == nil {
		return fmt.Errorf("repository is required")
	}

	logger := sm.deps.Logger
	logger.Info("initializing service manager")

	blacklist := cache.NewTokenBlacklist(sm.deps.RedisClient)
	dashboardCache := cache.NewCacheHelper(sm.deps.RedisClient, cache.DashboardCacheConfig.Prefix)
	lookupCache := cache.NewCacheHelper(sm.deps.RedisClient, cache.LookupCacheConfig.Prefix)

	sm.tokenService = NewTokenService(sm.deps.Repo, blacklist, sm.deps.JWT, logger)
	sm.authService = NewAuthService(sm.deps.Repo, sm.tokenService, sm.deps.Validator, sm.deps.Casdoor, logger)
	sm.documentService = NewDocumentService(sm.deps.Repo, sm.deps.Storage, sm.deps.Publisher, sm.deps.Validator, logger)
	sm.dashboardService = NewDashboardService(sm.deps.Repo, dashboardCache, logger)
	sm.pointsService = NewPointsService(sm.deps.Repo, logger)
	sm.lookupService = NewLookupService(sm.deps.Repo, lookupCache, logger)
	sm.aboutService = NewAboutService(sm.deps.Repo, sm.deps.Storage, logger)
	sm.exportService = NewExportService(sm.deps.Repo, logger)

	sm.initialized = true
	logger.Info("service manager initialized")
	return nil
}

func (sm *serviceManager) Token() TokenService {
	return sm.get(func() interface{} { return sm.tokenService }).(TokenService)
}

func (sm *serviceManager) Auth() AuthService {
	return sm.get(func() interface{} { return sm.authService }).(AuthService)
}

func (sm *serviceManager) Document() DocumentService {
	return sm.get(func() interface{} { return sm.documentService }).(DocumentService)
}

func (sm *serviceManager) Dashboard() DashboardService {
	return sm.get(func() interface{} { return sm.dashboardService }).(DashboardService)
}

func (sm *serviceManager) Points() PointsService {
	return sm.get(func() interface{} { return sm.pointsService }).(PointsService)
}

func (sm *serviceManager) Lookup() LookupService {
	return sm.get(func() interface{} { return sm.lookupService }).(LookupService)
}

func (sm *serviceManager) About() AboutService {
	return sm.get(func() interface{} { return sm.aboutService }).(AboutService)
}

func (sm *serviceManager) Export() ExportService {
	return sm.get(func() interface{} { return sm.exportService }).(ExportService)
}

func (sm *serviceManager) get(fn func() interface{}) interface{} {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	svc := fn()
	if svc == nil {
		panic("service not initialized")
	}
	return svc
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}
	sm.deps.Logger.Info("shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("failed to close event publisher", "error", err)
		}
	}
	if err := sm.deps.Repo.Close(); err != nil {
		sm.deps.Logger.Error("failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.deps.Logger.Info("service manager shut down")
	return nil
}
