package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/archivus/archive-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db *gorm.DB

	user         repositories.UserRepository
	catalog      repositories.CatalogRepository
	document     repositories.DocumentRepository
	uploadLog    repositories.UploadLogRepository
	points       repositories.PointsRepository
	refreshToken repositories.RefreshTokenRepository
	dashboard    repositories.DashboardRepository
	about        repositories.AboutRepository
}

// NewPostgreSQLRepository creates a repository with all sub-repositories
// bound to the given database handle.
func NewPostgreSQLRepository(db *gorm.DB) repositories.Repository {
	return newWithDB(db)
}

func newWithDB(db *gorm.DB) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:           db,
		user:         NewUserPostgreSQL(db),
		catalog:      NewCatalogPostgreSQL(db),
		document:     NewDocumentPostgreSQL(db),
		uploadLog:    NewUploadLogPostgreSQL(db),
		points:       NewPointsPostgreSQL(db),
		refreshToken: NewRefreshTokenPostgreSQL(db),
		dashboard:    NewDashboardPostgreSQL(db),
		about:        NewAboutPostgreSQL(db),
	}
}

func (r *PostgreSQLRepository) User() repositories.UserRepository { return r.user }

func (r *PostgreSQLRepository) Catalog() repositories.CatalogRepository { return r.catalog }

func (r *PostgreSQLRepository) Document() repositories.DocumentRepository { return r.document }

func (r *PostgreSQLRepository) UploadLog() repositories.UploadLogRepository { return r.uploadLog }

func (r *PostgreSQLRepository) Points() repositories.PointsRepository { return r.points }

func (r *PostgreSQLRepository) RefreshToken() repositories.RefreshTokenRepository {
	return r.refreshToken
}

func (r *PostgreSQLRepository) Dashboard() repositories.DashboardRepository { return r.dashboard }

func (r *PostgreSQLRepository) About() repositories.AboutRepository { return r.about }

// WithTransaction executes fn against a repository whose sub-repositories
// all share one database transaction.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newWithDB(tx))
	})
}

// Ping checks the health of the database connection
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// RepositoryManager manages repository lifecycle
type RepositoryManager struct {
	db   *gorm.DB
	repo repositories.Repository
}

func NewRepositoryManager(db *gorm.DB) *RepositoryManager {
	return &RepositoryManager{db: db}
}

// Initialize validates the connection and builds the repository.
func (rm *RepositoryManager) Initialize() error {
	if rm.db == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	rm.repo = NewPostgreSQLRepository(rm.db)
	return nil
}

func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}
	return rm.repo.Ping(ctx)
}

func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}
	return rm.repo.Close()
}
