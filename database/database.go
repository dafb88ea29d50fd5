package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/portfolio-content-backend/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	projectRepo *ProjectRepo
	contactRepo *ContactRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo: NewProjectRepo(db),
		contactRepo: NewContactRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

// Open connects to the database selected by DB_TYPE:
//   - supa: Supabase Postgres from the SUPABASE_DB_* variables
//   - postgres: any Postgres reachable through DATABASE_DSN
//   - sqlite: a local file at SQLITE_PATH, for development
//
// When DB_REPLICA_DSN is set, reads are routed to that Postgres replica.
func Open(c map[string]string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	gormConfig := &gorm.Config{
		PrepareStmt: false,
		Logger:      gormLogger,
	}

	dbType := config.GetString(c, "DB_TYPE", "supa")

	var dialector gorm.Dialector
	switch dbType {
	case "supa":
		connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", "postgres"),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
		dialector = postgres.New(postgres.Config{DSN: connStr, PreferSimpleProtocol: true})
	case "postgres":
		dialector = postgres.Open(config.GetString(c, "DATABASE_DSN", ""))
	case "sqlite":
		path := config.GetString(c, "SQLITE_PATH", "./portfolio.db")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if replica := config.GetString(c, "DB_REPLICA_DSN", ""); replica != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(replica)},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("failed to register read replica: %w", err)
		}
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the tables backing projects, tags and contact info
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllRows()...)
}
