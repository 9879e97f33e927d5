package database

import (
	"errors"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	config "github.com/anjiri1684/learnsphere/configs"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const pgUniqueViolation = "23505"

func ConnectDB() {
	db, err := Open(postgres.Open(config.Config("DATABASE_URL")))
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	DB = db
	slog.Info("database connected")
}

// Open opens a gorm handle with the settings every environment shares.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		}),
	})
}

func Migrate() {
	if err := AutoMigrate(DB); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("database migration successful")
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Test{},
		&models.Question{},
		&models.TestSubmission{},
		&models.SuspiciousActivity{},
		&models.Feedback{},
		&models.AssignmentSubmission{},
		&models.VideoProgress{},
		&models.Certificate{},
	)
}

// IsUniqueViolation reports whether err came from a unique index rejecting
// an insert, whichever driver produced it.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
