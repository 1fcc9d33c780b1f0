package db

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/certtrack/exam-center/internal/config"
	"github.com/certtrack/exam-center/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Franchise{},
		&models.User{},
		&models.ExamRecord{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	seedSuperadmin(db, cfg, log)

	return db
}

// seedSuperadmin creates the bootstrap superadmin from the environment
// when no superadmin exists yet. There is no registration endpoint for
// the first account.
func seedSuperadmin(db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	if cfg.SeedSuperadminUsername == "" || cfg.SeedSuperadminPassword == "" {
		return
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleSuperadmin).
		Count(&count).Error; err != nil {
		log.Error("superadmin seed check failed", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedSuperadminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("superadmin seed hash failed", zap.Error(err))
		return
	}

	su := models.User{
		Username:     cfg.SeedSuperadminUsername,
		PasswordHash: string(hashed),
		Name:         cfg.SeedSuperadminName,
		Role:         models.RoleSuperadmin,
	}
	if err := db.Create(&su).Error; err != nil {
		log.Error("superadmin seed failed", zap.Error(err))
		return
	}

	log.Info("seeded superadmin", zap.String("username", su.Username))
}
