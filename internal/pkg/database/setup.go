package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/TierPay/app/models"
	"github.com/ManuelReschke/TierPay/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var DB *gorm.DB

// GetDB returns the shared connection. SetupDatabase must have run.
func GetDB() *gorm.DB {
	return DB
}

func SetupDatabase() {
	var err error
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	logLevel := logger.Warn
	if env.IsDev() {
		logLevel = logger.Info
	}

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{Logger: logger.Default.LogMode(logLevel)})
		if err == nil {
			// Schema changes ship as SQL migrations; AutoMigrate only helps local setups
			if env.GetEnv("DB_AUTO_MIGRATE", "false") == "true" {
				if err := DB.AutoMigrate(
					&models.Agency{},
					&models.Product{},
					&models.Campaign{},
					&models.Sale{},
					&models.CommissionSettings{},
					&models.Commission{},
					&models.PaymentRecord{},
				); err != nil {
					log.Printf("AutoMigrate failed: %v", err)
				}
			}
			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retry in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}
