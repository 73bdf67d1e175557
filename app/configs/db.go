package configs

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func (e ENV) DSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		e.DBUser,
		e.DBPassword,
		e.DBHost,
		e.DBPort,
		e.DBName,
	)
}

func OpenConnection(env ENV, log *zap.Logger) (*gorm.DB, error) {

	maxRetries := 10
	retryDelay := 5 * time.Second

	gormCfg := &gorm.Config{}
	if env.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		log.Info("connecting to database", zap.Int("attempt", i+1), zap.Int("max_attempts", maxRetries), zap.String("host", env.DBHost), zap.String("db", env.DBName))
		db, err := gorm.Open(mysql.Open(env.DSN()), gormCfg)
		if err == nil {

			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					log.Info("database connection established")
					return db, nil
				}
			}

			lastErr = pingErr
			log.Warn("failed to ping database", zap.Error(pingErr), zap.Duration("retry_in", retryDelay))
		} else {
			lastErr = err
			log.Warn("failed to open gorm connection", zap.Error(err), zap.Duration("retry_in", retryDelay))
		}

		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to the database after %d retries: %w", maxRetries, lastErr)
}
