package app

import (
	"log"
	"os"

	"github.com/RuchiketJadhav/sammati-approval/pkg/config"
	"github.com/RuchiketJadhav/sammati-approval/pkg/database"
	"github.com/RuchiketJadhav/sammati-approval/pkg/logger"
	pkgredis "github.com/RuchiketJadhav/sammati-approval/pkg/redis"
)

// Bootstrap 初始化基础设施（logger, database, redis）
func Bootstrap(cfgPath string) (*config.Config, error) {
	// 支持通过环境变量指定配置文件路径
	if cfgPath == "" {
		cfgPath = os.Getenv("SAMMATI_CONFIG")
		if cfgPath == "" {
			cfgPath = "config/config.yaml"
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	// Initialize logger
	if err := logger.Init(&cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize database
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	logger.Infof("Database initialized successfully")

	// Initialize Redis (optional, for multi-instance deployments)
	if err := pkgredis.Init(&cfg.Redis); err != nil {
		logger.Warnf("Redis initialization failed: %v", err)
		logger.Info("   → Proposal locks will run in-process (single-server deployment)")
	} else if cfg.Redis.Enabled {
		logger.Infof("Redis initialized successfully - distributed proposal locks enabled")
	} else {
		logger.Info("Redis is disabled in config - proposal locks run in-process")
	}

	return cfg, nil
}
