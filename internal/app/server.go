package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RuchiketJadhav/sammati-approval/internal/api/router"
	"github.com/RuchiketJadhav/sammati-approval/pkg/config"
	"github.com/RuchiketJadhav/sammati-approval/pkg/database"
	"github.com/RuchiketJadhav/sammati-approval/pkg/logger"
	pkgredis "github.com/RuchiketJadhav/sammati-approval/pkg/redis"
)

// StartServer 启动 HTTP 服务器
func StartServer(cfg *config.Config, handlers *Handlers, services *Services) {
	// Setup router
	r := router.Setup(
		handlers.Auth,
		handlers.Proposal,
		handlers.Approval,
		handlers.ProposalType,
		services.Auth,
		cfg.Server.Mode,
	)

	// Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.APIPort)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	printStartupBanner(cfg)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Infof("\nShutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// 1. Shutdown HTTP server
	logger.Infof("  → Stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Infof("  Warning: HTTP server shutdown error: %v", err)
	} else {
		logger.Infof("  ✓ HTTP server stopped")
	}

	// 2. Close database
	logger.Infof("  → Closing database...")
	database.Close()
	logger.Infof("  ✓ Database closed")

	// 3. Close Redis if enabled
	if pkgredis.IsEnabled() {
		logger.Infof("  → Closing Redis...")
		pkgredis.Close()
		logger.Infof("  ✓ Redis closed")
	}

	logger.Infof("")
	logger.Infof("Shutdown complete")
}

// printStartupBanner 打印启动横幅
func printStartupBanner(cfg *config.Config) {
	logger.Infof("")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("Sammati Approval Server v1.0")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("")
	logger.Infof("Features:")
	logger.Infof("   • Multi-stage approval workflow (superior → admin → approvers → registrar)")
	logger.Infof("   • Dynamic approver rosters with fan-out/fan-in")
	logger.Infof("   • Revision cycles and resubmission tracking")
	logger.Infof("   • Custom proposal types with form fields")
	logger.Infof("")
	logger.Infof("   • API Server - :%d", cfg.Server.APIPort)
	if cfg.Redis.Enabled {
		logger.Infof("   • Proposal locks - Redis (multi-instance safe)")
	} else {
		logger.Infof("   • Proposal locks - in-process (single instance)")
	}
	logger.Infof("")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("")
}
