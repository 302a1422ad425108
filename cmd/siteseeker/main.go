// Entry point for the siteseeker HTTP service: config, logging, engine,
// chi router, optional MCP stdio transport, graceful shutdown.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/nourishdc/siteseeker"
	"github.com/nourishdc/siteseeker/common/logger"
	"github.com/nourishdc/siteseeker/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = config.Default()
			cfg.ApplyEnv()
			logger.Warnf("config %s not found, using defaults", *configPath)
		} else {
			logger.Errorf("loading config: %v", err)
			os.Exit(1)
		}
	}
	logger.Setup(cfg.LogLevel)

	engine, err := siteseeker.NewEngine(cfg)
	if err != nil {
		logger.Errorf("starting engine: %v", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.MCP.Enabled {
		go func() {
			logger.Infof("mcp: serving on stdio")
			if err := mcpserver.ServeStdio(siteseeker.NewMCPServer(engine)); err != nil {
				logger.Errorf("mcp: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           siteseeker.NewRouter(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("siteseeker %s listening on %s (%d sites)",
			siteseeker.Version, cfg.Server.Address, engine.Catalog().Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("http server: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
}
