package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"motion-logger/controller"
	"motion-logger/models"
	"motion-logger/services/window"
	"motion-logger/utils"
	"motion-logger/views"
)

func main() {
	// ── CLI flags ────────────────────────────────────────────────────
	configPath := flag.String("config", "config/motion.yaml", "path to motion.yaml")
	logFile := flag.String("log", "", "optional log file path (stdout is always included)")
	record := flag.Bool("record", false, "start a logging session immediately")
	flag.Parse()

	// ── Logger ───────────────────────────────────────────────────────
	logger := utils.InitLogger(utils.INFO, *logFile)
	defer logger.Close()

	utils.L().Info("═══════════════════════════════════════════════════")
	utils.L().Info("  motion-logger  ·  3-axis stream recorder")
	utils.L().Info("  PID=%d", os.Getpid())
	utils.L().Info("═══════════════════════════════════════════════════")

	// ── Config ───────────────────────────────────────────────────────
	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		utils.L().Warn("load config: %v — using defaults", err)
		cfg = utils.DefaultConfig()
	}
	utils.ApplyEnv(cfg)

	// Resolve relative base_dir to absolute so export URIs are stable.
	if !filepath.IsAbs(cfg.Storage.BaseDir) {
		abs, _ := filepath.Abs(cfg.Storage.BaseDir)
		cfg.Storage.BaseDir = abs
	}

	// ── Context with OS signal cancellation ──────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// ── Pipeline assembly ────────────────────────────────────────────
	//
	//  sources  ──►  per-stream channels  ──►  DispatcherController
	//                                            │            │
	//                                       window.Store   SessionController
	//                                            │            │
	//                                         LiveView     per-stream .log files

	windows := window.NewStore(cfg.Window.Capacity)
	session := controller.NewSessionController(cfg.Storage.BaseDir)

	sensors, err := controller.NewSensorsController(cfg)
	if err != nil {
		utils.L().Fatal("init sensors controller: %v", err)
	}
	if err := sensors.Start(ctx); err != nil {
		utils.L().Fatal("start sources: %v", err)
	}

	dispatcher := controller.NewDispatcherController(windows, session)
	dispatcher.Start(ctx, sensors)

	live := views.NewLiveView(cfg.Web, windows, session)
	live.Start()

	if *record {
		if token, err := session.Start(); err != nil {
			utils.L().Error("start recording: %v", err)
		} else {
			utils.L().Info("recording session %s", token)
		}
	}

	utils.L().Info("pipeline running — press Ctrl+C to stop")

	// ── Stats ticker ─────────────────────────────────────────────────
	statsTicker := time.NewTicker(5 * time.Second)
	defer statsTicker.Stop()

	// ── Main event loop ──────────────────────────────────────────────
	for {
		select {
		case sig := <-sigCh:
			utils.L().Info("received signal: %v — shutting down…", sig)
			cancel()
			goto shutdown

		case <-ctx.Done():
			goto shutdown

		case <-statsTicker.C:
			utils.L().Info("── stats ─────────────────────────")
			sensors.LogStats()
			utils.L().Info("  dispatched acc=%d gyro=%d  rows=%d",
				dispatcher.Processed(models.StreamAccelerometer),
				dispatcher.Processed(models.StreamGyroscope),
				session.RowsWritten())
			utils.L().Info("──────────────────────────────────")
		}
	}

shutdown:
	// Teardown leaves the session alone; the process stops it explicitly so
	// buffered rows reach disk before exit.
	dispatcher.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	if err := live.Shutdown(shutdownCtx); err != nil {
		utils.L().Warn("live view shutdown: %v", err)
	}

	session.Stop()

	if paths := session.Paths(); len(paths) > 0 {
		utils.L().Info("session logs:")
		for _, p := range paths {
			utils.L().Info("  %s", p)
		}
	}

	fmt.Println("\n✓ motion-logger finished")
}
