package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/d2assist/d2assist/internal/actuator"
	"github.com/d2assist/d2assist/internal/capture"
	"github.com/d2assist/d2assist/internal/config"
	"github.com/d2assist/d2assist/internal/detect"
	"github.com/d2assist/d2assist/internal/dispatcher"
	"github.com/d2assist/d2assist/internal/gamestate"
	"github.com/d2assist/d2assist/internal/handlers"
	"github.com/d2assist/d2assist/internal/killsteal"
	"github.com/d2assist/d2assist/internal/logging"
	"github.com/d2assist/d2assist/internal/monitor"
	intOtel "github.com/d2assist/d2assist/internal/otel"
	"github.com/d2assist/d2assist/internal/overlay"
	"github.com/d2assist/d2assist/internal/scheduler"
	"github.com/d2assist/d2assist/internal/storage"
	"github.com/d2assist/d2assist/internal/telemetry"
	"github.com/d2assist/d2assist/internal/tracker"
	"github.com/d2assist/d2assist/internal/ward"
	"github.com/d2assist/d2assist/pkg/core"
)

// version info - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "d2assist"
)

// global state, wired in main
var (
	SessionStartTime time.Time = time.Now()

	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager = logging.NewSlogManager()

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// ZLogger feeds the zerolog-based components (database, telemetry)
	ZLogger zerolog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	// Services
	eventDispatcher *dispatcher.Dispatcher
	handlerService  *handlers.Service
	trackerService  *tracker.Service
	killstealSvc    *killsteal.Service
	monitorService  *monitor.Service
	influxManager   *telemetry.Manager

	// Storage backend
	storageBackend storage.Backend
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configDir := flag.String("config", ".", "directory containing d2assist.cfg.json")
	demoMode := flag.Bool("demo", false, "run with scripted detections and a simulated game state")
	headless := flag.Bool("headless", false, "run without the terminal overlay")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (built %s)\n", AppName, CurrentVersion, BuildDate)
		return
	}

	if err := config.Load(*configDir); err != nil {
		// Defaults still apply; a missing file is the common first run.
		fmt.Fprintf(os.Stderr, "config: %v, continuing with defaults\n", err)
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logs dir: %v\n", err)
		os.Exit(1)
	}

	logFile, err := os.Create(logging.LogFilePath(logsDir, AppName, SessionStartTime))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := setupLogging(logFile, logsDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	Logger.Info("Starting", "app", AppName, "version", CurrentVersion, "demo", *demoMode)

	eventDispatcher, err = dispatcher.New(logging.NewDispatcherLogger(ZLogger))
	if err != nil {
		Logger.Error("Failed to create dispatcher", "error", err)
		os.Exit(1)
	}

	// Detector assets gate startup; the demo detector needs none.
	if !*demoMode {
		detectorCfg := config.GetDetectorConfig()
		if err := detect.VerifyAssets(detectorCfg.WeightsPath, detectorCfg.ConfigPath, detectorCfg.ClassesPath); err != nil {
			Logger.Error("Detector assets missing, aborting", "error", err)
			os.Exit(1)
		}
	}

	if err := initStorage(); err != nil {
		Logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	initTelemetry(logsDir)

	handlerService = handlers.NewService(handlers.Dependencies{
		Backend:    storageBackend,
		Telemetry:  influxManager,
		LogManager: SlogManager,
	})
	handlerService.Register(eventDispatcher)

	ksCfg := config.GetKillstealConfig()
	session := &core.Session{
		ID:        sessionID(),
		Hero:      ksCfg.Hero,
		StartTime: SessionStartTime,
	}
	if err := storageBackend.StartSession(session); err != nil {
		Logger.Error("Failed to start session", "error", err)
		os.Exit(1)
	}

	trackerCfg := config.GetTrackerConfig()
	store := ward.NewStore(trackerCfg.DuplicateWindow)
	detector := detect.NewScriptedDetector()
	source := capture.NewSimulatedSource(1920, 1080)

	trackerService = tracker.NewService(tracker.Dependencies{
		Source:              source,
		Detector:            detector,
		Store:               store,
		Dispatcher:          eventDispatcher,
		Logger:              Logger,
		ConfidenceThreshold: trackerCfg.ConfidenceThreshold,
	})

	gameSource := gamestate.NewSimulated(ksCfg.Hero)
	killstealSvc, err = buildKillsteal(ksCfg, gameSource, logsDir)
	if err != nil {
		Logger.Error("Failed to build killsteal service", "error", err)
		os.Exit(1)
	}

	monitorService = monitor.NewService(monitor.Dependencies{
		Store:      store,
		Killsteal:  killstealSvc,
		Telemetry:  influxManager,
		LogManager: SlogManager,
		StatusDir:  logsDir,
	})
	if err := monitorService.Start(); err != nil {
		Logger.Error("Failed to start monitor", "error", err)
	}

	detectionLoop := scheduler.NewLoop("detection", trackerCfg.DetectionInterval, Logger, func(now time.Time) {
		start := time.Now()
		trackerService.Tick(now)
		writeTickPoint("detection", start, now)
	})
	killstealLoop := scheduler.NewLoop("killsteal", ksCfg.CheckInterval, Logger, func(now time.Time) {
		start := time.Now()
		killstealSvc.Tick(now)
		writeTickPoint("killsteal", start, now)
	})

	if err := detectionLoop.Start(); err != nil {
		Logger.Error("Failed to start detection loop", "error", err)
	}
	if err := killstealLoop.Start(); err != nil {
		Logger.Error("Failed to start killsteal loop", "error", err)
	}

	if *demoMode {
		stopDemo := startDemoFeeder(detector, gameSource)
		defer stopDemo()
	}

	if *headless {
		runHeadless()
	} else {
		if err := runOverlay(trackerCfg.OverlayInterval, ksCfg.EnableHotkey); err != nil {
			Logger.Error("Overlay failed", "error", err)
		}
	}

	// Shutdown
	Logger.Info("Shutting down")
	detectionLoop.Stop()
	killstealLoop.Stop()
	monitorService.Stop()

	if _, err := eventDispatcher.Dispatch(dispatcher.Event{
		Command: handlers.CommandSave,
		Time:    time.Now(),
	}); err != nil {
		Logger.Error("Failed to save session", "error", err)
	}
	if err := storageBackend.Close(); err != nil {
		Logger.Error("Failed to close storage backend", "error", err)
	}
	if influxManager != nil {
		influxManager.Close()
	}

	if err := config.Save(filepath.Join(*configDir, "d2assist.cfg.json")); err != nil {
		Logger.Error("Failed to save config", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := SlogManager.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
	}
	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to shut down OTel: %v\n", err)
		}
	}
}

// sessionID identifies this run in logs and stored sessions.
func sessionID() string {
	return fmt.Sprintf("%s-%d", AppName, SessionStartTime.Unix())
}

// setupLogging wires the slog manager, the zerolog adapter, OTel, and
// the optional Graylog handler.
func setupLogging(logFile *os.File, logsDir string) error {
	otelCfg := config.GetOTelConfig()

	var err error
	OTelProvider, err = intOtel.New(intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    logFile,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		return fmt.Errorf("otel provider: %w", err)
	}

	level := viper.GetString("logLevel")

	var extra []slog.Handler
	if viper.GetBool("graylog.enabled") {
		gelfHandler, err := logging.NewGelfHandler(viper.GetString("graylog.address"), level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "graylog unavailable: %v\n", err)
		} else {
			extra = append(extra, gelfHandler)
		}
	}

	// Every record carries the session identity.
	SlogManager.SetContextProvider(func() []slog.Attr {
		return []slog.Attr{
			slog.String("session", sessionID()),
			slog.String("hero", config.GetKillstealConfig().Hero),
		}
	})

	SlogManager.Setup(logFile, level, OTelProvider.LoggerProvider(), extra...)
	Logger = SlogManager.Logger()
	ZLogger = zerolog.New(logFile).With().Timestamp().Logger()
	return nil
}

// initTelemetry connects the InfluxDB manager when enabled.
func initTelemetry(logsDir string) {
	if !viper.GetBool("influx.enabled") {
		return
	}

	backupPath := filepath.Join(logsDir, fmt.Sprintf("%s_metrics_%s.gz", AppName, SessionStartTime.Format("20060102_150405")))
	influxManager = telemetry.NewManager(ZLogger, backupPath)
	if err := influxManager.Connect(); err != nil {
		Logger.Warn("InfluxDB unavailable", "error", err)
	}
}

// buildKillsteal assembles the selector, actuator, and evaluator from
// configuration.
func buildKillsteal(cfg config.KillstealConfig, source gamestate.Source, logsDir string) (*killsteal.Service, error) {
	abilityCfgs, err := config.GetHeroAbilities(cfg.Hero)
	if err != nil {
		return nil, err
	}
	if len(abilityCfgs) == 0 {
		return nil, fmt.Errorf("no abilities configured for hero %s", cfg.Hero)
	}

	var act actuator.Actuator
	if cfg.UseConsoleCommands {
		// The overlay owns the terminal, so console commands go to a file.
		commandFile, err := os.Create(filepath.Join(logsDir, "commands.log"))
		if err != nil {
			return nil, fmt.Errorf("command file: %w", err)
		}
		act = actuator.NewConsole(commandFile, cfg.ConsoleCommandPrefix)
	} else {
		act = actuator.NewRecording()
	}

	return killsteal.NewService(killsteal.Dependencies{
		Hero:       cfg.Hero,
		Source:     source,
		Actuator:   act,
		Selector:   killsteal.NewSelector(killsteal.AbilitiesFromConfig(abilityCfgs), cfg.GlobalCooldown),
		Dispatcher: eventDispatcher,
		Logger:     Logger,
	}), nil
}

// runOverlay drives the terminal overlay until the user quits.
func runOverlay(interval time.Duration, hotkeyName string) error {
	hotkey, err := overlay.ParseHotkey(hotkeyName)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}

	renderer := overlay.NewRenderer(screen, overlay.Dependencies{
		Tracker: trackerService,
		Toggler: killstealSvc,
		Logger:  Logger,
		Hotkey:  hotkey,
	})
	defer renderer.Stop()

	renderLoop := scheduler.NewLoop("overlay", interval, Logger, renderer.Render)
	if err := renderLoop.Start(); err != nil {
		return err
	}
	defer renderLoop.Stop()

	renderer.Run()
	return nil
}

// runHeadless blocks until SIGINT/SIGTERM, sweeping the store on the
// overlay cadence so expiries still fire.
func runHeadless() {
	trackerCfg := config.GetTrackerConfig()
	sweepLoop := scheduler.NewLoop("sweep", trackerCfg.OverlayInterval, Logger, func(now time.Time) {
		trackerService.Snapshot(now)
	})
	if err := sweepLoop.Start(); err != nil {
		Logger.Error("Failed to start sweep loop", "error", err)
	}
	defer sweepLoop.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}

// writeTickPoint ships a loop timing to telemetry when it is up.
func writeTickPoint(loop string, start time.Time, now time.Time) {
	if influxManager == nil {
		return
	}
	bucket, point := telemetry.TickDurationPoint(loop, time.Since(start), now)
	if err := influxManager.WritePoint(context.Background(), bucket, point); err != nil {
		Logger.Debug("Failed to write tick point", "error", err)
	}
}
