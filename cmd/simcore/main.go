package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/armada-sim/simcore/internal/api"
	"github.com/armada-sim/simcore/internal/cache"
	"github.com/armada-sim/simcore/internal/config"
	"github.com/armada-sim/simcore/internal/database"
	"github.com/armada-sim/simcore/internal/dispatcher"
	"github.com/armada-sim/simcore/internal/influx"
	"github.com/armada-sim/simcore/internal/logging"
	"github.com/armada-sim/simcore/internal/monitor"
	intOtel "github.com/armada-sim/simcore/internal/otel"
	"github.com/armada-sim/simcore/internal/rules"
	"github.com/armada-sim/simcore/internal/run"
	"github.com/armada-sim/simcore/internal/runner"
	"github.com/armada-sim/simcore/internal/scenario"
	"github.com/armada-sim/simcore/internal/storage"
	gormstorage "github.com/armada-sim/simcore/internal/storage/gorm"
	"github.com/armada-sim/simcore/internal/worker"
	"github.com/armada-sim/simcore/pkg/core"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const AppName = "simcore"

var (
	CurrentVersion = "dev"
	BuildDate      = "unknown"
)

// app holds everything one command invocation sets up and tears down.
type app struct {
	sessionStart time.Time

	logFile *os.File
	otel    *intOtel.Provider
	slogMgr *logging.SlogManager
	logger  *slog.Logger
	zlog    zerolog.Logger
	runCtx  *run.Context
	backend storage.Backend
	influx  *influx.Manager
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var err error
	switch strings.ToLower(os.Args[1]) {
	case "run":
		err = runCmd(os.Args[2:])
	case "migrate":
		err = migrateCmd(os.Args[2:])
	case "dumps":
		err = dumpsCmd(os.Args[2:])
	case "import":
		err = importCmd(os.Args[2:])
	case "schema":
		err = schemaCmd(os.Args[2:])
	case "version":
		fmt.Printf("%s %s (built %s)\n", AppName, CurrentVersion, BuildDate)
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `Usage: %s <command> [arguments]

Commands:
  run <scenario.json> [-config dir]   simulate a scenario and record it
  migrate [-config dir]               create the schema in the configured Postgres database
  dumps [-config dir] [dir]           list the runs stored in SQLite dump files
  import <dump.db> [-config dir]      replay the runs of a SQLite dump into the configured storage
  schema <out.json>                   write the JSON schema of scenario files
  version                             print the version
`, AppName)
}

// parseArgs accepts flags before or after the positional arguments.
func parseArgs(name string, args []string) (configDir string, positional []string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	dir := fs.String("config", ".", "directory containing "+config.ConfigFileName)
	for {
		if err := fs.Parse(args); err != nil {
			return "", nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	return *dir, positional, nil
}

func loadConfig(dir string) error {
	err := config.Load(dir)
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return err
	}
	return nil
}

func runCmd(args []string) error {
	configDir, positional, err := parseArgs("run", args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("run needs exactly one scenario file, got %d", len(positional))
	}
	if err := loadConfig(configDir); err != nil {
		return err
	}

	a := &app{sessionStart: time.Now(), runCtx: run.NewContext()}
	defer a.close()

	if err := a.initLogging(); err != nil {
		return err
	}

	r, err := rules.New(config.GetRulesConfig())
	if err != nil {
		a.logger.Error("Invalid rules", "error", err)
		return err
	}
	sc, err := scenario.Open(positional[0], r)
	if err != nil {
		a.logger.Error("Failed to load scenario", "path", positional[0], "error", err)
		return err
	}
	a.logger.Info("Scenario loaded", "name", sc.Name, "ticks", sc.Ticks, "vehicles", len(sc.Vehicles), "orders", len(sc.Orders))

	if err := a.initStorage(); err != nil {
		return err
	}
	a.initInflux()

	d, err := dispatcher.New(a.logger)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	workerManager := worker.NewManager(worker.Dependencies{
		VehicleCache: cache.NewVehicleCache(),
		LogManager:   a.slogMgr,
	}, a.backend)
	workerManager.RegisterHandlers(d)

	recorderCfg := config.GetRecorderConfig()
	opts := runner.Options{
		StateInterval: recorderCfg.StateInterval,
		Tag:           recorderCfg.Tag,
		RulesSnapshot: viper.GetStringMap("rules"),
		Logger:        a.logger,
		Meter:         a.otel.Meter("github.com/armada-sim/simcore/internal/runner"),
		RunContext:    a.runCtx,
	}
	if a.influx != nil {
		opts.Ticks = a.influx
	}
	rn, err := runner.New(r, sc, d, a.backend, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var statusMonitor *monitor.Service
	if monCfg := config.GetMonitorConfig(); monCfg.Enabled {
		statusMonitor = monitor.NewService(monitor.Dependencies{
			LogManager:    a.slogMgr,
			RunContext:    a.runCtx,
			WorkerManager: workerManager,
			StatusPath:    filepath.Join(viper.GetString("logsDir"), "status.json"),
			Interval:      monCfg.Interval,
		})
		if err := statusMonitor.Start(); err != nil {
			a.logger.Warn("Status monitor disabled", "error", err)
		}
	}

	summary, runErr := rn.Run(ctx)
	if statusMonitor != nil {
		statusMonitor.Stop()
	}
	if summary != nil {
		printSummary(os.Stdout, sc.Name, summary, workerManager.Stats(), rn.Dropped())
		if exp, ok := a.backend.(storage.Exporter); ok && exp.ExportedFilePath() != "" {
			fmt.Printf("  export:      %s\n", exp.ExportedFilePath())
			a.upload(exp.ExportedFilePath(), sc, summary, recorderCfg.Tag)
		}
	}
	if last := workerManager.GetLastDBWriteDuration(); last > 0 {
		a.logger.Info("Last DB write", "duration", last)
	}
	return runErr
}

func printSummary(w io.Writer, name string, s *core.RunSummary, ws worker.Stats, dropped int) {
	fmt.Fprintf(w, "run %q (id %d) ended at tick %d: winner %s\n", name, s.RunID, s.EndTick, s.Winner)
	fmt.Fprintf(w, "  moves:       %d accepted, %d rejected\n", s.MovesAccepted, s.MovesRejected)
	fmt.Fprintf(w, "  combat:      %d attacks, %d damage, %d kills\n", s.Attacks, s.Damage, s.Kills)
	fmt.Fprintf(w, "  alive:       %d mine, %d enemy\n", s.AliveMine, s.AliveEnemy)
	fmt.Fprintf(w, "  recorded:    %d states, %d attacks, %d strikes, %d kills, %d failed, %d dropped\n",
		ws.States, ws.Attacks, ws.Nuclear, ws.Kills, ws.Failures, dropped)
}

func migrateCmd(args []string) error {
	configDir, _, err := parseArgs("migrate", args)
	if err != nil {
		return err
	}
	if err := loadConfig(configDir); err != nil {
		return err
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	dbm := database.NewManager(zlog)
	if err := dbm.Connect(); err != nil {
		return err
	}
	defer dbm.SqlDB.Close()
	if dbm.ShouldSaveLocal {
		return errors.New("postgres is unreachable, nothing migrated")
	}
	return dbm.Setup()
}

func dumpsCmd(args []string) error {
	configDir, positional, err := parseArgs("dumps", args)
	if err != nil {
		return err
	}
	if err := loadConfig(configDir); err != nil {
		return err
	}
	dir := config.GetStorageConfig().SQLite.DumpDir
	if len(positional) > 0 {
		dir = positional[0]
	}

	paths, err := database.GetBackupDBPaths(dir)
	if err != nil {
		return fmt.Errorf("failed to list dumps in %s: %w", dir, err)
	}
	for _, path := range paths {
		db, err := database.GetSqliteDBStandalone(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		runs, err := gormstorage.ListRuns(db)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		}
		for _, r := range runs {
			fmt.Printf("%s\t%d\t%s\t%s\tticks=%d\n",
				filepath.Base(path), r.ID, r.Name, r.StartTime.Format(time.RFC3339), r.Ticks)
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return nil
}

func importCmd(args []string) error {
	configDir, positional, err := parseArgs("import", args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("import needs one SQLite dump file")
	}
	if err := loadConfig(configDir); err != nil {
		return err
	}

	a := &app{sessionStart: time.Now(), runCtx: run.NewContext()}
	defer a.close()
	if err := a.initLogging(); err != nil {
		return err
	}

	src, err := database.GetSqliteDBStandalone(positional[0])
	if err != nil {
		return fmt.Errorf("failed to open dump: %w", err)
	}
	if sqlDB, err := src.DB(); err == nil {
		defer sqlDB.Close()
	}
	runs, err := gormstorage.ListRuns(src)
	if err != nil {
		return err
	}
	if err := a.initStorage(); err != nil {
		return err
	}

	for _, r := range runs {
		summary, err := gormstorage.Replay(src, r.ID, a.backend)
		if err != nil {
			a.logger.Error("Failed to import run", "run", r.Name, "id", r.ID, "error", err)
			return err
		}
		a.logger.Info("Imported run", "run", r.Name, "from", r.ID, "to", summary.RunID)
		fmt.Printf("imported %q as run %d\n", r.Name, summary.RunID)
		if exp, ok := a.backend.(storage.Exporter); ok && exp.ExportedFilePath() != "" {
			fmt.Printf("  export:      %s\n", exp.ExportedFilePath())
		}
	}
	return nil
}

func schemaCmd(args []string) error {
	_, positional, err := parseArgs("schema", args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("schema needs an output path")
	}
	return scenario.WriteSchema(positional[0])
}

// initLogging opens the session log file and wires slog, OTel, GELF and zerolog onto it.
func (a *app) initLogging() error {
	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}
	logPath := logging.LogFilePath(logsDir, AppName, a.sessionStart)
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}
	a.logFile = f

	a.otel, err = intOtel.New(intOtel.FromConfig(config.GetOTelConfig(), f, config.GetRecorderConfig().Tag))
	if err != nil {
		return fmt.Errorf("failed to init OTel: %w", err)
	}

	var sinks []io.Writer
	if viper.GetBool("graylog.enabled") {
		gelf, err := logging.NewGELFSink(viper.GetString("graylog.address"))
		if err != nil {
			fmt.Fprintln(os.Stderr, "graylog disabled:", err)
		} else {
			sinks = append(sinks, gelf)
		}
	}

	a.slogMgr = logging.NewSlogManager()
	a.slogMgr.SetContextProvider(logging.RunAttrs(a.runCtx.Current))
	a.slogMgr.Setup(f, viper.GetString("logLevel"), a.otel.LoggerProvider(), sinks...)
	a.logger = a.slogMgr.Logger()

	a.zlog = zerolog.New(io.MultiWriter(f, zerolog.ConsoleWriter{Out: os.Stderr})).
		With().Timestamp().Str("app", AppName).Logger()

	a.logger.Info("Starting", "version", CurrentVersion, "built", BuildDate, "log", logPath)
	return nil
}

// upload sends the exported run to the archive server when one is configured.
func (a *app) upload(path string, sc *scenario.Scenario, summary *core.RunSummary, tag string) {
	apiCfg := config.GetAPIConfig()
	if !apiCfg.Enabled {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := api.New(apiCfg.ServerURL, apiCfg.APIKey)
	if err := client.Healthcheck(ctx); err != nil {
		a.logger.Warn("Archive server unreachable, export kept locally", "path", path, "error", err)
		return
	}
	err := client.Upload(ctx, path, core.UploadMetadata{
		RunName:  sc.Name,
		Scenario: sc.Path,
		Ticks:    sc.Ticks,
		EndTick:  summary.EndTick,
		Winner:   summary.Winner,
		Tag:      tag,
	})
	if err != nil {
		a.logger.Error("Failed to upload run", "path", path, "error", err)
		return
	}
	a.logger.Info("Run uploaded", "path", path, "server", apiCfg.ServerURL)
}

func (a *app) initInflux() {
	cfg := config.GetInfluxConfig()
	m := influx.NewManager(a.zlog, cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.Connect(ctx); err != nil {
		if !errors.Is(err, influx.ErrDisabled) {
			a.logger.Warn("Tick metrics disabled", "error", err)
		}
		return
	}
	a.influx = m
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Error("Failed to close storage backend", "error", err)
		}
	}
	if a.influx != nil {
		if err := a.influx.Close(); err != nil {
			a.logger.Error("Failed to close influx", "error", err)
		}
	}
	if a.slogMgr != nil {
		_ = a.slogMgr.Flush(ctx)
	}
	if a.otel != nil {
		_ = a.otel.Shutdown(ctx)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
