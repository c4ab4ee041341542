package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"

	"github.com/benjamonnguyen/roster"
	"github.com/benjamonnguyen/roster/datefmt"
	"github.com/benjamonnguyen/roster/sqlite"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	var isProd bool
	flag.BoolVar(&isProd, "p", false, "is production environment")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	// config
	cfg, err := roster.LoadConfig(isProd)
	if err != nil {
		log.Error("failed to load config", "err", err)
		return ExitConfigError
	}

	// logger
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.LogLevel,
		ReportTimestamp: true,
		Prefix:          "roster",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	logger.Debug("opening db", "path", cfg.DatabasePath)
	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed database open", "err", err)
		return ExitConfigError
	}
	defer db.Close() //nolint

	tx, dbGetter := txStdLib.NewTransactor(db, txStdLib.NestedTransactionsSavepoints)

	meter := otel.Meter("github.com/benjamonnguyen/roster")
	userRepo := sqlite.NewUserRepo(dbGetter, logger, sqlite.WithDefaultTracer(), sqlite.WithMeter(meter))
	prefsRepo := sqlite.NewPreferencesRepo(dbGetter, logger, sqlite.WithDefaultTracer(), sqlite.WithMeter(meter))

	users := NewUserManager(userRepo, tx, logger)
	users.OnUsersChanged(func(ctx context.Context, all []roster.ExistingUserRecord) {
		logger.Debug("users changed", "count", len(all))
	})

	var formatterOpts []datefmt.Option
	if cfg.Locale != "" {
		formatterOpts = append(formatterOpts, datefmt.WithLocaleTag(cfg.Locale))
	}
	formatter := datefmt.New(formatterOpts...)
	logger.Debug("formatter ready", "locale", formatter.Locale())

	a := &app{
		users:     users,
		prefs:     prefsRepo,
		formatter: formatter,
		loc:       time.Local,
		out:       os.Stdout,
		l:         logger,
	}
	return a.run(ctx, flag.Args())
}
