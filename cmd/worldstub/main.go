// The worldstub binary runs the fixture-backed Ithoria server on its own,
// for developing the client against without a real shard.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pixil98/go-log/log"
	"github.com/pixil98/ithoria-client/internal/storage"
	"github.com/pixil98/ithoria-client/internal/worldstub"
)

type config struct {
	Host          string        `env:"WORLDSTUB_HOST"            envDefault:"127.0.0.1"`
	Port          int           `env:"WORLDSTUB_PORT"            envDefault:"4222"`
	Prefix        string        `env:"WORLDSTUB_PREFIX"          envDefault:"ithoria"`
	ZoneLoadDelay time.Duration `env:"WORLDSTUB_ZONE_LOAD_DELAY" envDefault:"100ms"`

	AccountsPath    string `env:"WORLDSTUB_ACCOUNTS_PATH"    envDefault:"fixtures/accounts"`
	CharactersPath  string `env:"WORLDSTUB_CHARACTERS_PATH"  envDefault:"fixtures/characters"`
	WaypointsPath   string `env:"WORLDSTUB_WAYPOINTS_PATH"   envDefault:"fixtures/waypoints"`
	WorkbenchesPath string `env:"WORLDSTUB_WORKBENCHES_PATH" envDefault:"fixtures/workbenches"`
}

func main() {
	logger := log.NewLogger()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.WithError(err).Fatal("parsing environment")
	}

	accounts, err := storage.NewFileStore[*worldstub.AccountSpec](cfg.AccountsPath)
	if err != nil {
		logger.WithError(err).Fatal("loading accounts")
	}
	characters, err := storage.NewFileStore[*worldstub.CharacterSpec](cfg.CharactersPath)
	if err != nil {
		logger.WithError(err).Fatal("loading characters")
	}
	waypoints, err := storage.NewFileStore[*worldstub.WaypointSpec](cfg.WaypointsPath)
	if err != nil {
		logger.WithError(err).Fatal("loading waypoints")
	}
	workbenches, err := storage.NewFileStore[*worldstub.WorkbenchSpec](cfg.WorkbenchesPath)
	if err != nil {
		logger.WithError(err).Fatal("loading workbenches")
	}

	srv, err := worldstub.NewServer(worldstub.Stores{
		Accounts:    accounts,
		Characters:  characters,
		Waypoints:   waypoints,
		Workbenches: workbenches,
	},
		worldstub.WithHost(cfg.Host),
		worldstub.WithPort(cfg.Port),
		worldstub.WithPrefix(cfg.Prefix),
		worldstub.WithZoneLoadDelay(cfg.ZoneLoadDelay),
	)
	if err != nil {
		logger.WithError(err).Fatal("creating world stub")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.WithError(err).Fatal("running world stub")
	}

	logger.Info("exiting")
}
