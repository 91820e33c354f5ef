package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	_ "github.com/lib/pq"

	"reprice-tool/pkg/booking"
	"reprice-tool/pkg/config"
	"reprice-tool/pkg/obs"
	"reprice-tool/pkg/reprice"
)

func main() {
	app := &cli.App{
		Name:  "repricer",
		Usage: "re-validate and re-price combined travel bookings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to yaml config file",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides the config port",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return err
		}
	}

	logger := reprice.NewStdLogger()
	metrics := obs.NewMetrics(prometheus.NewRegistry())

	// Demo suppliers; real deployments swap in their own PriceSource
	// implementations here.
	flight := booking.NewStaticSource(reprice.LegFlight, map[string]float64{
		"F1": 400,
		"F2": 250,
	})
	hotel := booking.NewStaticSource(reprice.LegHotel, map[string]float64{
		"H1": 600,
		"H2": 120,
	})
	catalog := booking.DefaultCatalog(logger)

	builder := reprice.NewManagerBuilder().
		WithFlightSource(flight).
		WithHotelSource(hotel).
		WithCriteriaProvider(catalog).
		WithDecisionProvider(catalog).
		WithLogger(logger).
		WithMetrics(metrics).
		WithTimeout(cfg.Repricing.Timeout())

	var history reprice.RunStore
	if cfg.Repricing.HistoryEnabled {
		db, err := sql.Open("postgres", cfg.GetConnString())
		if err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}
		history, err = reprice.NewPGRunStore(c.Context, db)
		if err != nil {
			db.Close()
			return err
		}
		defer history.Close()
		builder = builder.WithHistory(history)
	}

	manager, err := builder.Build()
	if err != nil {
		return err
	}

	srv := newServer(manager, history, metrics)
	addr := c.String("addr")
	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.Server.Port)
	}
	log.Printf("repricer listening on %s", addr)
	return http.ListenAndServe(addr, srv.routes())
}
