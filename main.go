package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/avstrong/orderform/internal/app"
	"github.com/avstrong/orderform/internal/config"
	"github.com/avstrong/orderform/internal/logger"
)

func main() {
	l := logger.New(log.Default())

	var exitCode int

	if err := newCLI(l).Run(os.Args); err != nil {
		l.LogErrorf("Failed to run app: %v", err.Error())

		exitCode = 1
	}

	os.Exit(exitCode)
}

func newCLI(l *logger.Logger) *cli.App {
	envFiles := &cli.StringSliceFlag{
		Name:  "env-file",
		Usage: "dotenv file(s) to load before reading the environment (default .env)",
	}

	loadConfig := func(c *cli.Context) (*config.Config, error) {
		conf, err := config.Load(c.StringSlice("env-file")...)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}

		return conf, nil
	}

	serve := func(c *cli.Context) error {
		conf, err := loadConfig(c)
		if err != nil {
			return err
		}

		return app.Run(l, conf)
	}

	//nolint:exhaustruct
	return &cli.App{
		Name:   "orderform",
		Usage:  "add-on order form with night accounting",
		Flags:  []cli.Flag{envFiles},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the form server",
				Action: serve,
			},
			{
				Name:      "quote",
				Usage:     "print the summary for a set of options",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "option",
						Aliases: []string{"o"},
						Usage:   "id or id:YYYY-MM-DD:YYYY-MM-DD, repeatable",
					},
				},
				Action: func(c *cli.Context) error {
					conf, err := loadConfig(c)
					if err != nil {
						return err
					}

					catalog, err := app.LoadCatalog(conf.CatalogFile)
					if err != nil {
						return fmt.Errorf("load catalog: %w", err)
					}

					_, err = app.Quote(c.App.Writer, catalog, c.StringSlice("option"))

					return err
				},
			},
		},
	}
}
