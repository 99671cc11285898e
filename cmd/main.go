package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/seed-labs/nameseed"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name: "nameseed",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mysql", Value: "root@tcp(127.0.0.1:3306)/nameseed?charset=utf8mb4&parseTime=True&loc=Local", Usage: "mysql dsn", EnvVars: []string{"MYSQL"}},
			&cli.StringFlag{Name: "sqlite_dir", Value: "./data/sqlite", Usage: "sqlite db dir path", EnvVars: []string{"SQLITE_DIR"}},
			&cli.BoolFlag{Name: "use_sqlite", Value: false, Usage: "run with sqlite instead of mysql", EnvVars: []string{"USE_SQLITE"}},
			&cli.StringFlag{Name: "kafka_uri", Value: "", Usage: "kafka broker uri for engagement events", EnvVars: []string{"KAFKA_URI"}},
			&cli.StringFlag{Name: "network", Value: "mainnet", Usage: "default name network", EnvVars: []string{"NETWORK"}},
			&cli.StringFlag{Name: "port", Value: ":8080", EnvVars: []string{"PORT"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	s := nameseed.New(
		c.String("mysql"), c.String("sqlite_dir"), c.Bool("use_sqlite"),
		c.String("kafka_uri"), c.String("network"),
	)
	s.Run(c.String("port"))

	<-signals
	s.Close()

	return nil
}
