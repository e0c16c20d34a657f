package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ptolstoi/kbsave/internal/kbsave"
)

var (
	_version   string = "UNSET"
	_buildTime string = "UNSET"
)

func usage() {
	fmt.Fprintf(os.Stderr, `kbsave %v (%v)

Usage:
  kbsave [-config kbsave.ini] [serve [address]]
  kbsave [-config kbsave.ini] shops <save> [out.json]
  kbsave [-config kbsave.ini] campaign <save>
  kbsave [-config kbsave.ini] slots [root]

<save> is a slot directory, a .sav archive or a container file.

`, _version, _buildTime)
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", kbsave.EnvOr("KBSAVE_CONFIG", "kbsave.ini"), "config file")
	flag.Usage = usage
	flag.Parse()

	config, err := kbsave.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	config.Version = _version
	config.BuildTime = _buildTime

	if err := kbsave.SetupLogging(config.LogLevel, config.LogJSON); err != nil {
		fmt.Fprintf(os.Stderr, "error: log level: %v\n", err)
		os.Exit(2)
	}

	args := flag.Args()
	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		if len(args) > 0 {
			config.Address = args[0]
		}
		err = serve(config)
	case "shops":
		err = kbsave.RunShops(context.Background(), config, args, os.Stdout, os.Stderr)
	case "campaign":
		err = kbsave.RunCampaign(args, os.Stdout)
	case "slots":
		err = kbsave.RunSlots(config, args, os.Stdout)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("failed")
	}
}

func serve(config kbsave.Config) error {
	log.Info().Str("version", _version).Str("buildTime", _buildTime).Msg("Starting kbsave")

	app, err := kbsave.NewApp(config)
	if err != nil {
		return fmt.Errorf("couldn't create app: %w", err)
	}
	defer app.Close()

	return app.RunUntilSignal()
}
