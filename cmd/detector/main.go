package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"peopledetect/internal/app"
	"peopledetect/internal/config"
	"peopledetect/internal/logger"
	"peopledetect/internal/models"
)

const about = `Detects people on camera, video or image with a YOLO (Darknet) network and
runs a procedure on a Firmata board when one is seen.
Models can be downloaded here: https://pjreddie.com/darknet/yolo/
Class names can be downloaded here: https://github.com/pjreddie/darknet/tree/master/data
`

const (
	exitOK        = 0
	exitNoDevice  = 1
	exitBadConfig = 2
	exitSetup     = -1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Load()

	fs := flag.NewFlagSet("detector", flag.ContinueOnError)
	cfg.BindFlags(fs)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), about)
		fmt.Fprintln(fs.Output())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitBadConfig
	}
	if cfg.Help {
		fs.SetOutput(os.Stdout)
		fs.Usage()
		return exitOK
	}

	if err := cfg.ApplySettingsFile(cfg.SettingsFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitBadConfig
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitBadConfig
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		log = logger.NewConsole(cfg.Debug)
		log.Warning("Logging to console only: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error("%v", err)
		return exitCode(err)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		log.Error("Frame loop failed: %v", err)
		return exitSetup
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, models.ErrConnection):
		return exitNoDevice
	case errors.Is(err, models.ErrModelLoad), errors.Is(err, models.ErrCaptureOpen):
		return exitSetup
	case errors.Is(err, context.Canceled):
		return exitOK
	}
	return exitSetup
}
