// Package main starts karmen on the display named by -display or
// $DISPLAY.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BobdaProgrammer/karmen/config"
	"github.com/BobdaProgrammer/karmen/wm"
	"github.com/BobdaProgrammer/karmen/x11"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:], os.Stdout)
	switch {
	case errors.Is(err, config.ErrHelp):
		return 0
	case errors.Is(err, config.ErrVersion):
		fmt.Println("karmen", version)
		return 0
	case err != nil:
		slog.Error("Couldn't load configuration", "error", err)
		return 1
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if cfg.File != "" {
		logger.Debug("loaded configuration", "path", cfg.File)
	}

	theme, err := cfg.Theme()
	if err != nil {
		logger.Error("Invalid colour", "error", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	for _, sig := range []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM} {
		if !signal.Ignored(sig) {
			signal.Notify(signals, sig)
		}
	}

	conn, err := x11.Open(cfg.Display)
	if err != nil {
		logger.Error("Couldn't open display", "display", cfg.Display, "error", err)
		return 1
	}
	font, path, err := x11.LoadFont(cfg.FontPaths(), cfg.Font.Size)
	if err != nil {
		logger.Error("Couldn't load a font", "error", err)
		conn.Close()
		return 1
	}
	logger.Debug("using font", "path", path, "size", cfg.Font.Size)
	conn.SetFont(font)

	manager := wm.New(conn, font, wm.Options{
		Theme:    theme,
		Commands: cfg.Commands,
		Logger:   logger,
	})
	if err := manager.Start(); err != nil {
		if errors.Is(err, wm.ErrAnotherWM) {
			logger.Error("Another window manager is already running")
		} else {
			logger.Error("Couldn't initialise window manager", "error", err)
		}
		conn.Close()
		return 1
	}

	ticker := time.NewTicker(time.Second)
	err = manager.Run(conn.Events(), signals, ticker.C)
	ticker.Stop()
	manager.Close()
	conn.Close()

	var sigErr wm.SignalError
	if errors.As(err, &sigErr) {
		logger.Info("shutting down", "signal", sigErr.Signal)
		reraise(sigErr.Signal)
		return 1
	}
	logger.Error("Event loop stopped", "error", err)
	return 1
}

// reraise delivers sig again with its default disposition so the
// parent sees how we died.
func reraise(sig os.Signal) {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return
	}
	signal.Reset(s)
	if err := syscall.Kill(os.Getpid(), s); err != nil {
		return
	}
	time.Sleep(100 * time.Millisecond)
}
