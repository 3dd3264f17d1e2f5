package main

import (
	"embed"
	"flag"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"

	"github.com/chazu/sketchcad/internal/config"
	"github.com/chazu/sketchcad/internal/logger"
)

//go:embed all:frontend
var assets embed.FS

func main() {
	fs := flag.NewFlagSet("sketchcad", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app, err := NewAppWithConfig(cfg, logger.Named("app"))
	if err != nil {
		logger.Log.Fatal("create app", zap.Error(err))
	}

	err = wails.Run(&options.App{
		Title:  "SketchCAD",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		logger.Log.Fatal("wails", zap.Error(err))
	}
}
