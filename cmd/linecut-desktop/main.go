// LineCut Desktop, linear cut list optimizer
//
// A cross-platform desktop front-end for planning cuts from bars, tubes,
// extrusions and boards. It reads the same ~/.linecut.yaml as the CLI for
// default kerf, trim and units.
//
// Build:
//   go build -o linecut-desktop ./cmd/linecut-desktop
//
// Using fyne-cross for packaging:
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/piwi3910/LineCut/internal/config"
	"github.com/piwi3910/LineCut/internal/logging"
	"github.com/piwi3910/LineCut/internal/ui"
)

var version = "dev"

func main() {
	cfg, err := config.Load(viper.New(), "")
	if err != nil {
		fmt.Fprintln(os.Stderr, "linecut-desktop:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log.Level, logging.FormatConsole)
	if err != nil {
		fmt.Fprintln(os.Stderr, "linecut-desktop:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	application := app.NewWithID("com.piwi3910.linecut")
	window := application.NewWindow("LineCut, Linear Cut List Optimizer")

	appUI := ui.NewApp(application, window, cfg.CutSettings(), logger).WithVersion(version)
	application.Settings().SetTheme(appUI.Theme())
	appUI.SetupMenus()
	window.SetContent(ui.WithToolTips(appUI.Build(), window))
	window.Resize(fyne.NewSize(1100, 750))
	window.CenterOnScreen()

	logger.Info("starting desktop", zap.String("version", version))
	window.ShowAndRun()
}
