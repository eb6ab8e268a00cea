// Command gems shows a generated match-3 board as sprites. W/A/S/D pan the
// board.
package main

import (
	"embed"
	"io/fs"
	"os"

	"github.com/plus3/gemboard/internal/config"
	"github.com/plus3/gemboard/internal/logging"
)

//go:generate go run ../gen-components -pkg main -out components_gen.go

//go:embed assets
var embedded embed.FS

func main() {
	log := logging.For("gems")
	cfg, err := config.Load("gems", os.Args[1:])
	if err != nil {
		code := config.ExitCode(err)
		if code != 0 {
			log.WithError(err).Error("invalid configuration")
		}
		os.Exit(code)
	}
	if err := logging.Setup(cfg.LogLevel, nil); err != nil {
		log.WithError(err).Fatal("invalid log level")
	}

	fsys, err := assetFS(cfg.AssetsDir)
	if err != nil {
		log.WithError(err).Fatal("cannot open assets")
	}

	a := newApp(options{Assets: fsys, Seed: cfg.Seed, Capture: true})
	if cfg.Debug {
		installDebugUI(a)
	}

	if err := a.Run(); err != nil {
		log.WithError(err).Fatal("gems stopped")
	}
}

func assetFS(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(embedded, "assets")
}
