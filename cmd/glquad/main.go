package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/tinyrange/glquad/internal/config"
	glpkg "github.com/tinyrange/glquad/internal/gowin/gl"
	"github.com/tinyrange/glquad/internal/gowin/graphics"
	"github.com/tinyrange/glquad/internal/gowin/window/glfwwindow"
	"github.com/tinyrange/glquad/internal/quad"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func run() error {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	configPath := fs.String("config", "", "optional YAML file with window settings")
	logLevel := fs.String("log-level", "", "override the log level (debug, info, warn, error)")
	fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	platform, err := glfwwindow.New(cfg.WindowOptions())
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	win, err := graphics.New(platform)
	if err != nil {
		return err
	}

	var res *quad.Resources
	return win.Run(
		func(gl glpkg.OpenGL) (func(), error) {
			r, err := quad.Setup(gl)
			if err != nil {
				return nil, err
			}
			res = r
			return func() { res.Release(gl) }, nil
		},
		func(gl glpkg.OpenGL, dt float64) error {
			quad.Render(gl, res, dt)
			return nil
		},
	)
}

func main() {
	if err := run(); err != nil {
		slog.Error("glquad failed", "error", err)
		os.Exit(1)
	}
}
