// cmd/viewer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-arcade/pkg/config"
	"github.com/opd-ai/go-arcade/pkg/engine"
	"github.com/opd-ai/go-arcade/pkg/logging"
	engorender "github.com/opd-ai/go-arcade/pkg/render/engo"
)

func main() {
	configPath := flag.String("config", "", "Path to a world configuration file (yaml or json)")
	template := flag.String("template", "", "Scene template to load")
	follow := flag.String("follow", "", "Sprite for the camera to follow")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode")
	width := flag.Int("width", 1024, "Window width")
	height := flag.Int("height", 768, "Window height")
	flag.Parse()

	if *configPath == "" && *template == "" {
		*template = "platformer"
	}

	logger := logging.NewLogger()
	ctx := context.Background()

	sim, err := buildSimulation(*configPath, *template, logger)
	if err != nil {
		logger.Error(ctx, "Failed to build scene", err, "config_path", *configPath, "template", *template)
		fmt.Fprintf(os.Stderr, "failed to build scene: %v\n", err)
		os.Exit(1)
	}

	scene := engorender.NewViewerScene(sim, *follow, logger)

	opts := engo.RunOptions{
		Title:      "go-arcade",
		Width:      *width,
		Height:     *height,
		Fullscreen: *fullscreen,
		VSync:      true,
	}
	engo.Run(opts, scene)
}

func buildSimulation(path, template string, logger *logging.Logger) (*engine.Simulation, error) {
	cfg, err := config.LoadConfigWithTemplate(path, template)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}

	baseDir := "."
	if path != "" {
		baseDir = filepath.Dir(path)
	}
	return engine.FromConfig(cfg, baseDir, logger)
}
