// cmd/sandbox/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-arcade/pkg/config"
	"github.com/opd-ai/go-arcade/pkg/logging"
	"github.com/opd-ai/go-arcade/pkg/render"
)

func main() {
	configPath := flag.String("config", "", "Path to a world configuration file (yaml or json)")
	template := flag.String("template", "", "Scene template to load (see -list)")
	createDefault := flag.Bool("default", false, "Write the selected scene to -config and exit")
	list := flag.Bool("list", false, "List scene templates and exit")
	logPath := flag.String("log", "sandbox.log", "Log file; the terminal is used for drawing")
	watch := flag.Bool("watch", true, "Reload the scene when the config directory changes")
	flag.Parse()

	if *list {
		listTemplates()
		return
	}
	if *configPath == "" && *template == "" {
		*template = "platformer"
	}

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.NewLoggerWithWriter(logFile, logging.ParseLevel(os.Getenv(logging.LevelEnv)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *createDefault {
		if err := writeScene(*configPath, *template); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *configPath)
		return
	}

	sb, err := newSandbox(*configPath, *template, logger)
	if err != nil {
		logger.Error(ctx, "Failed to build scene", err, "config_path", *configPath, "template", *template)
		fmt.Fprintf(os.Stderr, "failed to build scene: %v\n", err)
		os.Exit(1)
	}

	var watcher *config.Watcher
	if *watch && *configPath != "" {
		watcher, err = config.NewWatcher(filepath.Dir(*configPath))
		if err != nil {
			logger.Warn(ctx, "Config watching disabled", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	if err := run(ctx, sb, watcher, logger); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func listTemplates() {
	templates := config.ListSceneTemplates()
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-12s %s\n", name, templates[name])
	}
}

func writeScene(path, template string) error {
	if path == "" {
		return fmt.Errorf("-default needs -config")
	}
	cfg := config.DefaultConfig()
	if template != "" {
		if err := config.ApplySceneTemplate(cfg, template); err != nil {
			return err
		}
	}
	return config.SaveConfig(cfg, path)
}

// run drives the simulation and the terminal until ctx ends or the user
// quits.
func run(ctx context.Context, sb *sandbox, watcher *config.Watcher, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	renderer := render.NewScreenRenderer(screen, 1)
	renderer.FitRect(sb.Sim().World.Bounds)

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	var changes <-chan string
	var watchErrs <-chan error
	if watcher != nil {
		changes, watchErrs = watcher.Events, watcher.Errors
	}

	sim := sb.Sim()
	sim.Start()
	defer func() { sb.Sim().Stop() }()

	ticker := time.NewTicker(time.Duration(sim.TimeStep * float64(time.Second)))
	defer ticker.Stop()
	last := time.Now()
	paused := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q'):
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
					paused = !paused
					if paused {
						sb.Sim().Pause()
					} else {
						sb.Sim().Resume()
					}
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'n' && paused:
					sb.Sim().StepFrame()
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
					if err := sb.Reload(ctx, "manual"); err == nil {
						paused = false
						renderer.FitRect(sb.Sim().World.Bounds)
					}
				}
			case *tcell.EventResize:
				renderer.Sync()
				renderer.FitRect(sb.Sim().World.Bounds)
			}

		case path, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if err := sb.Reload(ctx, path); err == nil {
				paused = false
				renderer.FitRect(sb.Sim().World.Bounds)
			}

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			logger.Warn(ctx, "Config watcher error", "error", err)

		case now := <-ticker.C:
			sim := sb.Sim()
			sim.Advance(now.Sub(last).Seconds())
			last = now
			renderer.SetStatus(sb.Status())
			sim.Render(renderer)
		}
	}
}
