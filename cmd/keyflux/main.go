// Package main is the keyflux demo: a terminal viewer for the live
// input-state tracker. It wires the event bus, the tracker, the tcell host
// adapter, an optional bindings file with hot reload, and an optional Lua
// replay script, then renders the pressed state until Esc or SIGINT.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyflux/internal/config"
	"github.com/dshills/keyflux/internal/event"
	"github.com/dshills/keyflux/internal/input/bindings"
	"github.com/dshills/keyflux/internal/input/script"
	"github.com/dshills/keyflux/internal/input/state"
	"github.com/dshills/keyflux/internal/logging"
	"github.com/dshills/keyflux/internal/source/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath := flag.String("config", "", "path to keyflux.yaml")
	bindingsPath := flag.String("bindings", "", "bindings document (overrides config)")
	scriptPath := flag.String("script", "", "Lua replay script (overrides config)")
	logPath := flag.String("log-file", "", "write logs to this file (default: discard)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *bindingsPath != "" {
		cfg.Bindings = *bindingsPath
	}
	if *scriptPath != "" {
		cfg.Script = *scriptPath
	}

	// The terminal is owned by tcell, so logs go to a file or nowhere.
	logger := logging.Null
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logger = logging.New(logging.Config{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Output: f,
			Prefix: "keyflux",
		})
	}

	bus := event.NewBus(event.WithPanicHandler(func(ev any, r any) {
		logger.Error("handler panic on %v: %v", ev, r)
	}))

	tracker := state.New(bus, state.WithLogger(logger))
	if err := tracker.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer tracker.Stop()

	var watcher *bindings.Watcher
	if cfg.Bindings != "" {
		watcher, err = bindings.Watch(cfg.Bindings, tracker, bindings.WithWatcherLogger(logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer watcher.Close()
	}

	src, err := term.New(bus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating terminal: %v\n", err)
		return 1
	}
	if err := src.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: starting terminal: %v\n", err)
		return 1
	}
	defer src.Stop()

	if cfg.Script != "" {
		driver := script.NewDriver(tracker)
		defer driver.Close()
		if err := driver.RunFile(cfg.Script); err != nil {
			logger.Error("replay script: %v", err)
		}
	}

	quit := make(chan struct{})
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	// Esc quits. The subscription also serves as a redraw hint together
	// with the ticker below.
	_, err = bus.SubscribeFunc(event.TopicKeyDown, func(_ context.Context, ev any) error {
		if ke, ok := ev.(event.KeyEvent); ok && ke.Label == "Esc" {
			select {
			case <-quit:
			default:
				close(quit)
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return 0
		case <-signals:
			return 0
		case <-ticker.C:
			draw(src.Screen(), tracker, watcher)
		}
	}
}

// draw renders the tracker state.
func draw(screen tcell.Screen, tracker *state.State, watcher *bindings.Watcher) {
	screen.Clear()

	style := tcell.StyleDefault
	putText(screen, 0, 0, "keyflux - press keys and mouse buttons, Esc to quit", style.Bold(true))

	row := 2
	if watcher != nil {
		set := watcher.Last()
		putText(screen, 0, row, fmt.Sprintf("bindings: %s (%d entries)", set.Name, len(set.Bindings)), style)
		row++
		names := make([]string, 0, len(set.Bindings))
		seen := make(map[string]bool)
		for _, b := range set.Bindings {
			if !seen[b.Action] {
				seen[b.Action] = true
				names = append(names, b.Action)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			marker := " "
			if tracker.IsActionPressed(name) {
				marker = "*"
			}
			id, _ := tracker.Action(name)
			putText(screen, 2, row, fmt.Sprintf("[%s] %-12s -> %s", marker, name, id), style)
			row++
		}
		row++
	}

	putText(screen, 0, row, fmt.Sprintf("anything pressed: %v", tracker.IsAnythingPressed()), style)
	row++

	pressed := tracker.Pressed()
	labels := make([]string, 0, len(pressed))
	for _, id := range pressed {
		labels = append(labels, id.String())
	}
	sort.Strings(labels)
	for _, label := range labels {
		putText(screen, 2, row, label, style)
		row++
	}

	screen.Show()
}

// putText writes a string starting at (x, y).
func putText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
