// Command waves is the CLI entrypoint: with no arguments it becomes the
// primary instance (builds the library, opens the playback backend, and
// serves the control socket); invoked with a command name ("next",
// "previous", "play", "pause", "stop", "volume <level>", "seek <seconds>",
// "exit") it forwards that command to an already-running primary instance
// and exits. Grounded on original_source/src/main.rs's
// Instance::Main/Instance::Sub split.
package main

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/waves/internal/config"
	"github.com/llehouerou/waves/internal/instance"
	"github.com/llehouerou/waves/internal/library"
	"github.com/llehouerou/waves/internal/logx"
	"github.com/llehouerou/waves/internal/playback/backendimpl"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "waves: load config:", err)
		return 1
	}

	if len(os.Args) > 1 {
		rest := ""
		if len(os.Args) > 2 {
			rest = os.Args[2]
		}
		return runSub(cfg, os.Args[1], rest)
	}
	return runMain(cfg)
}

// runSub forwards a single command (optionally with one argument, for
// "volume <level>" / "seek <seconds>") to the primary instance's socket.
func runSub(cfg *config.Config, arg, value string) int {
	cmd := instance.Command(arg)
	switch cmd {
	case instance.CommandExit, instance.CommandNext, instance.CommandPrevious,
		instance.CommandPlay, instance.CommandPause, instance.CommandStop:
	case instance.CommandVolume, instance.CommandSeek:
		if value == "" {
			fmt.Fprintf(os.Stderr, "waves: %s requires an argument\n", arg)
			return 1
		}
	default:
		fmt.Fprintf(os.Stderr, "waves: unknown command %q\n", arg)
		return 1
	}

	if err := instance.SendArg(cfg.SocketPort, cmd, value); err != nil {
		fmt.Fprintln(os.Stderr, "waves: no running instance to forward to:", err)
		return 1
	}
	return 0
}

// runMain builds the library and playback backend and serves the control
// socket until an "exit" command (or the process is killed).
func runMain(cfg *config.Config) int {
	inst, err := instance.Acquire(cfg.SocketPort)
	if err != nil {
		fmt.Fprintln(os.Stderr, "waves: acquire instance socket:", err)
		return 1
	}
	if !inst.IsMain() {
		// Another instance already owns the socket; nothing to do.
		return 0
	}
	defer inst.Close()

	root := ""
	if len(cfg.LibrarySources) > 0 {
		root = cfg.LibrarySources[0]
	}

	lib, err := library.New(
		root,
		cfg.IncludeHidden,
		filtersFromConfig(cfg.Filters),
		sortersFromConfig(cfg.Sorters),
		backendimpl.New,
		cfg.Volume,
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "waves: build library:", err)
		return 1
	}
	defer lib.Close()

	logx.Info("waves started",
		"tracks", humanize.Comma(int64(len(lib.GetTracks()))),
		"port", cfg.SocketPort)
	lib.Play()

	exitCh := make(chan struct{})
	var exitOnce sync.Once

	go func() {
		_ = inst.Serve(func(p instance.Parsed) {
			switch p.Cmd {
			case instance.CommandNext:
				lib.Next()
			case instance.CommandPrevious:
				lib.Previous()
			case instance.CommandPlay:
				lib.Play()
			case instance.CommandPause:
				lib.Pause()
			case instance.CommandStop:
				lib.Stop()
			case instance.CommandVolume:
				if v, err := strconv.ParseFloat(p.Arg, 32); err == nil {
					lib.VolumeSet(float32(v))
				}
			case instance.CommandSeek:
				if s, err := strconv.ParseFloat(p.Arg, 64); err == nil {
					lib.Seek(time.Duration(s * float64(time.Second)))
				}
			case instance.CommandExit:
				exitOnce.Do(func() { close(exitCh) })
			}
		})
	}()

	<-exitCh
	return 0
}

func filtersFromConfig(fs []config.FilterConfig) []library.Filter {
	out := make([]library.Filter, len(fs))
	for i, f := range fs {
		out[i] = library.Filter{Tag: f.Tag, Items: f.Items}
	}
	return out
}

func sortersFromConfig(ss []config.SorterConfig) []library.Sorter {
	out := make([]library.Sorter, len(ss))
	for i, s := range ss {
		out[i] = library.Sorter{Tagstring: s.Tagstring}
	}
	return out
}
