package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/config"
	"github.com/dshills/imphook/internal/hooks"
	"github.com/dshills/imphook/internal/hooks/luamod"
	"github.com/dshills/imphook/internal/host"
	"github.com/dshills/imphook/internal/imphook"
	"github.com/dshills/imphook/internal/logging"
)

// settle is how long watch mode waits for a burst of file events to end
// before re-running.
const settle = 100 * time.Millisecond

// session is a configured host with the hook machinery installed and the
// -i modules imported.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	rt     host.Runtime
	hooks  *imphook.Hooks
}

// newSession builds the process-wide host from v. first, when set, is
// searched before the configured path.
func newSession(v *viper.Viper, stdout, stderr io.Writer, first string, preload []string) (*session, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)

	paths := append([]string(nil), cfg.Paths...)
	if first != "" {
		paths = append([]string{first}, paths...)
	}
	// Module origins must match the paths file watching reports.
	for i, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			paths[i] = abs
		}
	}
	rt, err := host.New(cfg.Host,
		host.WithPaths(paths...),
		host.WithLogger(logger),
		host.WithStdout(stdout),
	)
	if err != nil {
		return nil, err
	}

	// Go callers of imphook.AddImportHook and Starlark add_import_hook
	// share one registry.
	host.SetDefault(rt)
	imphook.ResetDefault()
	k := imphook.Default()

	for name, fn := range imphook.Builtins(k) {
		rt.Predeclare(name, fn)
	}
	hooks.Install(rt, k, luamod.WithTimeout(cfg.LuaTimeout), luamod.WithStdout(stdout))

	s := &session{cfg: cfg, logger: logger, rt: rt, hooks: k}
	for _, name := range preload {
		if _, err := rt.Import(name); err != nil {
			return nil, fmt.Errorf("import %s: %w", name, err)
		}
	}
	logger.Debug("session ready", "host", cfg.Host, "paths", paths, "preloaded", preload, "strategy", k.Strategy().String())
	return s, nil
}

// setArgv exposes the script arguments as the predeclared list argv.
func (s *session) setArgv(args []string) {
	vals := make([]starlark.Value, len(args))
	for i, a := range args {
		vals[i] = starlark.String(a)
	}
	l := starlark.NewList(vals)
	l.Freeze()
	s.rt.Predeclare("argv", l)
}

// watch calls rerun after every burst of changes in the search path until
// ctx is done. Modules loaded from changed files, and the modules that
// loaded them, are dropped first so they load again.
func (s *session) watch(ctx context.Context, rerun func()) error {
	log := logging.FromContext(ctx)
	dirs := s.rt.Paths()
	changes := make(chan string)
	errc := make(chan error, 1)
	go func() {
		errc <- host.Watch(ctx, dirs, func(path string) {
			select {
			case changes <- path:
			case <-ctx.Done():
			}
		})
	}()
	log.Info("watching for changes", "dirs", dirs)

	for {
		select {
		case err := <-errc:
			return err
		case path := <-changes:
			changed := map[string]bool{path: true}
			timer := time.NewTimer(settle)
		burst:
			for {
				select {
				case p := <-changes:
					changed[p] = true
					timer.Reset(settle)
				case <-timer.C:
					break burst
				case <-ctx.Done():
					timer.Stop()
					return <-errc
				}
			}
			for p := range changed {
				if dropped := host.Refresh(s.rt, p); len(dropped) > 0 {
					log.Info("modules changed", "path", p, "modules", dropped)
				}
			}
			rerun()
		}
	}
}
