package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/config"
	"github.com/dshills/imphook/internal/hooks/luamod"
	"github.com/dshills/imphook/internal/logging"
	"github.com/dshills/imphook/internal/module"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitNoScript = 2
)

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

var errUsage = errors.New("a script or -m module is required")

// run executes the command line and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(stdout, stderr)
	if args == nil {
		// cobra falls back to os.Args for nil.
		args = []string{}
	}
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	if errors.Is(err, errUsage) {
		fmt.Fprintln(stderr, root.UsageString())
		return exitFailure
	}
	reportError(stderr, err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

// reportError prints err, with the Starlark backtrace when there is one.
func reportError(w io.Writer, err error) {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		fmt.Fprintln(w, evalErr.Backtrace())
		return
	}
	fmt.Fprintf(w, "imphook: %v\n", err)
}

type rootOptions struct {
	preload []string
	module  string
	watch   bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := config.New()
	var opts rootOptions

	root := &cobra.Command{
		Use:   "imphook [-i module]... (script | -m module) [args...]",
		Short: "Run Starlark scripts with import hook modules preloaded",
		Long: `imphook preloads import hook modules and then runs a Starlark script or
module as the main module. Hook modules register handlers that let load()
import files by extension: arrowfunc, funkw, funkw_naive, conf, data and lua
are bundled.`,
		Example: `  imphook -i arrowfunc -m example_arrow_func
  imphook -i data -i lua main.star config.toml`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.ReadFile(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.module == "" && len(args) == 0 {
				return errUsage
			}
			return runMain(cmd.Context(), v, opts, args, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	// Everything after the script or module name belongs to it.
	root.Flags().SetInterspersed(false)
	root.Flags().StringVarP(&opts.module, "module", "m", "", "Run a module from the search path as the main module")
	root.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run when files in the search path change")

	pf := root.PersistentFlags()
	pf.StringArrayVarP(&opts.preload, "import", "i", nil, "Import a module before running (repeatable)")
	pf.String("host", "pipeline", "Host kind (simple|pipeline)")
	pf.String("path", "", "Module search path, separated by "+string(os.PathListSeparator))
	pf.String("log-level", "warn", "Log level (debug|info|warn|error)")
	pf.String("log-format", "auto", "Log format (text|json|auto)")
	pf.Duration("lua-timeout", luamod.DefaultTimeout, "Limit for each Lua chunk or call, 0 disables it")

	// Bind flags to viper; IMPHOOK_* env and the config file fill the rest.
	_ = v.BindPFlag(config.KeyHost, pf.Lookup("host"))
	_ = v.BindPFlag(config.KeyPath, pf.Lookup("path"))
	_ = v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFormat, pf.Lookup("log-format"))
	_ = v.BindPFlag(config.KeyLuaTimeout, pf.Lookup("lua-timeout"))

	root.AddCommand(newInspectCmd(v, &opts, stdout, stderr))
	root.AddCommand(newVersionCmd(stdout))
	return root
}

// runMain runs the script or -m module, then keeps re-running it on
// changes when watching.
func runMain(ctx context.Context, v *viper.Viper, opts rootOptions, args []string, stdout, stderr io.Writer) error {
	var (
		first  string
		script string
		argv   = args
	)
	if opts.module == "" {
		script, argv = args[0], args
		first = filepath.Dir(script)
	} else {
		argv = append([]string{opts.module}, args...)
	}

	s, err := newSession(v, stdout, stderr, first, opts.preload)
	if err != nil {
		return err
	}
	s.setArgv(argv)
	ctx = logging.WithLogger(ctx, s.logger)
	log := logging.FromContext(ctx)

	exec := func() error {
		log.Debug("running main", "script", script, "module", opts.module)
		if script == "" {
			_, err := s.rt.RunModule(opts.module)
			return err
		}
		src, err := os.ReadFile(script)
		if err != nil {
			return &exitError{code: exitNoScript, err: fmt.Errorf("can't open file: %w", err)}
		}
		_, err = s.rt.RunFile(script, src)
		return err
	}

	// In watch mode a failing run is reported and waits for a fix, but a
	// script that cannot be opened still ends the process.
	var ee *exitError
	if err := exec(); err != nil {
		if !opts.watch || errors.As(err, &ee) {
			return err
		}
		reportError(stderr, err)
	}
	if !opts.watch {
		return nil
	}
	return s.watch(ctx, func() {
		if err := exec(); err != nil {
			reportError(stderr, err)
		}
	})
}

func newInspectCmd(v *viper.Viper, opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <module>",
		Short: "Import a module and print its namespace as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(v, stdout, stderr, "", opts.preload)
			if err != nil {
				return err
			}
			m, err := s.rt.Import(args[0])
			if err != nil {
				return err
			}
			data, err := module.ToJSON(m)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, string(data))
			return nil
		},
	}
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "imphook %s (%s, %s)\n", version, commit, date)
		},
	}
}
