package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"neurofade/internal/bootstrap"
	accountdto "neurofade/internal/modules/account/dto"
	focusdto "neurofade/internal/modules/focus/dto"
	signaldto "neurofade/internal/modules/signal/dto"
	"neurofade/internal/platform/config"
	apperrors "neurofade/internal/platform/errors"
	"neurofade/internal/platform/logging"
)

const restrictionCapability = "restriction"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir    string
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "neurofade",
		Short:         "Neurofeedback focus sessions with app blocking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data", defaultDataDir(), "data directory")
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("NEUROFADE_CONFIG"), "YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override: debug|info|warn|error")

	root.AddCommand(newFocusCmd(opts))
	root.AddCommand(newSignalCmd(opts))
	root.AddCommand(newPermissionCmd(opts))
	root.AddCommand(newBlockListCmd(opts))
	root.AddCommand(newLeaderboardCmd(opts))
	root.AddCommand(newAccountCmd(opts))
	root.AddCommand(newTUICmd(opts))
	return root
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".neurofade"
	}
	return filepath.Join(home, ".neurofade")
}

// loadApp builds the application for one command. Logs go to logOut; the
// caller owns closing the returned app.
func loadApp(cmd *cobra.Command, opts *rootOptions, logOut io.Writer, noticeSink io.Writer) (*bootstrap.App, error) {
	cfg, err := config.Load(opts.configPath, opts.dataDir)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log, err := logging.New(level, logOut)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, bootstrap.Options{
		Stdin:      cmd.InOrStdin(),
		Stdout:     cmd.OutOrStdout(),
		NoticeSink: noticeSink,
		Log:        log,
	})
}

func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, app *bootstrap.App) error) error {
	app, err := loadApp(cmd, opts, cmd.ErrOrStderr(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runErr := fn(ctx, app)
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(runErr, app.Close(closeCtx))
}

func newFocusCmd(opts *rootOptions) *cobra.Command {
	focus := &cobra.Command{Use: "focus", Short: "Focus session commands"}

	var duration time.Duration
	var block []string
	run := &cobra.Command{
		Use:   "run",
		Short: "Run a focus session in the foreground; Ctrl+C stops it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			blockSet := cmd.Flags().Changed("block")
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				if !cmd.Flags().Changed("duration") {
					duration = app.Config.Focus.DefaultDuration
				}
				var blockList []string
				if blockSet {
					blockList = append([]string{}, block...)
				}
				return runFocus(ctx, cmd.OutOrStdout(), app, duration, blockList)
			})
		},
	}
	run.Flags().DurationVar(&duration, "duration", 25*time.Minute, "session length")
	run.Flags().StringSliceVar(&block, "block", nil, "apps to block (defaults to the saved block list)")

	presets := &cobra.Command{
		Use:   "presets",
		Short: "List the preset session lengths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.FocusCLI.Presets(ctx)
				if err != nil {
					return err
				}
				for _, p := range out {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.Label, p.Countdown)
				}
				return nil
			})
		},
	}

	focus.AddCommand(run, presets)
	return focus
}

// runFocus asks for the restriction capability, subscribes before starting so
// no event is missed, then prints events until the session ends. Cancelling
// ctx stops the session.
func runFocus(ctx context.Context, out io.Writer, app *bootstrap.App, duration time.Duration, blockList []string) error {
	state, err := app.PermissionCLI.Request(ctx, restrictionCapability)
	if err != nil {
		return err
	}
	if state.Status != "authorized" {
		return fmt.Errorf("app blocking is %s: %w", describeStatus(state.Status, state.Message), apperrors.ErrNotAuthorized)
	}

	events, unsubscribe, err := app.FocusCLI.Events(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}
	defer unsubscribe()

	if _, err := app.FocusCLI.Start(ctx, duration, blockList); err != nil {
		return err
	}
	done := ctx.Done()
	for {
		select {
		case <-done:
			// Keep draining until the cancelled event confirms the release.
			done = nil
			_, err := app.FocusCLI.Stop(context.WithoutCancel(ctx))
			if err != nil && !errors.Is(err, apperrors.ErrNotRunning) {
				return err
			}
		case ev := <-events:
			printEvent(out, ev)
			if ev.Kind == "completed" || ev.Kind == "cancelled" {
				if msg := app.RestrictionCLI.LastError(); msg != "" {
					_, _ = fmt.Fprintln(out, "restriction error:", msg)
				}
				return nil
			}
		}
	}
}

func printEvent(out io.Writer, ev focusdto.EventOutput) {
	s := ev.Session
	switch ev.Kind {
	case "started":
		_, _ = fmt.Fprintf(out, "started %s session blocking [%s]\n", s.Countdown, strings.Join(s.BlockList, ", "))
	case "tick":
		_, _ = fmt.Fprintf(out, "\r%s  coins %d ", s.Countdown, s.Coins)
	case "rewarded":
		_, _ = fmt.Fprintf(out, "\n+1 coin (%d)\n", ev.Coins)
	case "completed":
		_, _ = fmt.Fprintf(out, "\nsession complete, %d coins earned\n", s.Coins)
	case "cancelled":
		_, _ = fmt.Fprintf(out, "\nsession cancelled: %s\n", s.Reason)
	case "warning":
		_, _ = fmt.Fprintf(out, "\nwarning: %s\n", ev.Message)
	}
}

func newSignalCmd(opts *rootOptions) *cobra.Command {
	sig := &cobra.Command{Use: "signal", Short: "Neural signal readings"}

	sig.AddCommand(&cobra.Command{
		Use:   "sample",
		Short: "Take one reading",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				r, err := app.SignalCLI.Sample(ctx)
				if err != nil {
					return err
				}
				printReading(cmd.OutOrStdout(), r)
				return nil
			})
		},
	})

	var count int
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Stream readings until Ctrl+C or --count readings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				return app.SignalCLI.Watch(ctx, count, func(o signaldto.ObservationOutput) {
					if o.Err != nil {
						_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "sensor:", o.Err)
						return
					}
					printReading(cmd.OutOrStdout(), o.Reading)
				})
			})
		},
	}
	watch.Flags().IntVar(&count, "count", 0, "stop after N readings (0 means forever)")

	sig.AddCommand(watch)
	return sig
}

func printReading(out io.Writer, r signaldto.ReadingOutput) {
	_, _ = fmt.Fprintf(out, "%s\t%s\t%s\talpha=%.2f beta=%.2f hrv=%.1f\n",
		r.At.Format(time.TimeOnly), r.Label, r.Stress, r.Alpha, r.Beta, r.HRV)
}

func newPermissionCmd(opts *rootOptions) *cobra.Command {
	perm := &cobra.Command{Use: "permission", Short: "Capability authorization"}

	perm.AddCommand(&cobra.Command{
		Use:   "request <health|restriction>",
		Short: "Ask the user or platform for a capability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				s, err := app.PermissionCLI.Request(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", s.Capability, describeStatus(s.Status, s.Message))
				return nil
			})
		},
	})

	perm.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show every capability's authorization status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				states, err := app.PermissionCLI.Status(ctx)
				if err != nil {
					return err
				}
				for _, s := range states {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Capability, describeStatus(s.Status, s.Message))
				}
				return nil
			})
		},
	})
	return perm
}

func describeStatus(status, message string) string {
	if message == "" {
		return status
	}
	return status + " (" + message + ")"
}

func newBlockListCmd(opts *rootOptions) *cobra.Command {
	bl := &cobra.Command{Use: "blocklist", Short: "Apps blocked during focus sessions"}

	printList := func(cmd *cobra.Command, apps []string) {
		if len(apps) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no apps blocked")
			return
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(apps, "\n"))
	}

	bl.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved block list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.BlockListCLI.Show(ctx)
				if err != nil {
					return err
				}
				printList(cmd, out.Apps)
				return nil
			})
		},
	})

	bl.AddCommand(&cobra.Command{
		Use:   "set <id,...>",
		Short: "Replace the saved block list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var apps []string
			if len(args) == 1 {
				apps = strings.Split(args[0], ",")
			}
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.BlockListCLI.Set(ctx, apps)
				if err != nil {
					return err
				}
				printList(cmd, out.Apps)
				return nil
			})
		},
	})

	for _, edit := range []struct {
		use   string
		short string
		add   bool
	}{
		{use: "add <id>", short: "Block one more app", add: true},
		{use: "remove <id>", short: "Stop blocking an app"},
	} {
		bl.AddCommand(&cobra.Command{
			Use:   edit.use,
			Short: edit.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
					update := app.BlockListCLI.Remove
					if edit.add {
						update = app.BlockListCLI.Add
					}
					out, err := update(ctx, args[0])
					if err != nil {
						return err
					}
					printList(cmd, out.Apps)
					return nil
				})
			},
		})
	}

	bl.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "List the apps that can be blocked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				apps, err := app.BlockListCLI.Catalog(ctx)
				if err != nil {
					return err
				}
				for _, a := range apps {
					mark := " "
					if a.Selected {
						mark = "x"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\t%s\n", mark, a.ID, a.Name)
				}
				return nil
			})
		},
	})
	return bl
}

func newLeaderboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the coin leaderboard as the logged-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				board, err := app.RewardCLI.Leaderboard(ctx)
				if err != nil {
					return err
				}
				for _, e := range board.Entries {
					marker := " "
					if e.Local {
						marker = "»"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %2d. %-20s %d\n", marker, e.Rank, e.Name, e.Coins)
				}
				return nil
			})
		},
	}
}

func newAccountCmd(opts *rootOptions) *cobra.Command {
	account := &cobra.Command{Use: "account", Short: "Login scope for the leaderboard"}

	// run wraps an account operation that prints the resulting user.
	run := func(fn func(ctx context.Context, app *bootstrap.App, args []string) (accountdto.UserOutput, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				u, err := fn(ctx, app, args)
				if err != nil {
					return err
				}
				printUser(cmd.OutOrStdout(), u)
				return nil
			})
		}
	}

	account.AddCommand(&cobra.Command{
		Use:   "login <username>",
		Short: "Log in; switching users resets the coin balance",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, app *bootstrap.App, args []string) (accountdto.UserOutput, error) {
			return app.AccountCLI.Login(ctx, args[0])
		}),
	})

	var first, last string
	signup := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create a profile and log in",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, app *bootstrap.App, args []string) (accountdto.UserOutput, error) {
			return app.AccountCLI.SignUp(ctx, args[0], first, last)
		}),
	}
	signup.Flags().StringVar(&first, "first", "", "first name")
	signup.Flags().StringVar(&last, "last", "", "last name")

	details := &cobra.Command{
		Use:   "details",
		Short: "Change the logged-in user's name",
		RunE: run(func(ctx context.Context, app *bootstrap.App, _ []string) (accountdto.UserOutput, error) {
			return app.AccountCLI.UpdateDetails(ctx, first, last)
		}),
	}
	details.Flags().StringVar(&first, "first", "", "first name")
	details.Flags().StringVar(&last, "last", "", "last name")

	account.AddCommand(signup, details)

	account.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: run(func(ctx context.Context, app *bootstrap.App, _ []string) (accountdto.UserOutput, error) {
			return app.AccountCLI.Current(ctx)
		}),
	})

	account.AddCommand(&cobra.Command{
		Use:   "sync-watch",
		Short: "Mark the paired watch as synced",
		RunE: run(func(ctx context.Context, app *bootstrap.App, _ []string) (accountdto.UserOutput, error) {
			return app.AccountCLI.SyncWatch(ctx)
		}),
	})

	account.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Log out and reset the coin balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.AccountCLI.Logout(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return nil
			})
		},
	})
	return account
}

func printUser(out io.Writer, u accountdto.UserOutput) {
	watch := "watch not synced"
	if u.WatchSynced {
		watch = "watch synced"
	}
	_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", u.Username, u.DisplayName, watch)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the focus dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The dashboard owns the terminal, so logs go to a file and
			// notices surface as focus events instead of stdout lines.
			logFile, err := openLogFile(opts.dataDir)
			if err != nil {
				return err
			}
			defer logFile.Close()

			app, err := loadApp(cmd, opts, logFile, io.Discard)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()
			runErr := bootstrap.RunTUI(ctx, app)
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return errors.Join(runErr, app.Close(closeCtx))
		},
	}
}

func openLogFile(dataDir string) (*os.File, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return os.OpenFile(filepath.Join(dataDir, "neurofade.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
