package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	accountinadapter "neurofade/internal/modules/account/adapter/in"
	accountdomain "neurofade/internal/modules/account/domain"
	accountservice "neurofade/internal/modules/account/service"
	accountusecase "neurofade/internal/modules/account/usecase"
	blocklistinadapter "neurofade/internal/modules/blocklist/adapter/in"
	blocklistoutadapter "neurofade/internal/modules/blocklist/adapter/out"
	blocklistservice "neurofade/internal/modules/blocklist/service"
	blocklistusecase "neurofade/internal/modules/blocklist/usecase"
	focusinadapter "neurofade/internal/modules/focus/adapter/in"
	focusservice "neurofade/internal/modules/focus/service"
	focususecase "neurofade/internal/modules/focus/usecase"
	permissioninadapter "neurofade/internal/modules/permission/adapter/in"
	permissionoutadapter "neurofade/internal/modules/permission/adapter/out"
	permissiondomain "neurofade/internal/modules/permission/domain"
	permissionout "neurofade/internal/modules/permission/port/out"
	permissionservice "neurofade/internal/modules/permission/service"
	permissionusecase "neurofade/internal/modules/permission/usecase"
	restrictioninadapter "neurofade/internal/modules/restriction/adapter/in"
	restrictionoutadapter "neurofade/internal/modules/restriction/adapter/out"
	restrictionservice "neurofade/internal/modules/restriction/service"
	restrictionusecase "neurofade/internal/modules/restriction/usecase"
	rewardinadapter "neurofade/internal/modules/reward/adapter/in"
	rewardservice "neurofade/internal/modules/reward/service"
	rewardusecase "neurofade/internal/modules/reward/usecase"
	signalinadapter "neurofade/internal/modules/signal/adapter/in"
	signaloutadapter "neurofade/internal/modules/signal/adapter/out"
	signalout "neurofade/internal/modules/signal/port/out"
	signalservice "neurofade/internal/modules/signal/service"
	signalusecase "neurofade/internal/modules/signal/usecase"
	"neurofade/internal/platform/clock"
	"neurofade/internal/platform/config"
	"neurofade/internal/platform/id"
	"neurofade/internal/platform/logging"
	uiapp "neurofade/internal/ui/app"
)

const restrictionQuestion = "Allow NeuroFade to block the selected apps during focus sessions?"

// Options carries process-level collaborators. Zero values select the
// real clock, stdio and a no-op logger.
type Options struct {
	Clock      clock.Clock
	Stdin      io.Reader
	Stdout     io.Writer
	NoticeSink io.Writer
	Log        *zap.Logger
}

type App struct {
	Config         config.Config
	SignalCLI      signalinadapter.CLIHandler
	PermissionCLI  permissioninadapter.CLIHandler
	FocusCLI       focusinadapter.CLIHandler
	RestrictionCLI restrictioninadapter.CLIHandler
	RewardCLI      rewardinadapter.CLIHandler
	BlockListCLI   blocklistinadapter.CLIHandler
	AccountCLI     accountinadapter.CLIHandler

	closers []func(context.Context) error
}

func New(cfg config.Config, opts Options) (*App, error) {
	opts = withDefaults(opts)
	clk := opts.Clock
	log := opts.Log
	ids := id.UUID{}
	app := &App{Config: cfg}

	random := signaloutadapter.NewMathRandom(nil)
	var sensor signalout.Sensor
	var source signalservice.Source
	switch cfg.Signal.Source {
	case config.SourceDevice:
		device := signaloutadapter.NewPluginSensor(cfg.Signal.SensorPlugin)
		app.closers = append(app.closers, func(context.Context) error { return device.Close() })
		sensor = device
		source = signalservice.NewDeviceSource(clk, device)
	default:
		sensor = signaloutadapter.NewSimulatedSensor(random)
		source = signalservice.NewSimulatedSource(clk, random)
	}
	observer, err := signalservice.NewObserver(clk, source, cfg.Signal.Interval, log.Named("signal"))
	if err != nil {
		return nil, fmt.Errorf("new signal observer: %w", err)
	}
	signalUC := signalusecase.NewInteractor(source, observer, sensor)

	gate := permissionservice.NewGate(clk, map[permissiondomain.Capability]permissionout.Authorizer{
		permissiondomain.CapabilityRestriction: permissionoutadapter.NewPromptAuthorizer(restrictionQuestion, cfg.Permissions.Mode, opts.Stdin, opts.Stdout),
		permissiondomain.CapabilityHealth:      permissionoutadapter.NewHealthAuthorizer(signalUC, cfg.Permissions.Mode),
	}, permissionoutadapter.StaticAuthorizer{Granted: cfg.Permissions.Mode != config.PermissionDeny}, log.Named("permission"))
	app.closers = append(app.closers, func(context.Context) error { gate.Wait(); return nil })
	permissionUC := permissionusecase.NewInteractor(gate)

	store, err := blocklistoutadapter.NewSQLiteKVStore(cfg.Store.Path)
	if err != nil {
		app.closeQuietly()
		return nil, fmt.Errorf("new kv store: %w", err)
	}
	app.closers = append(app.closers, func(context.Context) error { return store.Close() })
	blocklistUC := blocklistusecase.NewInteractor(blocklistservice.NewRepository(store))

	// A login saved by an earlier command wins over the configured name.
	directory := accountservice.NewDirectory(clk)
	rewardUC := rewardusecase.NewInteractor(rewardservice.NewLedger(), directory)
	accountUC := accountusecase.NewInteractor(directory, rewardUC, accountservice.NewProfiles(store))
	_, restored, err := accountUC.Restore(context.Background())
	if err != nil {
		app.closeQuietly()
		return nil, fmt.Errorf("restore login: %w", err)
	}
	if !restored && cfg.User.Username != "" {
		name, err := accountdomain.NormalizeUsername(cfg.User.Username)
		if err != nil {
			app.closeQuietly()
			return nil, err
		}
		directory.SignIn(accountdomain.User{Username: name})
	}

	notifier := restrictionoutadapter.NewClockNotifier(clk, ids, opts.NoticeSink, log.Named("notice"))
	applier := restrictionservice.NewApplier(
		clk,
		restrictionoutadapter.NewLocalProvider(clk),
		notifier,
		permissionUC,
		restrictionservice.NoticeText{Title: cfg.Notifications.Title, Body: cfg.Notifications.Body},
		log.Named("restriction"),
	)
	restrictionUC := restrictionusecase.NewInteractor(applier, clk)

	controller, err := focusservice.NewController(clk, ids, permissionUC, restrictionUC, rewardUC, focusservice.Settings{
		DefaultDuration:   cfg.Focus.DefaultDuration,
		CountdownInterval: cfg.Focus.CountdownInterval,
		RewardInterval:    cfg.Focus.RewardInterval,
	}, log.Named("focus"))
	if err != nil {
		app.closeQuietly()
		return nil, fmt.Errorf("new focus controller: %w", err)
	}
	app.closers = append(app.closers, controller.Close)
	focusUC := focususecase.NewInteractor(controller, blocklistUC)

	app.SignalCLI = signalinadapter.NewCLIHandler(signalUC)
	app.PermissionCLI = permissioninadapter.NewCLIHandler(permissionUC)
	app.FocusCLI = focusinadapter.NewCLIHandler(focusUC)
	app.RestrictionCLI = restrictioninadapter.NewCLIHandler(restrictionUC)
	app.RewardCLI = rewardinadapter.NewCLIHandler(rewardUC)
	app.BlockListCLI = blocklistinadapter.NewCLIHandler(blocklistUC)
	app.AccountCLI = accountinadapter.NewCLIHandler(accountUC)
	return app, nil
}

// Close releases resources in reverse order of acquisition. A running focus
// session is cancelled first so its restrictions are lifted.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) closeQuietly() {
	_ = a.Close(context.Background())
}

func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(ctx, app.Config, app.FocusCLI, app.PermissionCLI, app.SignalCLI, app.RewardCLI, app.BlockListCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func withDefaults(opts Options) Options {
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.NoticeSink == nil {
		opts.NoticeSink = opts.Stdout
	}
	opts.Log = logging.OrNop(opts.Log)
	return opts
}
