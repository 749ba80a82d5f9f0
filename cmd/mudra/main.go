package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/controls"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/pointer"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadArgs("mudra", args)
	if err != nil {
		return err
	}

	log, logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if used := config.ConfigFileUsed(); used != "" {
		log.Info().Str("file", used).Msg("config loaded")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	if err := seedBindings(st, cfg.Dispatch.EvaluateControl, log); err != nil {
		return err
	}

	plugins := plugin.NewManager(cfg.Plugins.Dir, log)
	if err := plugins.Discover(); err != nil {
		log.Warn().Err(err).Str("dir", cfg.Plugins.Dir).Msg("plugin discovery failed")
	}

	registry := controls.NewRegistry()
	binder := controls.NewBinder(registry, st.Bindings(), plugins, plugin.NewExecutor(cfg.Plugins.Timeout), log)
	if err := binder.Reload(); err != nil {
		return err
	}
	if !registry.Has(cfg.Dispatch.EvaluateControl) {
		log.Warn().Str("control", cfg.Dispatch.EvaluateControl).Msg("evaluate control is not bound; clicks will not evaluate")
	}

	clickMode, err := gesture.ParseClickMode(cfg.Gesture.ClickMode)
	if err != nil {
		return err
	}

	sink := dispatch.NewSink(pointer.NewRobot(cfg.Screen.Width, cfg.Screen.Height), registry)
	if size, err := sink.ScreenSize(); err != nil {
		log.Warn().Err(err).Msg("no screen detected; pointer actions will fail")
	} else {
		log.Info().Int("width", size.W).Int("height", size.H).Msg("screen")
	}

	camera := capture.NewCamera(capture.Config{
		Device: cfg.Camera.Device,
		Width:  cfg.Camera.Width,
		Height: cfg.Camera.Height,
		Mirror: cfg.Camera.Mirror,
	})

	a, err := app.New(app.Config{
		Interval:        cfg.Capture.Interval,
		MotionGate:      cfg.Capture.MotionGate,
		MotionThreshold: cfg.Capture.MotionThreshold,
		ClickMode:       clickMode,
		EvaluateControl: cfg.Dispatch.EvaluateControl,
		Enabled:         st.Settings().Bool(store.SettingEnabled, true),
	}, camera, newDetector(cfg, log), sink, log)
	if err != nil {
		return err
	}
	defer a.Close()

	hub := server.NewHub(log)
	a.OnTick(hub.PublishTick)
	a.OnFrame(hub.PublishFrame)
	a.SetFrameDemand(hub.WantsFrames)
	a.OnEnabledChange(func(enabled bool) {
		if err := st.Settings().SetBool(store.SettingEnabled, enabled); err != nil {
			log.Warn().Err(err).Msg("failed to persist enabled flag")
		}
	})

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir(cfg.DataDir)
	}
	if staticDir != "" {
		log.Info().Str("dir", staticDir).Msg("serving static files")
	}

	srv := server.New(server.Config{
		StaticDir:         staticDir,
		Store:             st,
		Plugins:           plugins,
		Controller:        a,
		Hub:               hub,
		OnBindingsChanged: binder.Reload,
		Log:               log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.Addr).Msg("control panel listening")
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	})
	g.Go(func() error {
		if err := a.Start(ctx); err != nil {
			return fmt.Errorf("start poll loop: %w", err)
		}
		<-ctx.Done()
		a.Stop()
		return nil
	})

	if !cfg.Tray.Enabled {
		return ignoreCanceled(g.Wait())
	}

	// systray must own the main goroutine.
	t := tray.New(a.IsEnabled())
	t.OnToggle(a.SetEnabled)
	t.OnOpenPanel(func() {
		if err := openBrowser(panelURL(cfg.Server.Addr)); err != nil {
			log.Warn().Err(err).Msg("failed to open browser")
		}
	})
	t.OnQuit(stop)
	a.OnEnabledChange(t.SetEnabled)
	a.OnTick(func(r app.TickReport) {
		if len(r.Hands) > 0 {
			t.SetLastIntent(r.Hands[0].Intent.String())
		}
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Wait()
		t.Quit()
	}()
	t.Run()
	stop()

	return ignoreCanceled(<-errCh)
}

// seedBindings binds the evaluate control to the "=" key on first run.
func seedBindings(st *store.Store, evaluate string, log zerolog.Logger) error {
	created, err := st.Bindings().EnsureDefault(&store.Binding{
		Control:    evaluate,
		PluginName: "keyboard",
		ActionName: "keystroke",
		Params:     json.RawMessage(`{"key":"="}`),
		Enabled:    true,
	})
	if err != nil {
		return fmt.Errorf("seed bindings: %w", err)
	}
	if created {
		log.Info().Str("control", evaluate).Msg("default binding created")
	}
	return nil
}

// newDetector starts MediaPipe, falling back to a detector that never sees
// hands so the control panel still works.
func newDetector(cfg config.Config, log zerolog.Logger) detector.Detector {
	dc := detector.DefaultConfig()
	dc.MaxHands = cfg.Detector.MaxHands
	dc.MinConfidence = cfg.Detector.MinConfidence
	dc.MinTrackingConf = cfg.Detector.MinTrackingConf

	mp, err := detector.NewMediaPipeDetector(dc, log)
	if err != nil {
		log.Warn().Err(err).Msg("MediaPipe not available, hand detection disabled")
		return detector.NewMockDetector()
	}
	log.Info().Msg("using MediaPipe hand detection")
	return mp
}

// findWebDir returns the first existing web directory among ./web, ../web
// and <dataDir>/web.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func panelURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
