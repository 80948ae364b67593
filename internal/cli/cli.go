package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Mower/internal/config"
	"Mower/internal/engine"
	"Mower/internal/logger"
	"Mower/internal/scene"
	"Mower/internal/viewer"
	_ "Mower/scripts"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ModelSource says where a variant takes its model from.
type ModelSource int

const (
	// ModelFixed always shows Variant.Model.
	ModelFixed ModelSource = iota
	// ModelSceneFlag parses the --scene flag.
	ModelSceneFlag
	// ModelURLArg takes a URL as the only argument.
	ModelURLArg
)

// Variant is one viewer binary.
type Variant struct {
	Use    string
	Short  string
	Title  string
	Model  string
	Source ModelSource
	Web    bool
}

var (
	Mower = Variant{
		Use:   "mower",
		Short: "Orbit around the FlightHelmet with web assets enabled",
		Title: "Mower",
		Model: scene.DefaultModel,
		Web:   true,
	}
	Helmet = Variant{
		Use:   "helmet",
		Short: "Orbit around the FlightHelmet from local assets",
		Title: "FlightHelmet",
		Model: scene.DefaultModel,
	}
	SceneView = Variant{
		Use:    "sceneview",
		Short:  `View any glTF scene given as "<path>#Scene<N>"`,
		Title:  "Scene Viewer",
		Model:  scene.DefaultModel,
		Source: ModelSceneFlag,
	}
	WebView = Variant{
		Use:    "webview <url>",
		Short:  "Download a glTF scene over HTTP(S) and view it",
		Title:  "Web Viewer",
		Source: ModelURLArg,
		Web:    true,
	}
)

// Options are the command line flags shared by every variant.
type Options struct {
	ConfigPath     string
	LogLevel       string
	Scene          string
	AssetRoot      string
	NoOverlay      bool
	LogDiagnostics bool
	Watch          bool
	Refresh        bool
}

// RunFunc starts the viewer with a final config.
type RunFunc func(ctx context.Context, cfg config.Config) error

// BuildConfig layers the variant defaults, the config file and the flags.
func BuildConfig(v Variant, opts Options, args []string) (config.Config, error) {
	cfg := config.Default()
	cfg.Window.Title = v.Title
	cfg.Assets.Web = v.Web
	if v.Model != "" {
		cfg.Model = v.Model
	}

	if opts.ConfigPath != "" {
		if err := config.LoadInto(&cfg, opts.ConfigPath); err != nil {
			return cfg, err
		}
	}

	switch v.Source {
	case ModelFixed:
		cfg.Model = v.Model
	case ModelSceneFlag:
		if opts.Scene != "" {
			cfg.Model = opts.Scene
		}
	case ModelURLArg:
		if len(args) != 1 {
			return cfg, errors.New("expected exactly one URL argument")
		}
		if !scene.IsRemote(args[0]) {
			return cfg, fmt.Errorf("%q is not an http(s) URL", args[0])
		}
		cfg.Model = args[0]
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.AssetRoot != "" {
		cfg.Assets.Root = opts.AssetRoot
	}
	if opts.NoOverlay {
		cfg.Diagnostics.Overlay = false
	}
	if opts.LogDiagnostics {
		cfg.Diagnostics.Log = true
	}
	if opts.Watch {
		cfg.Assets.Watch = true
	}
	if opts.Refresh {
		cfg.Assets.Refresh = true
	}

	return cfg, cfg.Validate()
}

// Command builds the cobra command for v.
func Command(v Variant, run RunFunc) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:           v.Use,
		Short:         v.Short,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := BuildConfig(v, opts, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	if v.Source == ModelURLArg {
		cmd.Args = cobra.ExactArgs(1)
	}

	f := cmd.Flags()
	f.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (.json, .toml, .yaml)")
	f.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&opts.AssetRoot, "assets", "", "directory relative asset paths are resolved against")
	f.BoolVar(&opts.NoOverlay, "no-overlay", false, "hide the performance overlay")
	f.BoolVar(&opts.LogDiagnostics, "log-diagnostics", false, "log diagnostics every interval")
	f.BoolVar(&opts.Watch, "watch", false, "reload the model when its file changes")
	if v.Web {
		f.BoolVar(&opts.Refresh, "refresh", false, "download web assets again even when cached")
	}
	if v.Source == ModelSceneFlag {
		f.StringVarP(&opts.Scene, "scene", "s", "", `scene to show, "<path>#Scene<N>"`)
	}
	return cmd
}

// Start initialises logging and runs the viewer on the g3n engine.
func Start(ctx context.Context, cfg config.Config) error {
	if err := logger.Init(cfg.LogLevel); err != nil {
		return err
	}
	defer logger.Sync()

	eng := engine.New()
	eng.ClearColor = cfg.Window.ClearColor
	eng.DarkTitleBar = cfg.Window.DarkTitleBar
	eng.ShadowMapSize = cfg.ShadowMapSize

	v, err := viewer.New(cfg, eng)
	if err != nil {
		return err
	}
	if err := v.Run(ctx); err != nil {
		logger.Log.Error("Viewer stopped", zap.Error(err))
		return err
	}
	return nil
}

// Execute runs v until the window closes or the process is interrupted and
// returns the exit code.
func Execute(v Variant) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Command(v, Start).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", v.name(), err)
		return 1
	}
	return 0
}

func (v Variant) name() string {
	for i, r := range v.Use {
		if r == ' ' {
			return v.Use[:i]
		}
	}
	return v.Use
}
