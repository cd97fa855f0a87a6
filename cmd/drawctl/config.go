package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/playperu/secretdraw/internal/admin"
	"github.com/playperu/secretdraw/internal/config"
	"github.com/playperu/secretdraw/internal/join"
	"github.com/playperu/secretdraw/internal/repository"
	"github.com/playperu/secretdraw/internal/store"
)

type Config struct {
	backend     string
	baseURL     string
	binID       string
	apiKey      string
	dbPath      string
	redisURL    string
	redisKey    string
	timeout     time.Duration
	gateKey     string
	maxAttempts int
	verify      bool
	retryDelay  time.Duration
	verbose     bool
}

func (c *Config) storeConfig() *config.Config {
	return &config.Config{
		StoreBackend:    strings.ToLower(c.backend),
		StoreTimeout:    c.timeout,
		JSONBinBaseURL:  c.baseURL,
		JSONBinBinID:    c.binID,
		JSONBinAPIKey:   c.apiKey,
		DBPath:          c.dbPath,
		RedisURL:        c.redisURL,
		RedisKey:        c.redisKey,
		JoinMaxAttempts: c.maxAttempts,
		JoinVerify:      c.verify,
		JoinRetryDelay:  c.retryDelay,
	}
}

// app holds what every subcommand needs once the store is open.
type app struct {
	cfg    *Config
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger

	// open connects to the store; tests replace it.
	open func(ctx context.Context, cfg *config.Config) (store.Client, func() error, error)

	games  *repository.Repository
	joiner *join.Coordinator
	gate   *admin.Gate
	close  func() error
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		cfg:    &Config{},
		out:    out,
		errOut: errOut,
		open: func(ctx context.Context, cfg *config.Config) (store.Client, func() error, error) {
			b, err := cfg.OpenBackend(ctx)
			if err != nil {
				return nil, nil, err
			}
			return b.Client, b.Close, nil
		},
	}
}

// connect validates flags, opens the store and wires the game components.
func (a *app) connect(ctx context.Context) error {
	level := slog.LevelWarn
	if a.cfg.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	sc := a.cfg.storeConfig()
	if err := sc.Validate(); err != nil {
		return err
	}
	client, closeFn, err := a.open(ctx, sc)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	gate, err := admin.NewGate(a.cfg.gateKey)
	if err != nil {
		closeFn()
		return err
	}

	a.games = repository.New(client, a.logger)
	a.joiner = join.New(a.games, a.logger, sc.JoinOptions())
	a.gate = gate
	a.close = closeFn
	return nil
}

func (a *app) disconnect() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

func newCmd(a *app) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DRAWCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := a.cfg
	cmd := &cobra.Command{
		Use:           "drawctl",
		Short:         "Create, join and administer secret-draw games.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.connect(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.disconnect()
		},
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.backend, "backend", config.BackendJSONBin, "store backend: jsonbin, sqlite, redis or memory (env: DRAWCTL_BACKEND)")
	fs.StringVar(&cfg.baseURL, "jsonbin-url", "https://api.jsonbin.io/v3/b", "JSONBin-compatible base url (env: DRAWCTL_JSONBIN_URL)")
	fs.StringVar(&cfg.binID, "bin-id", "", "JSONBin bin id (env: DRAWCTL_BIN_ID)")
	fs.StringVar(&cfg.apiKey, "api-key", "", "JSONBin master key (env: DRAWCTL_API_KEY)")
	fs.StringVar(&cfg.dbPath, "db", "data/secretdraw.db", "sqlite database path (env: DRAWCTL_DB)")
	fs.StringVar(&cfg.redisURL, "redis-url", "redis://localhost:6379/0", "redis url (env: DRAWCTL_REDIS_URL)")
	fs.StringVar(&cfg.redisKey, "redis-key", "secretdraw:games", "redis key holding the collection (env: DRAWCTL_REDIS_KEY)")
	fs.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "store request timeout (env: DRAWCTL_TIMEOUT)")
	fs.StringVar(&cfg.gateKey, "gate-key", admin.DefaultKey, "admin key that reset and close are checked against (env: DRAWCTL_GATE_KEY)")
	fs.IntVar(&cfg.maxAttempts, "max-attempts", 3, "commit attempts per join (env: DRAWCTL_MAX_ATTEMPTS)")
	fs.BoolVar(&cfg.verify, "verify", true, "read back each join to detect lost updates (env: DRAWCTL_VERIFY)")
	fs.DurationVar(&cfg.retryDelay, "retry-delay", 50*time.Millisecond, "wait between commit attempts (env: DRAWCTL_RETRY_DELAY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log join state transitions to stderr (env: DRAWCTL_VERBOSE)")

	cmd.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newCreateCmd(a),
		newJoinCmd(a),
		newResetCmd(a),
		newCloseCmd(a),
		newInteractiveCmd(a),
	)

	bindEnv(v, fs)
	for _, sub := range cmd.Commands() {
		bindEnv(v, sub.Flags())
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("drawctl v{{.Version}}\n")
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	return cmd
}

// bindEnv lets DRAWCTL_* variables fill in any flag not set on the command line.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
