package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"linkedout/internal/app"
	"linkedout/internal/config"
	"linkedout/internal/db"
	"linkedout/internal/outcome"
	"linkedout/internal/viewmodel"
)

var rootCmd = &cobra.Command{
	Use:   "linkedout",
	Short: "LinkedOut job board client",
	Long: `LinkedOut connects job seekers and recruiters.
- Workspace: the directory holding linkedout.yml, an optional .env and the .linkedout database (session + dev backend).
- Session: the stored token, user id, user type and onboarding step; 'linkedout start' shows where the app would open.
- Onboarding: signup step1 creates the account, step2 fills the role profile, step3 stores (or skips) preferences.
- Seekers browse, get recommendations and apply; recruiters post jobs and decide on applications.
- 'linkedout serve' runs a local backend implementing the same REST API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if err := godotenv.Load(envPath(workspace)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println("error:", err)
		stop()
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("LINKEDOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides config)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func registerCommands() {
	rootCmd.AddCommand(signupCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(meCmd())
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(sessionCmd())
	rootCmd.AddCommand(jobsCmd())
	rootCmd.AddCommand(applicationsCmd())
	rootCmd.AddCommand(uploadCmd())
	rootCmd.AddCommand(fileURLCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(eventsCmd())
	rootCmd.AddCommand(routesCmd())
	rootCmd.AddCommand(serveCmd())
}

// --- helpers ---

func envPath(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, ".env")
}

// loadConfig reads linkedout.yml and applies flag and environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOptional(viper.GetString("workspace"))
	if err != nil {
		return nil, err
	}
	if u := viper.GetString("api-url"); u != "" {
		cfg.API.BaseURL = u
	}
	if l := viper.GetString("log-level"); l != "" {
		cfg.Log.Level = l
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return cfg.Log.Build(os.Stderr)
}

func withClient(ctx context.Context, fn func(context.Context, *app.Client) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()
	c, err := app.Open(ctx, viper.GetString("workspace"), cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

// await blocks until slot holds a terminal outcome and turns Error into an error.
func await[T any](ctx context.Context, slot *viewmodel.Slot[T]) (T, error) {
	o, err := slot.Await(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return result(o)
}

func result[T any](o outcome.Outcome[T]) (T, error) {
	var zero T
	err := outcome.Match(o,
		func() error { return errors.New("request still loading") },
		func(T) error { return nil },
		func(msg string, fields []outcome.FieldError) error {
			if len(fields) == 0 {
				return errors.New(msg)
			}
			parts := make([]string, 0, len(fields))
			for _, f := range fields {
				parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
			}
			return fmt.Errorf("%s (%s)", msg, strings.Join(parts, "; "))
		})
	if err != nil {
		return zero, err
	}
	return o.Data, nil
}

// render prints v as JSON with --json, otherwise calls fill to build a table.
func render(v any, fill func(tw table.Writer)) error {
	if jsonOutput() || fill == nil {
		return printJSON(v)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	fill(tw)
	tw.Render()
	return nil
}

// renderMessage prints a one line result, or {"message": ...} with --json.
func renderMessage(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if jsonOutput() {
		return printJSON(map[string]string{"message": msg})
	}
	fmt.Println(msg)
	return nil
}

func jsonOutput() bool { return viper.GetBool("json") }

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// changedString returns &v when flag was set on the command line.
func changedString(cmd *cobra.Command, flag, v string) *string {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &v
}

func changedFloat(cmd *cobra.Command, flag string, v float64) *float64 {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &v
}

func changedInt(cmd *cobra.Command, flag string, v int) *int {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &v
}

func deref[T any](p *T) any {
	if p == nil {
		return ""
	}
	return *p
}
