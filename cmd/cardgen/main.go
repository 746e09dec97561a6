// Package main provides the entry point for the cardgen CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/youruser/cardgen/internal/config"
	imagepkg "github.com/youruser/cardgen/internal/image"
	"github.com/youruser/cardgen/internal/keyword"
	"github.com/youruser/cardgen/internal/output"
	"github.com/youruser/cardgen/internal/render"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(version),
		fang.WithErrorHandler(printError),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	return output.GetExitCode(err)
}

// printError reports a failed command, including the wrapped cause.
func printError(w io.Writer, _ fang.Styles, err error) {
	output.NewPrinter(w, output.IsTTY(os.Stderr)).Error(err)
}

// flagKeys maps config keys to the persistent flags that override them.
var flagKeys = map[string]string{
	"assets":    "asset-path",
	"keywords":  "keyword-path",
	"log_level": "log-level",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("binding %s: no flag --%s", key, name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// app is the state shared by subcommands, filled in before each command runs.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	cmd := &cobra.Command{
		Use:   "cardgen",
		Short: "Render card images from data files",
		Long: `cardgen renders card images from JSON or YAML data files.

Card descriptions use keyword markup: {Name} is replaced by the entry for
Name in the keyword dictionary, which may be colored text, an inline icon
or both. Data files and the keyword dictionary may inherit fields from a
parent file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./cardgen.yaml)")
	flags.StringP("asset-path", "a", "", "directory holding the template, fonts and icons")
	flags.StringP("keyword-path", "k", "", "keyword dictionary (default <asset-path>/keywords.json)")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newRenderCmd(a),
		newBatchCmd(a),
		newWrapCmd(a),
		newCheckCmd(a),
		newServeCmd(a),
	)
	return cmd
}

func (a *app) load(cmd *cobra.Command) error {
	if err := bindFlags(a.v, cmd.Root().PersistentFlags()); err != nil {
		return output.NewSystemErrorWithCause("reading flags", err)
	}
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return output.NewUserErrorWithCause("loading config", err)
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	a.logger.Debug("config loaded", "assets", cfg.Assets, "keywords", cfg.KeywordPath())
	return nil
}

func (a *app) printer(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), output.IsTTY(cmd.OutOrStdout())).WithStderr(cmd.ErrOrStderr())
}

// renderer loads the assets and keyword dictionary for one run.
func (a *app) renderer() (*render.Renderer, error) {
	assets, err := render.LoadAssets(a.cfg)
	if err != nil {
		return nil, fail("loading assets", err)
	}
	dict, err := keyword.Open(a.cfg.KeywordPath())
	if err != nil {
		return nil, fail("loading keywords", err)
	}
	r, err := render.New(a.cfg, assets, dict, a.logger)
	if err != nil {
		return nil, fail("preparing renderer", err)
	}
	return r, nil
}

// fail classifies err: file system and asset integrity problems are system
// errors, everything else is a problem with the input data.
func fail(message string, err error) error {
	var pathErr *fs.PathError
	var sumErr *imagepkg.ChecksumError
	if errors.As(err, &pathErr) || errors.As(err, &sumErr) {
		return output.NewSystemErrorWithCause(message, err)
	}
	return output.NewUserErrorWithCause(message, err)
}
