// Package main is the entry point for the notebookconv CLI.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/csheth/notebookconv/internal/config"
	"github.com/csheth/notebookconv/internal/converter"
	"github.com/csheth/notebookconv/internal/delivery"
	"github.com/csheth/notebookconv/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

// configErr holds a failure from initConfig so every command reports it.
var configErr error

var rootCmd = &cobra.Command{
	Use:   "notebookconv [notebook.ipynb]",
	Short: "Convert Jupyter notebooks to HTML or PDF",
	Long: `notebookconv uploads a Jupyter notebook to a conversion service and saves
the HTML or PDF it returns.

Without a subcommand it opens an interactive terminal UI. A notebook path
given as an argument is selected before the first frame.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./notebookconv.yaml or ~/.config/notebookconv/notebookconv.yaml)")
	flags.String("api-url", "", "conversion service base URL")
	flags.String("output-dir", "", "directory converted files are saved into")
	flags.String("format", "", "output format: html or pdf")
	flags.String("log-file", "", "append debug logs to this file")

	mustBind(config.KeyAPIURL, flags.Lookup("api-url"))
	mustBind(config.KeyOutputDir, flags.Lookup("output-dir"))
	mustBind(config.KeyFormat, flags.Lookup("format"))
	mustBind(config.KeyLogFile, flags.Lookup("log-file"))

	rootCmd.Flags().Bool("alt-screen", false, "draw the UI on the alternate screen buffer")
	mustBind(config.KeyAltScreen, rootCmd.Flags().Lookup("alt-screen"))
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	_, configErr = config.Init(viper.GetViper(), cfgFile)
}

func loadConfig() (config.Config, error) {
	if configErr != nil {
		return config.Config{}, configErr
	}
	return config.Load(viper.GetViper())
}

// setupLogging routes the standard logger to the configured file, or drops
// it. The returned func closes the file.
func setupLogging(cfg config.Config) (func(), error) {
	if cfg.LogFile == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(cfg.LogFile, "notebookconv")
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log.Printf("[config] api_url=%s output_dir=%s format=%s", cfg.APIURL, cfg.OutputDir, cfg.Format)
	return func() { _ = f.Close() }, nil
}

func newClient(cfg config.Config) *converter.Client {
	return converter.New(converter.Config{BaseURL: cfg.APIURL, UserAgent: cfg.UserAgent})
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	client := newClient(cfg)
	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Checker:      client,
			Converter:    client,
			Host:         delivery.DiskHost{Dir: cfg.OutputDir},
			ServiceURL:   client.BaseURL(),
			OutputDir:    cfg.OutputDir,
			Format:       cfg.OutputFormat(),
			InitialPaths: args,
		}),
		opts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
