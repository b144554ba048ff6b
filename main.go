package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"kioku/app"
	"kioku/config"
	"kioku/log"
	"kioku/wordlist"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const exitBrokenPipe = 141

var (
	version          = "0.3.0"
	lengthFlag       int
	outputFlag       string
	wordsFlag        string
	yesFlag          bool
	removeCachedFlag bool

	rootCmd = &cobra.Command{
		Use:   "kioku",
		Short: "Generate random human-readable names for experiments and log associated metadata",
		Args:  cobra.NoArgs,
		// errors are printed by main so exit codes stay under our control
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, cfg, err := loadConfig(cmd, rootFlagKeys)
			if err != nil {
				return err
			}
			log.Initialize(cfg.LogLevel)
			defer log.Close()

			dir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			cache := wordlist.NewCache(dir, cfg.WordlistURL, wordlist.NewPrompt(cfg.AssumeYes))
			log.Debug("config file: %s", v.ConfigFileUsed())

			return app.Run(cmd.Context(), app.Options{
				Length:       cfg.Length,
				Output:       outputFlag,
				Words:        wordsFlag,
				RemoveCached: removeCachedFlag,
				Cache:        cache,
			}, cmd.OutOrStdout())
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config and wordlist paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			dir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			cache := wordlist.NewCache(dir, cfg.WordlistURL, nil)
			configJson, _ := json.MarshalIndent(cfg, "", "  ")

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config dir: %s\n", dir)
			fmt.Fprintf(out, "Wordlist: %s (cached: %t)\n", cache.Path(), cache.Exists())
			fmt.Fprintf(out, "Config:\n%s\n", configJson)
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kioku",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kioku version %s\n", version)
		},
	}
)

// rootFlagKeys maps config keys to the root command flags that override them.
var rootFlagKeys = map[string]string{"length": "length", "assume_yes": "yes"}

func loadConfig(cmd *cobra.Command, keys map[string]string) (*viper.Viper, *config.Config, error) {
	return config.LoadConfig(cmd.Flags(), keys)
}

func init() {
	rootCmd.Flags().IntVarP(&lengthFlag, "length", "l", 3, "Length of the generated name in words")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "",
		"Output metadata in JSON format to FILE (.jsonl appends one record per line)")
	rootCmd.Flags().StringVarP(&wordsFlag, "words", "w", "", "Wordlist to use instead of the cached default")
	rootCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Download the default wordlist without asking")
	rootCmd.Flags().BoolVar(&removeCachedFlag, "remove-cached", false, "Remove the cached default wordlist and exit")

	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// get EPIPE from writes to a closed stdout instead of dying on SIGPIPE
	signal.Ignore(syscall.SIGPIPE)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode reports err on stderr and maps it to the process exit status.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, app.ErrBrokenOutput) {
		return exitBrokenPipe
	}

	var fileErr *wordlist.FileError
	if errors.As(err, &fileErr) && fileErr.Hidden {
		fmt.Fprintln(stderr, fileErr.Redacted())
	} else {
		fmt.Fprintln(stderr, err)
	}
	return 1
}
