package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/config"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var initOnly bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.
With --init the file is written (when missing) and nothing is asked.`,
		Example: `  barbery config
  barbery config --init`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd.OutOrStdout(), os.Stdin, config.DefaultConfigPath(), initOnly)
		},
	}

	cmd.Flags().BoolVar(&initOnly, "init", false, "Write the default config file and exit")

	return cmd
}

func runConfig(out io.Writer, in io.Reader, configPath string, initOnly bool) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)
	if initOnly {
		return nil
	}

	reader := bufio.NewReader(in)
	if !promptYesNo(out, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Schedule.DayStart = promptValue(out, reader, "Day start", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = promptValue(out, reader, "Day end", cfg.Schedule.DayEnd)
	cfg.Schedule.SlotMinutes = promptInt(out, reader, "Slot minutes", cfg.Schedule.SlotMinutes)
	cfg.Storage.DBPath = promptValue(out, reader, "Database path", cfg.Storage.DBPath)
	cfg.Remote.BaseURL = promptValue(out, reader, "Remote URL (empty for local database)", cfg.Remote.BaseURL)
	cfg.Remote.Timeout = promptValue(out, reader, "Remote timeout", cfg.Remote.Timeout)
	cfg.UI.Theme = promptTheme(out, reader, cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[schedule]")
	fmt.Fprintf(out, "  day_start    = %s\n", cfg.Schedule.DayStart)
	fmt.Fprintf(out, "  day_end      = %s\n", cfg.Schedule.DayEnd)
	fmt.Fprintf(out, "  slot_minutes = %d\n", cfg.Schedule.SlotMinutes)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path      = %s\n", cfg.Storage.DBPath)
	if cfg.UseRemote() {
		fmt.Fprintln(out, "\n[remote]")
		fmt.Fprintf(out, "  base_url     = %s\n", cfg.Remote.BaseURL)
		fmt.Fprintf(out, "  timeout      = %s\n", cfg.Remote.Timeout)
	}
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme        = %s\n", cfg.UI.Theme)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  debug        = %t\n", cfg.Log.Debug)
	fmt.Fprintf(out, "  path         = %s\n", cfg.Log.Path)
}

func promptYesNo(out io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(out io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(out io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(out, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
	}
}

func promptTheme(out io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(out, reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
