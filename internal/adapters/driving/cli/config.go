package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// configKeys are the settings commands read, with their meanings.
var configKeys = map[string]string{
	"analyzer.provider":        "analyzer backend: openai or ollama",
	"analyzer.model":           "analyzer model name",
	"analyzer.base_url":        "analyzer API base URL",
	"analyzer.api_key":         "analyzer API key",
	"analyzer.timeout_seconds": "per-request analyzer timeout",
	"analyzer.rate_limit":      "max analyzer calls per second",
	"generate.extensions":      "source extensions to scan",
	"generate.concurrency":     "parallel file workers",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage persisted settings",
	Long:  `View and change settings stored in ~/.docfold/config.toml. Flags on the generate command override these.`,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	keys := make([]string, 0, len(configKeys))
	for key := range configKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cmd.Printf("Config file: %s\n\n", configStore.Path())
	for _, key := range keys {
		value, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("%-26s (unset)  %s\n", key, configKeys[key])
			continue
		}
		if key == "analyzer.api_key" {
			value = "********"
		}
		cmd.Printf("%-26s %-8v %s\n", key, value, configKeys[key])
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	if _, known := configKeys[key]; !known {
		return errors.New("unknown setting: " + key)
	}

	value, err := parseConfigValue(key, args[1])
	if err != nil {
		return err
	}

	if err := configStore.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

// parseConfigValue coerces the raw argument into the type readers of the
// key expect. Numeric keys stored as strings would read back as zero.
func parseConfigValue(key, raw string) (any, error) {
	switch key {
	case "generate.concurrency", "analyzer.timeout_seconds":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer, got %q", key, raw)
		}
		return n, nil
	case "analyzer.rate_limit":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s expects a number, got %q", key, raw)
		}
		return f, nil
	case "generate.extensions":
		parts := strings.Split(raw, ",")
		exts := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				exts = append(exts, p)
			}
		}
		return exts, nil
	default:
		return raw, nil
	}
}
