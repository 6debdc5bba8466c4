package app

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

type fileConfig struct {
	TZ       string                `toml:"tz"`
	Output   string                `toml:"output"`
	Fields   string                `toml:"fields"`
	ECLevel  string                `toml:"ec_level"`
	History  *bool                 `toml:"history"`
	Profile  string                `toml:"profile"`
	Profiles map[string]fileConfig `toml:"profiles"`
}

// loadDotEnv reads .env from the working directory without overriding
// variables that are already set.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	_ = godotenv.Load(".env")
}

func resolveGlobalOptions(cmd *cobra.Command, defaults *globalOptions) (*globalOptions, error) {
	resolved := *defaults

	profile := firstNonEmpty(env("QRKIT_PROFILE"), defaults.Profile)
	if flagValueChanged(cmd, "profile") {
		profile = defaults.Profile
	}
	if profile == "" {
		profile = "default"
	}
	resolved.Profile = profile

	userPath := defaultUserConfigPath()
	projectPath := ".qrkit.toml"
	configPath := firstNonEmpty(env("QRKIT_CONFIG"), userPath)
	if flagValueChanged(cmd, "config") {
		configPath = defaults.Config
	}

	if cfg, ok := readConfigFile(userPath); ok {
		applyFileConfig(&resolved, cfg, profile)
	}
	if cfg, ok := readConfigFile(projectPath); ok {
		applyFileConfig(&resolved, cfg, profile)
	}
	if configPath != "" && configPath != userPath && configPath != projectPath {
		if cfg, ok := readConfigFile(configPath); ok {
			applyFileConfig(&resolved, cfg, profile)
		}
	}

	applyEnv(&resolved)
	applyFlags(cmd, &resolved, defaults)

	if resolved.Config == "" {
		resolved.Config = configPath
	}
	return &resolved, nil
}

func applyFileConfig(dst *globalOptions, cfg fileConfig, profile string) {
	if p, ok := cfg.Profiles[profile]; ok {
		cfg = mergeFileConfig(cfg, p)
	}
	if cfg.TZ != "" {
		dst.TZ = cfg.TZ
	}
	if cfg.Fields != "" {
		dst.Fields = cfg.Fields
	}
	if cfg.ECLevel != "" {
		dst.ECLevel = cfg.ECLevel
	}
	if cfg.History != nil {
		dst.NoHistory = !*cfg.History
	}
	applyOutputMode(dst, cfg.Output)
}

func mergeFileConfig(base, overlay fileConfig) fileConfig {
	if overlay.TZ != "" {
		base.TZ = overlay.TZ
	}
	if overlay.Output != "" {
		base.Output = overlay.Output
	}
	if overlay.Fields != "" {
		base.Fields = overlay.Fields
	}
	if overlay.ECLevel != "" {
		base.ECLevel = overlay.ECLevel
	}
	if overlay.History != nil {
		base.History = overlay.History
	}
	if overlay.Profile != "" {
		base.Profile = overlay.Profile
	}
	return base
}

func applyOutputMode(dst *globalOptions, v string) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "json":
		dst.JSON, dst.Plain = true, false
	case "plain":
		dst.JSON, dst.Plain = false, true
	}
}

func applyEnv(dst *globalOptions) {
	if v := env("QRKIT_TIMEZONE"); v != "" {
		dst.TZ = v
	}
	if v := env("QRKIT_FIELDS"); v != "" {
		dst.Fields = v
	}
	if v := env("QRKIT_EC_LEVEL"); v != "" {
		dst.ECLevel = v
	}
	if v := env("QRKIT_HISTORY_DB"); v != "" {
		dst.HistoryDB = v
	}
	applyOutputMode(dst, env("QRKIT_OUTPUT"))
	if v := env("QRKIT_HISTORY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			dst.NoHistory = !b
		}
	}
}

func applyFlags(cmd *cobra.Command, dst, fromFlags *globalOptions) {
	copyIfChanged(cmd, "json", func() { dst.JSON = fromFlags.JSON })
	copyIfChanged(cmd, "plain", func() { dst.Plain = fromFlags.Plain })
	copyIfChanged(cmd, "fields", func() { dst.Fields = fromFlags.Fields })
	copyIfChanged(cmd, "quiet", func() { dst.Quiet = fromFlags.Quiet })
	copyIfChanged(cmd, "verbose", func() { dst.Verbose = fromFlags.Verbose })
	copyIfChanged(cmd, "profile", func() { dst.Profile = fromFlags.Profile })
	copyIfChanged(cmd, "config", func() { dst.Config = fromFlags.Config })
	copyIfChanged(cmd, "tz", func() { dst.TZ = fromFlags.TZ })
	copyIfChanged(cmd, "ec-level", func() { dst.ECLevel = fromFlags.ECLevel })
	copyIfChanged(cmd, "no-history", func() { dst.NoHistory = fromFlags.NoHistory })
	copyIfChanged(cmd, "schema-version", func() { dst.SchemaVersion = fromFlags.SchemaVersion })

	// A single explicit output flag beats env/config output mode.
	jsonSet := flagValueChanged(cmd, "json") && fromFlags.JSON
	plainSet := flagValueChanged(cmd, "plain") && fromFlags.Plain
	switch {
	case jsonSet && !plainSet:
		dst.JSON, dst.Plain = true, false
	case plainSet && !jsonSet:
		dst.JSON, dst.Plain = false, true
	}
}

func copyIfChanged(cmd *cobra.Command, name string, fn func()) {
	if flagValueChanged(cmd, name) {
		fn()
	}
}

func flagValueChanged(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := cmd.InheritedFlags().Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

func readConfigFile(path string) (fileConfig, bool) {
	if strings.TrimSpace(path) == "" {
		return fileConfig{}, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, false
	}
	var cfg fileConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return fileConfig{}, false
	}
	return cfg, true
}

func defaultUserConfigPath() string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "qrkit", "config.toml")
	}
	home := strings.TrimSpace(os.Getenv("HOME"))
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "qrkit", "config.toml")
}

func historyDBPath(ro *globalOptions) string {
	if ro != nil && strings.TrimSpace(ro.HistoryDB) != "" {
		return ro.HistoryDB
	}
	base := defaultUserConfigPath()
	if strings.TrimSpace(base) == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(base), "history.db")
}

func env(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
