package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func TestResolveGlobalOptionsPrecedence(t *testing.T) {
	tmp := isolate(t)
	t.Setenv("QRKIT_EC_LEVEL", "Q")
	t.Setenv("QRKIT_OUTPUT", "plain")

	userCfg := filepath.Join(tmp, "xdg", "qrkit", "config.toml")
	if err := os.MkdirAll(filepath.Dir(userCfg), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userCfg, []byte("ec_level='L'\noutput='json'\ntz='Europe/Athens'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, ".qrkit.toml"), []byte("ec_level='H'\nfields='id,type'\nhistory=false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	defaults := &globalOptions{Profile: "default", ECLevel: "M", SchemaVersion: "v1"}
	cmd := newTestCmd()
	if err := cmd.ParseFlags([]string{"--ec-level", "L", "--json"}); err != nil {
		t.Fatal(err)
	}
	defaults.ECLevel = "L"
	defaults.JSON = true

	resolved, err := resolveGlobalOptions(cmd, defaults)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.ECLevel != "L" {
		t.Fatalf("expected flag ec level, got %q", resolved.ECLevel)
	}
	if !resolved.JSON || resolved.Plain {
		t.Fatalf("expected JSON mode from flag override, got json=%v plain=%v", resolved.JSON, resolved.Plain)
	}
	if resolved.Fields != "id,type" {
		t.Fatalf("expected fields from project config, got %q", resolved.Fields)
	}
	if resolved.TZ != "Europe/Athens" {
		t.Fatalf("expected tz from user config, got %q", resolved.TZ)
	}
	if !resolved.NoHistory {
		t.Fatalf("expected history disabled by project config")
	}
}

func TestResolveGlobalOptionsEnvBeatsFiles(t *testing.T) {
	tmp := isolate(t)
	t.Setenv("QRKIT_EC_LEVEL", "Q")
	t.Setenv("QRKIT_HISTORY", "false")
	if err := os.WriteFile(filepath.Join(tmp, ".qrkit.toml"), []byte("ec_level='H'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	resolved, err := resolveGlobalOptions(newTestCmd(), &globalOptions{Profile: "default", ECLevel: "M"})
	if err != nil {
		t.Fatal(err)
	}
	if resolved.ECLevel != "Q" || !resolved.NoHistory {
		t.Fatalf("expected env overrides, got ec=%q nohistory=%v", resolved.ECLevel, resolved.NoHistory)
	}
}

func TestResolveGlobalOptionsProfile(t *testing.T) {
	tmp := isolate(t)
	t.Setenv("QRKIT_PROFILE", "print")

	cfg := "ec_level='M'\n[profiles.print]\nec_level='H'\n"
	if err := os.WriteFile(filepath.Join(tmp, ".qrkit.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	defaults := &globalOptions{Profile: "default", ECLevel: "M", SchemaVersion: "v1"}
	resolved, err := resolveGlobalOptions(newTestCmd(), defaults)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Profile != "print" {
		t.Fatalf("expected print profile, got %q", resolved.Profile)
	}
	if resolved.ECLevel != "H" {
		t.Fatalf("expected profile ec level, got %q", resolved.ECLevel)
	}
}

func TestHistoryDBPath(t *testing.T) {
	tmp := isolate(t)
	if got, want := historyDBPath(&globalOptions{}), filepath.Join(tmp, "xdg", "qrkit", "history.db"); got != want {
		t.Fatalf("historyDBPath = %q, want %q", got, want)
	}
	if got := historyDBPath(&globalOptions{HistoryDB: "/x/h.db"}); got != "/x/h.db" {
		t.Fatalf("explicit path ignored: %q", got)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	tmp := isolate(t)
	t.Setenv("QRKIT_TIMEZONE", "UTC")
	if err := os.WriteFile(filepath.Join(tmp, ".env"), []byte("QRKIT_TIMEZONE=Asia/Tokyo\nQRKIT_DOTENV_PROBE=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("QRKIT_DOTENV_PROBE") })
	loadDotEnv()
	if got := os.Getenv("QRKIT_TIMEZONE"); got != "UTC" {
		t.Fatalf("existing variable overridden: %q", got)
	}
	if got := os.Getenv("QRKIT_DOTENV_PROBE"); got != "1" {
		t.Fatalf("expected .env variable loaded, got %q", got)
	}
}

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("plain", false, "")
	cmd.Flags().String("fields", "", "")
	cmd.Flags().Bool("quiet", false, "")
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().String("profile", "default", "")
	cmd.Flags().String("config", "", "")
	cmd.Flags().String("tz", "", "")
	cmd.Flags().String("ec-level", "M", "")
	cmd.Flags().Bool("no-history", false, "")
	cmd.Flags().String("schema-version", "v1", "")
	return cmd
}
