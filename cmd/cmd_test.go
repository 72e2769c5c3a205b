package cmd

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/marcus/partman/internal/config"
	"github.com/marcus/partman/internal/partsclient"
	"github.com/marcus/partman/internal/settings"
	"github.com/spf13/cobra"
)

func TestCheckSettings(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := checkSettings(&out, &errOut, "good.conf", "Bind ctrl+q Quit\nGrid 2 3 4\n"); err != nil {
		t.Fatalf("checkSettings: %v", err)
	}
	if !strings.Contains(out.String(), "good.conf: ok") || !strings.Contains(out.String(), "1 bindings") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	err := checkSettings(&out, &errOut, "bad.conf", "Grid 2 3\n")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(errOut.String(), "bad.conf:1") || !strings.Contains(errOut.String(), "^^^^") {
		t.Errorf("diagnostic = %q", errOut.String())
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed to stdout on failure: %q", out.String())
	}
}

func TestFlagError(t *testing.T) {
	c := &cobra.Command{Use: "list"}
	c.Flags().String("name", "", "")
	c.Flags().String("description", "", "")

	tests := []struct {
		in   string
		want string
	}{
		{"unknown flag: --nmae", "did you mean --name?"},
		{"unknown flag: --conf", "try --config, -c"},
		{"unknown flag: --zzzzzz", "unknown flag: --zzzzzz"},
		{"flag needs an argument: --name", "flag needs an argument: --name"},
	}
	for _, tt := range tests {
		got := flagError(c, errors.New(tt.in)).Error()
		if !strings.Contains(got, tt.want) {
			t.Errorf("flagError(%q) = %q, want it to contain %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelWarn,
		"loud":  slog.LevelWarn,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupLoggingToFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "logs", "partman.log")
	closer, err := setupLogging(os.Stderr, path, "info", "json")
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	slog.Info("hello from test", "n", 1)
	slog.Debug("filtered out")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"hello from test"`) {
		t.Errorf("log file = %q", data)
	}
	if strings.Contains(string(data), "filtered out") {
		t.Error("debug records should be filtered at info level")
	}
}

func TestExplain(t *testing.T) {
	err := explain(fmt.Errorf("GET /api/parts: %w", partsclient.ErrUnauthorized))
	if !strings.Contains(err.Error(), "partman user login") || !errors.Is(err, partsclient.ErrUnauthorized) {
		t.Errorf("explain = %v", err)
	}
	other := errors.New("boom")
	if explain(other) != other {
		t.Error("unrelated errors should pass through")
	}
}

func TestCredentialsFromArgs(t *testing.T) {
	email, password, err := credentials([]string{" a@b.c ", "secret"})
	if err != nil || email != "a@b.c" || password != "secret" {
		t.Errorf("credentials = %q, %q, %v", email, password, err)
	}
	if _, _, err := credentials([]string{"nobody", "x"}); err == nil {
		t.Error("an address without @ should be rejected")
	}
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigCommands(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	dir := t.TempDir()
	t.Setenv("PARTMAN_CONFIG_DIR", dir)
	t.Setenv("PARTMAN_SERVER_URL", "")
	t.Setenv("PARTMAN_SETTINGS", "")

	out, err := runRoot(t, "config", "default")
	if err != nil || out != settings.DefaultText() {
		t.Errorf("config default = %q, %v", out, err)
	}

	path := filepath.Join(dir, "mine.conf")
	if err := os.WriteFile(path, []byte("Bind Ctrl+Q Quit\nGrid 3 3 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err = runRoot(t, "config", "show", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "Bind ctrl+q Quit") || !strings.Contains(out, "Grid 3 3 1") {
		t.Errorf("config show = %q", out)
	}

	if _, err := runRoot(t, "config", "server", "Development", "http://parts.test/"); err != nil {
		t.Fatalf("config server: %v", err)
	}
	saved, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Servers.Development != "http://parts.test" {
		t.Errorf("development server = %q", saved.Servers.Development)
	}

	if _, err := runRoot(t, "config", "server", "Staging"); err == nil {
		t.Error("unknown server kind should fail")
	}
}

func TestBomPlanCSV(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var mu sync.Mutex
	var profiles []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/boms", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		profiles = append(profiles, r.URL.Query().Get("profile_id"))
		mu.Unlock()
		_, _ = w.Write([]byte(`[{"id":1,"name":"synth","description":""},{"id":2,"name":"pedal","description":""}]`))
	})
	mux.HandleFunc("GET /api/boms/{id}/parts", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "1":
			_, _ = w.Write([]byte(`[{"id":10,"name":"NE555","description":"timer","stock":4,"count":2}]`))
		case "2":
			_, _ = w.Write([]byte(`[{"id":10,"name":"NE555","description":"timer","stock":4,"count":3},{"id":12,"name":"1N4148","description":"diode","stock":0,"count":4}]`))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Setenv("PARTMAN_CONFIG_DIR", t.TempDir())
	t.Setenv("PARTMAN_SERVER_URL", srv.URL)
	t.Setenv("PARTMAN_SETTINGS", "")

	out, err := runRoot(t, "bom", "plan", "--profile", "7", "--bom", "synth=2", "--bom", "2", "--csv", "-")
	if err != nil {
		t.Fatalf("bom plan: %v\n%s", err, out)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV %q: %v", out, err)
	}
	want := [][]string{
		{"Part Name", "Description", "Current Stock", "Total Required", "Need to Purchase", "Required By"},
		{"1N4148", "diode", "0", "4", "4", "pedal(4)"},
		{"NE555", "timer", "4", "7", "3", "synth(4), pedal(3)"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("plan =\n%q\nwant\n%q", records, want)
	}
	if len(profiles) != 1 || profiles[0] != "7" {
		t.Errorf("BOM lookups used profiles %q", profiles)
	}
}
