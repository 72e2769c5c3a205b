package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/marcus/partman/internal/partsclient"
	"github.com/marcus/partman/internal/planner"
	"github.com/marcus/partman/internal/settings"
)

func TestPartsTable(t *testing.T) {
	parts := []partsclient.PartWithStock{
		{Part: partsclient.Part{ID: 1, Name: "NE555", Description: "timer"}, Stock: 12, Row: 1, Column: 2, Z: 0},
		{Part: partsclient.Part{ID: 2, Name: "LM358", Description: strings.Repeat("long ", 30)}, Stock: 3},
	}

	out := PartsTable(parts)
	for _, want := range []string{"NAME", "DESCRIPTION", "NE555", "timer", "12", "1,2,0", "LM358", "…"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("long ", 30)) {
		t.Error("long descriptions should be truncated")
	}
}

func TestPartsTableEmpty(t *testing.T) {
	out := PartsTable(nil)
	if !strings.Contains(out, "NAME") {
		t.Errorf("empty table should still show headers:\n%s", out)
	}
}

func TestPlanTable(t *testing.T) {
	reqs := []planner.Requirement{{
		Part:      partsclient.PartWithStock{Part: partsclient.Part{ID: 1, Name: "NE555", Description: "timer"}, Stock: 4},
		Required:  7,
		Shortfall: 3,
		Sources: []planner.Source{
			{BomID: 1, BomName: "synth", Needed: 4, Builds: 2},
			{BomID: 2, BomName: "pedal", Needed: 3, Builds: 1},
		},
	}}
	out := PlanTable(reqs)
	for _, want := range []string{"PART", "BUY", "REQUIRED BY", "NE555", "timer", "7", "synth(4), pedal(3)"} {
		if !strings.Contains(out, want) {
			t.Errorf("plan table missing %q:\n%s", want, out)
		}
	}
}

func TestBindingsTable(t *testing.T) {
	cfg, err := settings.Parse("Bind ctrl+q Quit\nBind ctrl+f SearchTab\n")
	if err != nil {
		t.Fatal(err)
	}
	out := BindingsTable(cfg)
	for _, want := range []string{"ctrl+q", "Quit", "ctrl+f", "SearchTab"} {
		if !strings.Contains(out, want) {
			t.Errorf("bindings table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "ctrl+q") > strings.Index(out, "ctrl+f") {
		t.Error("bindings should keep settings order")
	}
}

func TestFormatSettingsError(t *testing.T) {
	_, err := settings.Parse("Grid 1 1 1\nBind ctrl+q Qiut\n")
	if err == nil {
		t.Fatal("expected parse error")
	}

	out := FormatSettingsError("partman.conf", err)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "partman.conf:2") || !strings.Contains(lines[0], `did you mean "Quit"`) {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Bind ctrl+q Qiut") {
		t.Errorf("source line = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "^^^^") || strings.Count(lines[2], "^") != 4 {
		t.Errorf("caret line = %q", lines[2])
	}
}

func TestFormatSettingsErrorPlain(t *testing.T) {
	out := FormatSettingsError("", errors.New("open partman.conf: no such file"))
	if !strings.Contains(out, "no such file") || strings.Contains(out, "^") {
		t.Errorf("plain error rendered as %q", out)
	}
}

func TestSettingsSummary(t *testing.T) {
	cfg, _ := settings.Parse("Grid 2 3 4\nSetServer Development\n")
	out := SettingsSummary(cfg)
	for _, want := range []string{"0 bindings", "2 rows x 3 columns x 4 layers", "Development"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n  \"a\": 1\n}\n" {
		t.Errorf("JSON = %q", buf.String())
	}
}

func TestKeymapMarkdown(t *testing.T) {
	cfg, _ := settings.Parse("Bind ctrl+l Login\n")
	md := KeymapMarkdown(cfg)
	if !strings.Contains(md, "| `ctrl+l` | Login |") {
		t.Errorf("markdown missing binding row:\n%s", md)
	}

	empty := KeymapMarkdown(settings.New())
	if !strings.Contains(empty, "No key bindings") {
		t.Errorf("empty keymap markdown:\n%s", empty)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Title\n\nsome *text*", 40, "notty")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "text") {
		t.Errorf("rendered = %q", out)
	}

	out, err = RenderMarkdown("   ", 40, "notty")
	if err != nil || out != "" {
		t.Errorf("blank input: %q, %v", out, err)
	}
}
