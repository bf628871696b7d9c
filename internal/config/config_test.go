package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `
logLevel: debug
tags: ["1", "2", "3"]
barHeight: 31
gaps:
  inner: 5
  outer: 10
layouts:
  - name: "[side]"
    type: sideStack
  - name: "[flex]"
    type: conditional
    maxWidth: 1400
    primary:
      type: bottomStack
    secondary:
      type: sideStack
  - name: "[mono]"
    type: monocle
scratchpads:
  - name: terminal
    command: "st -c StScratchpad"
    match:
      class: StScratchpad
    width: 0.8
    height: 0.8
spawnRules:
  - match:
      class: firefox
    tag: "3"
  - match:
      titleRegex: "heiko@ed$"
    tag: "1"
  - match:
      anyClass: ["dmenu", "dunst", "polybar", "rofi"]
    float: true
`

func loadString(t *testing.T, doc string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return Load(path)
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := loadString(t, validConfig)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Layouts) != 3 {
		t.Fatalf("expected 3 layouts, got %d", len(cfg.Layouts))
	}
	if got := *cfg.Layouts[0].MainClients; got != 1 {
		t.Fatalf("expected default mainClients 1, got %d", got)
	}
	if got := *cfg.Layouts[0].MainRatio; got != 0.6 {
		t.Fatalf("expected default mainRatio 0.6, got %v", got)
	}
	if !cfg.Scratchpads[0].FocusOnShow() {
		t.Fatalf("expected focus to default to true")
	}
}

func TestScratchpadFractionOutOfRangeIsFatal(t *testing.T) {
	doc := strings.Replace(validConfig, "width: 0.8", "width: 1.5", 1)
	if _, err := loadString(t, doc); err == nil {
		t.Fatalf("expected error for width outside (0,1]")
	}
	doc = strings.Replace(validConfig, "height: 0.8", "height: -0.1", 1)
	if _, err := loadString(t, doc); err == nil {
		t.Fatalf("expected error for negative height")
	}
}

func TestScratchpadDefaultsFraction(t *testing.T) {
	doc := strings.NewReplacer("    width: 0.8\n", "", "    height: 0.8\n", "").Replace(validConfig)
	cfg, err := loadString(t, doc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scratchpads[0].Width != 0.8 || cfg.Scratchpads[0].Height != 0.8 {
		t.Fatalf("expected fraction defaults, got %v x %v", cfg.Scratchpads[0].Width, cfg.Scratchpads[0].Height)
	}
}

func TestSpawnRuleUnknownTagIsFatal(t *testing.T) {
	doc := strings.Replace(validConfig, `tag: "3"`, `tag: "7"`, 1)
	if _, err := loadString(t, doc); err == nil {
		t.Fatalf("expected error for unknown tag reference")
	}
}

func TestSpawnRuleFloatWithoutTag(t *testing.T) {
	cfg, err := loadString(t, validConfig)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rule := cfg.SpawnRules[2]
	if !rule.Float || rule.Tag != "" {
		t.Fatalf("expected tagless float rule, got %+v", rule)
	}
}

func TestSpawnRuleRequiresTagOrFloat(t *testing.T) {
	doc := strings.Replace(validConfig, "    float: true\n", "", 1)
	if _, err := loadString(t, doc); err == nil {
		t.Fatalf("expected error for rule with neither tag nor float")
	}
}

func TestConditionalRequiresBothAlternatives(t *testing.T) {
	doc := strings.Replace(validConfig, "    secondary:\n      type: sideStack\n", "", 1)
	if _, err := loadString(t, doc); err == nil {
		t.Fatalf("expected error for missing secondary")
	}
}

func TestConditionalRequiresMaxWidth(t *testing.T) {
	doc := strings.Replace(validConfig, "    maxWidth: 1400\n", "", 1)
	if _, err := loadString(t, doc); err == nil {
		t.Fatalf("expected error for missing maxWidth")
	}
}

func TestNestedConditionalRejected(t *testing.T) {
	doc := strings.Replace(validConfig, "    primary:\n      type: bottomStack\n", "    primary:\n      type: conditional\n", 1)
	if _, err := loadString(t, doc); err == nil {
		t.Fatalf("expected error for nested conditional")
	}
}

func TestMatcherRequiresCriteria(t *testing.T) {
	doc := strings.Replace(validConfig, "      class: StScratchpad\n", "      {}\n", 1)
	if _, err := loadString(t, doc); err == nil {
		t.Fatalf("expected error for empty matcher")
	}
}

func TestDuplicateScratchpadName(t *testing.T) {
	dup := `scratchpads:
  - name: terminal
    command: "st -c StScratchpad"
    match:
      class: StScratchpad
  - name: terminal
    command: "st"
    match:
      class: st
`
	doc := strings.Replace(validConfig, `scratchpads:
  - name: terminal
    command: "st -c StScratchpad"
    match:
      class: StScratchpad
    width: 0.8
    height: 0.8
`, dup, 1)
	if _, err := loadString(t, doc); err == nil {
		t.Fatalf("expected error for duplicate scratchpad name")
	}
}
