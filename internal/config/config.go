package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	LogLevel    string             `yaml:"logLevel"`
	Tags        []string           `yaml:"tags"`
	BarHeight   float64            `yaml:"barHeight"`
	Reflect     bool               `yaml:"reflect"`
	Gaps        Gaps               `yaml:"gaps"`
	Layouts     []LayoutConfig     `yaml:"layouts"`
	Scratchpads []ScratchpadConfig `yaml:"scratchpads"`
	SpawnRules  []SpawnRuleConfig  `yaml:"spawnRules"`
}

// Gaps describes inner and outer gaps applied during layout planning.
type Gaps struct {
	Inner float64 `yaml:"inner"`
	Outer float64 `yaml:"outer"`
}

// Layout kinds accepted in LayoutConfig.Type.
const (
	LayoutSideStack   = "sideStack"
	LayoutBottomStack = "bottomStack"
	LayoutMonocle     = "monocle"
	LayoutConditional = "conditional"
)

// LayoutConfig describes one named layout. Conditional layouts carry two
// nested alternatives selected by the region width predicate.
type LayoutConfig struct {
	Name        string        `yaml:"name"`
	Type        string        `yaml:"type"`
	MainClients *int          `yaml:"mainClients"`
	MainRatio   *float64      `yaml:"mainRatio"`
	Primary     *LayoutConfig `yaml:"primary"`
	Secondary   *LayoutConfig `yaml:"secondary"`
	MaxWidth    float64       `yaml:"maxWidth"`
}

// MatcherConfig describes a client matcher over class and title.
type MatcherConfig struct {
	Class      string   `yaml:"class"`
	AnyClass   []string `yaml:"anyClass"`
	TitleRegex string   `yaml:"titleRegex"`
}

// ScratchpadConfig describes one named scratchpad.
type ScratchpadConfig struct {
	Name    string        `yaml:"name"`
	Command string        `yaml:"command"`
	Match   MatcherConfig `yaml:"match"`
	Width   float64       `yaml:"width"`
	Height  float64       `yaml:"height"`
	Focus   *bool         `yaml:"focus"`
}

// FocusOnShow resolves the focus flag, defaulting to true.
func (s ScratchpadConfig) FocusOnShow() bool {
	if s.Focus == nil {
		return true
	}
	return *s.Focus
}

// SpawnRuleConfig routes freshly created clients to a tag, floats them, or
// both. A rule with only float set keeps the client on its spawn tag.
type SpawnRuleConfig struct {
	Match MatcherConfig `yaml:"match"`
	Tag   string        `yaml:"tag"`
	Float bool          `yaml:"float"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

const (
	defaultMainClients = 1
	defaultMainRatio   = 0.6
	defaultPadFraction = 0.8
)

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	for i := range c.Layouts {
		c.Layouts[i].applyDefaults()
	}
	for i := range c.Scratchpads {
		sp := &c.Scratchpads[i]
		if sp.Width == 0 {
			sp.Width = defaultPadFraction
		}
		if sp.Height == 0 {
			sp.Height = defaultPadFraction
		}
	}
}

func (l *LayoutConfig) applyDefaults() {
	if l.MainClients == nil {
		n := defaultMainClients
		l.MainClients = &n
	}
	if l.MainRatio == nil {
		r := defaultMainRatio
		l.MainRatio = &r
	}
	if l.Primary != nil {
		l.Primary.applyDefaults()
	}
	if l.Secondary != nil {
		l.Secondary.applyDefaults()
	}
}

// Validate performs basic sanity checks. Any failure is fatal to startup: the
// daemon must not run with an invalid scratchpad or layout definition.
func (c *Config) Validate() error {
	if len(c.Tags) == 0 {
		return fmt.Errorf("config must define at least one tag")
	}
	tags := map[string]struct{}{}
	for _, tag := range c.Tags {
		if tag == "" {
			return fmt.Errorf("tag name cannot be empty")
		}
		if _, exists := tags[tag]; exists {
			return fmt.Errorf("duplicate tag %q", tag)
		}
		tags[tag] = struct{}{}
	}
	if c.BarHeight < 0 {
		return fmt.Errorf("barHeight cannot be negative")
	}
	if c.Gaps.Inner < 0 {
		return fmt.Errorf("gaps.inner cannot be negative")
	}
	if c.Gaps.Outer < 0 {
		return fmt.Errorf("gaps.outer cannot be negative")
	}
	if len(c.Layouts) == 0 {
		return fmt.Errorf("config must define at least one layout")
	}
	layoutNames := map[string]struct{}{}
	for _, l := range c.Layouts {
		if l.Name == "" {
			return fmt.Errorf("layout name cannot be empty")
		}
		if _, exists := layoutNames[l.Name]; exists {
			return fmt.Errorf("duplicate layout name %q", l.Name)
		}
		layoutNames[l.Name] = struct{}{}
		if err := l.validate(true); err != nil {
			return fmt.Errorf("layout %q: %w", l.Name, err)
		}
	}
	padNames := map[string]struct{}{}
	for _, sp := range c.Scratchpads {
		if sp.Name == "" {
			return fmt.Errorf("scratchpad name cannot be empty")
		}
		if _, exists := padNames[sp.Name]; exists {
			return fmt.Errorf("duplicate scratchpad %q", sp.Name)
		}
		padNames[sp.Name] = struct{}{}
		if sp.Command == "" {
			return fmt.Errorf("scratchpad %q must define a command", sp.Name)
		}
		if sp.Width <= 0 || sp.Width > 1 {
			return fmt.Errorf("scratchpad %q: width must be in (0,1], got %v", sp.Name, sp.Width)
		}
		if sp.Height <= 0 || sp.Height > 1 {
			return fmt.Errorf("scratchpad %q: height must be in (0,1], got %v", sp.Name, sp.Height)
		}
		if err := sp.Match.Validate(); err != nil {
			return fmt.Errorf("scratchpad %q: %w", sp.Name, err)
		}
	}
	for i, rule := range c.SpawnRules {
		if err := rule.Match.Validate(); err != nil {
			return fmt.Errorf("spawn rule %d: %w", i, err)
		}
		if rule.Tag == "" && !rule.Float {
			return fmt.Errorf("spawn rule %d must define a tag or float", i)
		}
		if rule.Tag != "" {
			if _, exists := tags[rule.Tag]; !exists {
				return fmt.Errorf("spawn rule %d references unknown tag %q", i, rule.Tag)
			}
		}
	}
	return nil
}

func (l LayoutConfig) validate(allowConditional bool) error {
	switch l.Type {
	case LayoutSideStack, LayoutBottomStack:
		if *l.MainClients < 0 {
			return fmt.Errorf("mainClients cannot be negative")
		}
		if *l.MainRatio <= 0 || *l.MainRatio >= 1 {
			return fmt.Errorf("mainRatio must be in (0,1), got %v", *l.MainRatio)
		}
	case LayoutMonocle:
	case LayoutConditional:
		if !allowConditional {
			return fmt.Errorf("conditional layouts cannot nest")
		}
		if l.Primary == nil || l.Secondary == nil {
			return fmt.Errorf("conditional layout requires primary and secondary")
		}
		if l.MaxWidth <= 0 {
			return fmt.Errorf("conditional layout requires a positive maxWidth")
		}
		if err := l.Primary.validate(false); err != nil {
			return fmt.Errorf("primary: %w", err)
		}
		if err := l.Secondary.validate(false); err != nil {
			return fmt.Errorf("secondary: %w", err)
		}
	default:
		return fmt.Errorf("unknown layout type %q", l.Type)
	}
	return nil
}

// Validate ensures matcher configuration has at least one selection criteria.
func (m MatcherConfig) Validate() error {
	if m.Class == "" && len(m.AnyClass) == 0 && m.TitleRegex == "" {
		return fmt.Errorf("must define class, anyClass, or titleRegex")
	}
	return nil
}
