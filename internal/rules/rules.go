package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dddelispt42/hwm/internal/config"
	"github.com/dddelispt42/hwm/internal/state"
)

// Matcher evaluates a client identity against a single predicate.
type Matcher func(c state.Client) bool

// SpawnRule routes freshly created clients matching a predicate to a tag,
// floats them, or both. Rules are kept in caller-defined order; that order
// decides ties, not the tag value.
type SpawnRule struct {
	Match Matcher
	Tag   string
	Float bool
}

// BuildSpawnRules compiles configuration into an executable rule sequence,
// preserving the declaration order.
func BuildSpawnRules(cfg *config.Config) ([]SpawnRule, error) {
	rules := make([]SpawnRule, 0, len(cfg.SpawnRules))
	for i, rc := range cfg.SpawnRules {
		matcher, err := CompileMatcher(rc.Match)
		if err != nil {
			return nil, fmt.Errorf("spawn rule %d: %w", i, err)
		}
		rules = append(rules, SpawnRule{Match: matcher, Tag: rc.Tag, Float: rc.Float})
	}
	return rules, nil
}

// Resolve walks the rule sequence in order and returns the first rule whose
// predicate holds against the client. It is deterministic and
// side-effect-free; duplicate predicates make later occurrences unreachable,
// which is a configuration concern rather than an engine error.
func Resolve(c state.Client, rules []SpawnRule) (SpawnRule, bool) {
	for _, rule := range rules {
		if rule.Match(c) {
			return rule, true
		}
	}
	return SpawnRule{}, false
}

// CompileMatcher converts a matcher configuration into an evaluator. Class
// comparison is case-insensitive; title matching uses a compiled regexp.
func CompileMatcher(cfg config.MatcherConfig) (Matcher, error) {
	if cfg.Class != "" {
		expected := strings.ToLower(cfg.Class)
		return func(c state.Client) bool { return strings.ToLower(c.Class) == expected }, nil
	}
	if len(cfg.AnyClass) > 0 {
		set := map[string]struct{}{}
		for _, item := range cfg.AnyClass {
			set[strings.ToLower(item)] = struct{}{}
		}
		return func(c state.Client) bool {
			_, ok := set[strings.ToLower(c.Class)]
			return ok
		}, nil
	}
	if cfg.TitleRegex != "" {
		re, err := regexp.Compile(cfg.TitleRegex)
		if err != nil {
			return nil, fmt.Errorf("compile match.titleRegex: %w", err)
		}
		return func(c state.Client) bool { return re.MatchString(c.Title) }, nil
	}
	return nil, fmt.Errorf("match requires class, anyClass, or titleRegex")
}
