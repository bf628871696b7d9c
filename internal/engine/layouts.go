package engine

import (
	"fmt"

	"github.com/dddelispt42/hwm/internal/config"
	"github.com/dddelispt42/hwm/internal/layout"
)

// BuildLayoutStack compiles the configured layouts into a selectable stack.
// Every layout is wrapped with the shared decorations: the bar reservation
// sits outermost so margins are taken from the remaining strip, and the
// optional mirror transform sits innermost.
func BuildLayoutStack(cfg *config.Config) (*layout.Stack, error) {
	built := make([]layout.Layout, 0, len(cfg.Layouts))
	gaps := layout.Gaps{Inner: cfg.Gaps.Inner, Outer: cfg.Gaps.Outer}
	for _, lc := range cfg.Layouts {
		l, err := buildLayout(lc)
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", lc.Name, err)
		}
		if cfg.Reflect {
			l = layout.Reflect(l)
		}
		l = layout.Margins(l, gaps)
		if cfg.BarHeight > 0 {
			l = layout.ReserveTop(l, cfg.BarHeight)
		}
		built = append(built, l)
	}
	return layout.NewStack(built...)
}

func buildLayout(lc config.LayoutConfig) (layout.Layout, error) {
	switch lc.Type {
	case config.LayoutSideStack:
		return layout.NewSideStack(lc.Name, *lc.MainClients, *lc.MainRatio), nil
	case config.LayoutBottomStack:
		return layout.NewBottomStack(lc.Name, *lc.MainClients, *lc.MainRatio), nil
	case config.LayoutMonocle:
		return layout.NewMonocle(lc.Name), nil
	case config.LayoutConditional:
		primary, err := buildLayout(*lc.Primary)
		if err != nil {
			return nil, fmt.Errorf("primary: %w", err)
		}
		secondary, err := buildLayout(*lc.Secondary)
		if err != nil {
			return nil, fmt.Errorf("secondary: %w", err)
		}
		return layout.NewConditional(lc.Name, primary, secondary, layout.WidthAtMost(lc.MaxWidth))
	default:
		return nil, fmt.Errorf("unknown layout type %q", lc.Type)
	}
}
