package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
)

// SeedCard is a tarot card used to seed an empty deck table
type SeedCard struct {
	Name    string `json:"name"`
	Meaning string `json:"meaning"`
}

// Pools holds every fragment pool used during composition. A Pools
// value is immutable once published; updates go through Library.Reload
// which swaps the whole value at once.
type Pools struct {
	Intros      []string            `json:"intros"`
	Themes      map[string][]string `json:"themes"`
	Styles      map[string][]string `json:"styles"`
	Symbols     []string            `json:"symbols"`
	Endings     []string            `json:"endings"`
	Welcomes    []string            `json:"welcomes"`
	SignPrompts []string            `json:"sign_prompts"`

	TarotIntros    []string          `json:"tarot_intros"`
	TarotPositions []string          `json:"tarot_positions"`
	TarotStyles    []string          `json:"tarot_styles"`
	TarotBridges   map[string]string `json:"tarot_bridges"`

	SeedQuotes []string   `json:"seed_quotes"`
	SeedCards  []SeedCard `json:"seed_cards"`

	// derived, sorted for stable sampling order
	ThemeNames []string `json:"-"`
	StyleNames []string `json:"-"`
}

func (p *Pools) deriveNames() {
	p.ThemeNames = make([]string, 0, len(p.Themes))
	for name := range p.Themes {
		p.ThemeNames = append(p.ThemeNames, name)
	}
	sort.Strings(p.ThemeNames)

	p.StyleNames = make([]string, 0, len(p.Styles))
	for name := range p.Styles {
		p.StyleNames = append(p.StyleNames, name)
	}
	sort.Strings(p.StyleNames)
}

// Library is the process-wide content holder. Pools load once at
// startup and can be re-read from the content directory at runtime
// behind a single atomic swap.
type Library struct {
	dir     string
	logger  *zap.Logger
	current atomic.Pointer[Pools]
}

// NewLibrary loads the built-in pools, overlays any JSON files found in
// dir and publishes the result. A missing directory is not an error;
// the defaults alone are a complete content set.
func NewLibrary(dir string, logger *zap.Logger) (*Library, error) {
	l := &Library{
		dir:    dir,
		logger: logger,
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Pools returns the current content set
func (l *Library) Pools() *Pools {
	return l.current.Load()
}

// Reload re-reads the content directory and swaps the published pools.
// Readers holding the previous value keep a consistent snapshot.
func (l *Library) Reload() error {
	pools := defaultPools()

	overlays := []struct {
		file  string
		dst   any
		reset func()
	}{
		{"horoscope_intros.json", &pools.Intros, nil},
		{"horoscope_themes.json", &pools.Themes, func() { pools.Themes = map[string][]string{} }},
		{"horoscope_styles.json", &pools.Styles, func() { pools.Styles = map[string][]string{} }},
		{"horoscope_symbols.json", &pools.Symbols, nil},
		{"horoscope_endings.json", &pools.Endings, nil},
		{"welcome_messages.json", &pools.Welcomes, nil},
		{"sign_prompts.json", &pools.SignPrompts, nil},
		{"tarot_intros.json", &pools.TarotIntros, nil},
		{"quotes.json", &pools.SeedQuotes, nil},
		{"tarot_cards.json", &pools.SeedCards, nil},
	}

	for _, o := range overlays {
		path := filepath.Join(l.dir, o.file)
		raw, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read content file %s: %w", o.file, err)
		}
		// An override file replaces the built-in pool, it does not merge
		if o.reset != nil {
			o.reset()
		}
		if err := json.Unmarshal(raw, o.dst); err != nil {
			return fmt.Errorf("failed to parse content file %s: %w", o.file, err)
		}
		l.logger.Info("Loaded content file", zap.String("file", o.file))
	}

	if err := pools.validate(); err != nil {
		return err
	}

	pools.deriveNames()
	l.current.Store(pools)

	l.logger.Info("Content pools published",
		zap.Int("intros", len(pools.Intros)),
		zap.Int("themes", len(pools.Themes)),
		zap.Int("styles", len(pools.Styles)),
		zap.Int("symbols", len(pools.Symbols)),
		zap.Int("seed_quotes", len(pools.SeedQuotes)),
		zap.Int("seed_cards", len(pools.SeedCards)),
	)
	return nil
}

func (p *Pools) validate() error {
	if len(p.Intros) == 0 {
		return fmt.Errorf("intro pool is empty")
	}
	if len(p.Themes) == 0 {
		return fmt.Errorf("theme pool is empty")
	}
	if len(p.Styles) == 0 {
		return fmt.Errorf("style pool is empty")
	}
	if len(p.TarotStyles) < len(p.TarotPositions) {
		return fmt.Errorf("tarot style pool must cover every position: have %d styles for %d positions",
			len(p.TarotStyles), len(p.TarotPositions))
	}
	return nil
}
