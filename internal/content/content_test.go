package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultPoolsComplete(t *testing.T) {
	pools := defaultPools()
	require.NoError(t, pools.validate())

	assert.NotEmpty(t, pools.Intros)
	assert.NotEmpty(t, pools.Symbols)
	assert.NotEmpty(t, pools.Endings)
	assert.NotEmpty(t, pools.Welcomes)
	assert.NotEmpty(t, pools.SignPrompts)
	assert.NotEmpty(t, pools.TarotIntros)
	assert.NotEmpty(t, pools.SeedQuotes)
	assert.NotEmpty(t, pools.SeedCards)

	for name, lines := range pools.Themes {
		assert.NotEmpty(t, lines, "theme %q has no lines", name)
	}
	for name, lines := range pools.Styles {
		assert.NotEmpty(t, lines, "style %q has no lines", name)
	}
	for _, style := range pools.TarotStyles {
		assert.Contains(t, pools.TarotBridges, style, "style %q has no bridge phrase", style)
	}
}

func TestNewLibraryMissingDirUsesDefaults(t *testing.T) {
	library, err := NewLibrary(filepath.Join(t.TempDir(), "does-not-exist"), zap.NewNop())
	require.NoError(t, err)

	pools := library.Pools()
	assert.NotEmpty(t, pools.Intros)
	assert.NotEmpty(t, pools.ThemeNames)
	assert.NotEmpty(t, pools.StyleNames)
}

func TestNewLibraryOverlayReplacesPool(t *testing.T) {
	dir := t.TempDir()
	themes := `{"дорога": ["линия про дорогу"]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "horoscope_themes.json"), []byte(themes), 0644))

	library, err := NewLibrary(dir, zap.NewNop())
	require.NoError(t, err)

	pools := library.Pools()
	assert.Equal(t, []string{"дорога"}, pools.ThemeNames)
	assert.Equal(t, []string{"линия про дорогу"}, pools.Themes["дорога"])
	// Untouched pools keep their defaults
	assert.NotEmpty(t, pools.Styles)
}

func TestReloadSwapsPools(t *testing.T) {
	dir := t.TempDir()
	library, err := NewLibrary(dir, zap.NewNop())
	require.NoError(t, err)

	before := library.Pools()

	intros := `["Новый зачин для знака %s."]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "horoscope_intros.json"), []byte(intros), 0644))
	require.NoError(t, library.Reload())

	after := library.Pools()
	assert.Equal(t, []string{"Новый зачин для знака %s."}, after.Intros)
	// The previously published snapshot is untouched
	assert.NotEqual(t, before.Intros, after.Intros)
}

func TestReloadRejectsEmptyThemes(t *testing.T) {
	dir := t.TempDir()
	library, err := NewLibrary(dir, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "horoscope_themes.json"), []byte(`{}`), 0644))
	err = library.Reload()
	require.Error(t, err)

	// The failed reload must not have replaced the published pools
	assert.NotEmpty(t, library.Pools().Themes)
}

func TestReloadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quotes.json"), []byte(`{not json`), 0644))

	_, err := NewLibrary(dir, zap.NewNop())
	require.Error(t, err)
}

func TestDeriveNamesSorted(t *testing.T) {
	pools := defaultPools()
	pools.deriveNames()

	require.Len(t, pools.ThemeNames, len(pools.Themes))
	for i := 1; i < len(pools.ThemeNames); i++ {
		assert.Less(t, pools.ThemeNames[i-1], pools.ThemeNames[i])
	}
}
