package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, int64(42), cfg.Generator.Seed)
	require.Equal(t, 4, cfg.Generator.Weeks)
	require.Equal(t, []string{"Fnac", "Boulanger"}, cfg.Generator.Retailers)
	require.Len(t, cfg.Generator.Brands, 7)
	require.Len(t, cfg.Catalog, 7)
	require.Equal(t, 10, cfg.Generator.ModelsPerBrand)
	require.True(t, cfg.Generator.KeepUnpricedPromoWindow)
	require.InDelta(t, 0.30, cfg.Generator.Promo.WindowProbability, 1e-9)
	require.Equal(t, "dataset.csv", cfg.Validation.Input)
	require.Equal(t, 0, cfg.Validation.MinRows)
	require.Equal(t, 0, cfg.Validation.MaxRank)
	require.Equal(t, 560, cfg.ValidationMinRows())
	require.Equal(t, 10, cfg.ValidationMaxRank())
	require.Zero(t, cfg.Validation.Tolerance)
	require.False(t, cfg.Validation.FailFast)
}

func TestLoadFromFileOverridesCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
mode: debug
generator:
  seed: 7
  weeks: 2
  anchor_date: "2024-03-04"
  retailers: [Fnac]
  brands: [HP]
  models_per_brand: 2
catalog:
  - name: HP
    min_price: 600
    max_price: 2200
    models: ["Envy 13", "Pavilion 14", "Omen 16"]
validation:
  fail_fast: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Mode)
	require.Equal(t, int64(7), cfg.Generator.Seed)
	require.Equal(t, "2024-03-04", cfg.Generator.AnchorDate)
	require.Len(t, cfg.Catalog, 1)
	require.Equal(t, []string{"Envy 13", "Pavilion 14", "Omen 16"}, cfg.Catalog[0].Models)
	require.True(t, cfg.Validation.FailFast)
}

func TestLoadRejectsUnknownBrand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
generator:
  brands: [MSI]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidateRejectsBadAnchorAndRanges(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.Generator.AnchorDate = "04/03/2024"
	require.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = *cfg
	bad.Generator.Weeks = 0
	require.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = *cfg
	bad.Generator.Promo.MaxDiscount = 0.01
	require.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestValidationBoundsFollowModelsPerBrand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
generator:
  brands: [HP]
  models_per_brand: 12
catalog:
  - name: HP
    min_price: 600
    max_price: 2200
    models: [M01, M02, M03, M04, M05, M06, M07, M08, M09, M10, M11, M12]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 12, cfg.ValidationMaxRank())
	require.Equal(t, 12*2*4, cfg.ValidationMinRows())

	explicit := *cfg
	explicit.Validation.MaxRank = 10
	require.ErrorIs(t, explicit.Validate(), ErrInvalidConfig)

	explicit.Validation.MaxRank = 15
	explicit.Validation.MinRows = 50
	require.NoError(t, explicit.Validate())
	require.Equal(t, 15, explicit.ValidationMaxRank())
	require.Equal(t, 50, explicit.ValidationMinRows())
}
