package uistate_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/headache-tracker/internal/logging"
	"github.com/Tiliavir/headache-tracker/internal/series"
	"github.com/Tiliavir/headache-tracker/internal/uistate"
)

func TestLoadMissingReturnsDefault(t *testing.T) {
	s := uistate.New(t.TempDir(), logging.Nop())
	st := s.Load(context.Background())
	assert.Equal(t, series.Metrics, st.ChartOrder)
	assert.False(t, st.FormCollapsed)
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := uistate.New(t.TempDir(), logging.Nop())
	want := uistate.State{
		ChartOrder:    []series.Metric{series.InOffice, series.Intensity, series.ComputerTime, series.Water},
		FormCollapsed: true,
	}
	require.NoError(t, s.Save(want))
	assert.Equal(t, want, s.Load(ctx))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "chartOrder:")
	assert.Contains(t, string(data), "formCollapsed: true")
}

func TestLoadNormalizesSavedOrder(t *testing.T) {
	dir := t.TempDir()
	content := "chartOrder:\n  - water\n  - mood\n  - water\n  - inOffice\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, uistate.FileName), []byte(content), 0o600))

	st := uistate.New(dir, logging.Nop()).Load(context.Background())
	assert.Equal(t, []series.Metric{series.Water, series.InOffice, series.Intensity, series.ComputerTime}, st.ChartOrder)
}

func TestLoadCorruptFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, uistate.FileName), []byte("chartOrder: [unterminated\n"), 0o600))

	st := uistate.New(dir, logging.Nop()).Load(context.Background())
	assert.Equal(t, uistate.Default(), st)
}

func TestSetOrderAndCollapsed(t *testing.T) {
	ctx := context.Background()
	s := uistate.New(filepath.Join(t.TempDir(), "nested"), nil)

	st, err := s.SetCollapsed(ctx, true)
	require.NoError(t, err)
	assert.True(t, st.FormCollapsed)

	st, err = s.SetOrder(ctx, []string{"computerTime", "Intensity"})
	require.NoError(t, err)
	assert.True(t, st.FormCollapsed, "collapse flag survives reorder")
	assert.Equal(t, []series.Metric{series.ComputerTime, series.Intensity, series.Water, series.InOffice}, s.Load(ctx).ChartOrder)
}

func TestNormalizeOrder(t *testing.T) {
	assert.Equal(t, series.Metrics, uistate.NormalizeOrder(nil))
	assert.Equal(t, series.Metrics, uistate.NormalizeOrder([]string{"bogus"}))
	assert.Equal(t,
		[]series.Metric{series.InOffice, series.Intensity, series.Water, series.ComputerTime},
		uistate.NormalizeOrder([]string{"inOffice"}))
}

func TestDefaultIsIndependentCopy(t *testing.T) {
	d := uistate.Default()
	d.ChartOrder[0] = "changed"
	assert.Equal(t, series.Intensity, series.Metrics[0])
}
