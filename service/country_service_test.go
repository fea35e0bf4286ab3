package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCountries = `[
  {"name": "France", "alpha-2": "FR", "alpha-3": "FRA", "country-code": "250"},
  {"name": "Sweden", "alpha-2": "SE", "alpha-3": "SWE", "country-code": "752"}
]`

func writeCountries(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "countries.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestCountryLookup(t *testing.T) {
	svc := NewCountryService(writeCountries(t, testCountries))

	name, found, err := svc.Lookup("FRA")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "France", name)

	_, found, err = svc.Lookup("UTO")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = svc.Lookup("fra")
	require.NoError(t, err)
	assert.False(t, found, "codes are matched exactly")
}

func TestCountryResolve(t *testing.T) {
	svc := NewCountryService(writeCountries(t, testCountries))

	tests := []struct {
		code string
		want string
	}{
		{"SWE", "Sweden"},
		{"UTO", "UTO"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := svc.Resolve(tt.code)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.code)
	}
}

func TestCountryTableReadOnEveryLookup(t *testing.T) {
	path := writeCountries(t, testCountries)
	svc := NewCountryService(path)

	name, err := svc.Resolve("FRA")
	require.NoError(t, err)
	assert.Equal(t, "France", name)

	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"République française","alpha-3":"FRA"}]`), 0644))
	name, err = svc.Resolve("FRA")
	require.NoError(t, err)
	assert.Equal(t, "République française", name)
}

func TestCountryTableErrors(t *testing.T) {
	_, err := NewCountryService(filepath.Join(t.TempDir(), "missing.json")).Resolve("FRA")
	assert.Error(t, err)

	_, err = NewCountryService(writeCountries(t, "{not json")).Resolve("FRA")
	assert.Error(t, err)
}

func TestBundledCountryTable(t *testing.T) {
	svc := NewCountryService(filepath.Join("..", "countries.json"))

	for code, want := range map[string]string{
		"FRA": "France",
		"SWE": "Sweden",
		"JPN": "Japan",
		"D<<": "D<<",
	} {
		got, err := svc.Resolve(code)
		require.NoError(t, err)
		assert.Equal(t, want, got, code)
	}
}
