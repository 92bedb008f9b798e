package clientbase

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/tasklog/internal/model"
)

const sampleCSV = "Client Name,Region\nAcme Corp,APAC\nGlobex,EMEA\nacme labs,APAC\n,EMEA\nAcme Corp,APAC\n"

func TestLoadAndSearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	cb, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cb.Len())

	got := cb.Search("ACME", DefaultSearchLimit)
	require.Len(t, got, 3)
	assert.Equal(t, Match{Name: "Acme Corp", Kind: KindClient}, got[0])
	assert.Equal(t, Match{Name: "acme labs", Kind: KindClient}, got[1])

	internal := cb.Search("meet", DefaultSearchLimit)
	require.Len(t, internal, 1)
	assert.Equal(t, Match{Name: "Internal - Meetings", Kind: KindInternal}, internal[0])

	assert.Empty(t, cb.Search("   ", DefaultSearchLimit))
}

func TestSearchIsCappedAndClientsComeFirst(t *testing.T) {
	var b strings.Builder
	b.WriteString("Company\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "Internal Client %d\n", i)
	}
	cb, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)

	got := cb.Search("internal", DefaultSearchLimit)
	require.Len(t, got, 5)
	for _, m := range got {
		assert.Equal(t, KindClient, m.Kind)
	}
}

func TestNameColumnFallback(t *testing.T) {
	cb, err := Parse(strings.NewReader("Name,Company\n,Initech\nBob,Hooli\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Initech", "Bob"}, cb.names)

	cb, err = Parse(strings.NewReader("\ufeffclient_name\nUmbrella\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Umbrella"}, cb.names)

	cb, err = Parse(strings.NewReader("Region\nAPAC\n"))
	require.NoError(t, err)
	assert.Zero(t, cb.Len())
}

func TestPresetsAreUniqueAndCapped(t *testing.T) {
	cb, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	presets := cb.Presets(DefaultPresetLimit)
	assert.Equal(t, append(append([]string{}, model.NonBillableTasks...), "Acme Corp", "Globex", "acme labs"), presets)

	var b strings.Builder
	b.WriteString("Client\n")
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&b, "Client %02d\n", i)
	}
	big, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Len(t, big.Presets(DefaultPresetLimit), DefaultPresetLimit)
}

func TestLoadEdgeCases(t *testing.T) {
	cb, err := Load("")
	require.NoError(t, err)
	assert.Zero(t, cb.Len())
	assert.Equal(t, model.NonBillableTasks, cb.Presets(0))

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	empty, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}
