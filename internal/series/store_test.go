package series

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), arbor.NewLogger())
}

func sampleSeries() Series {
	return Series{
		{Date: day(2024, 1, 2), Open: Float(100), High: Float(102), Low: Float(99), Close: 101, Volume: 1200, Symbol: "SONATEL"},
		{Date: day(2024, 1, 3), Open: Float(101), High: Float(104), Low: Float(100), Close: 103, Volume: 900, Symbol: "SONATEL"},
		{Date: day(2024, 1, 4), Close: 102, Volume: 0, Symbol: "SONATEL"},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	st := testStore(t)
	want := sampleSeries()

	require.NoError(t, st.Save("SONATEL", want))

	symbol, got, err := st.Load(filepath.Join(st.Dir(), FileName("SONATEL")))
	require.NoError(t, err)
	assert.Equal(t, "SONATEL", symbol)
	assert.Equal(t, want, got)
}

func TestStoreLoadAll(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.Save("SONATEL", sampleSeries()))
	require.NoError(t, st.Save("BRVM-30", Series{
		{Date: day(2024, 1, 2), Close: 215.4, Symbol: "BRVM-30"},
		{Date: day(2024, 1, 3), Close: 216.1, Symbol: "BRVM-30"},
	}))

	all, err := st.LoadAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Len(t, all["SONATEL"], 3)
	assert.Len(t, all["BRVM-30"], 2)
}

func TestStoreLoadCoercesBadCells(t *testing.T) {
	st := testStore(t)
	content := "Date,Ouverture,Plus_Haut,Plus_Bas,Cloture,Volume,Symbole\n" +
		"2024-01-02,abc,102,99,101,1200,SGBCI\n" + // bad open becomes missing
		"2024-01-03,101,104,100,oops,900,SGBCI\n" + // bad close drops the row
		"not-a-date,101,104,100,103,900,SGBCI\n" + // bad date drops the row
		"2024-01-04,101,104,100,103,n/a,SGBCI\n" // bad volume becomes zero
	path := filepath.Join(st.Dir(), FileName("SGBCI"))
	require.NoError(t, os.MkdirAll(st.Dir(), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	symbol, s, err := st.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "SGBCI", symbol)
	require.Len(t, s, 2)
	assert.Nil(t, s[0].Open)
	assert.Equal(t, 101.0, s[0].Close)
	assert.Equal(t, int64(0), s[1].Volume)
}

func TestStoreLoadResortsDefensively(t *testing.T) {
	st := testStore(t)
	content := "Date,Ouverture,Plus_Haut,Plus_Bas,Cloture,Volume,Symbole\n" +
		"2024-01-04,,,,103,0,SGBCI\n" +
		"2024-01-02,,,,101,0,SGBCI\n"
	path := filepath.Join(st.Dir(), FileName("SGBCI"))
	require.NoError(t, os.MkdirAll(st.Dir(), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, s, err := st.Load(path)
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.True(t, s[0].Date.Before(s[1].Date))
}

func TestStoreLoadAllSkipsUnreadableFile(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.Save("SONATEL", sampleSeries()))

	// A file whose content is not CSV at all gets skipped, not fatal.
	bad := filepath.Join(st.Dir(), FileName("BROKEN"))
	require.NoError(t, os.WriteFile(bad, []byte("\"unterminated\nquote,,,"), 0644))

	all, err := st.LoadAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Contains(t, all, "SONATEL")
}

func TestStoreSaveAtomicNoTempLeftover(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.Save("SONATEL", sampleSeries()))

	entries, err := os.ReadDir(st.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, FileName("SONATEL"), entries[0].Name())
}
