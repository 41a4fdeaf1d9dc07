package series

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
)

const fileSuffix = "_historical.csv"

// Header is the fixed column order of persisted series files.
var Header = []string{"Date", "Ouverture", "Plus_Haut", "Plus_Bas", "Cloture", "Volume", "Symbole"}

// Store persists one delimited file per symbol under a data directory.
// Files written by Save are still treated as untrusted on load: bad cells
// are coerced to missing and the rows are re-sorted defensively.
type Store struct {
	dir    string
	logger arbor.ILogger
}

// NewStore creates a store rooted at dir. The directory is created on the
// first Save if it does not exist.
func NewStore(dir string, logger arbor.ILogger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the data directory the store reads and writes.
func (st *Store) Dir() string { return st.dir }

// FileName derives the per-symbol file name. Path separators in index codes
// (e.g. "BRVM/C") are replaced so the symbol stays a valid file name.
func FileName(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "-") + fileSuffix
}

// Save writes the series for symbol atomically: the file is written to a
// temporary name in the same directory and renamed into place, so a
// concurrent reader never observes a partially written file.
func (st *Store) Save(symbol string, s Series) error {
	if err := os.MkdirAll(st.dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(st.dir, ".tmp-"+FileName(symbol)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range s {
		row := []string{
			r.Date.Format(DateFormat),
			formatOptional(r.Open),
			formatOptional(r.High),
			formatOptional(r.Low),
			strconv.FormatFloat(r.Close, 'f', -1, 64),
			strconv.FormatInt(r.Volume, 10),
			r.Symbol,
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(st.dir, FileName(symbol))); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}

	st.logger.Info().
		Str("symbol", symbol).
		Int("records", len(s)).
		Str("file", FileName(symbol)).
		Msg("Series saved")
	return nil
}

// Load reads a single series file. Rows with an unparseable date or closing
// price are dropped; other unparseable numeric cells become missing values.
func (st *Store) Load(path string) (string, Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return "", nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) < 2 {
		return symbolFromFileName(path), Series{}, nil
	}

	symbol := symbolFromFileName(path)
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(Header) {
			continue
		}
		date, err := time.Parse(DateFormat, strings.TrimSpace(row[0]))
		if err != nil {
			st.logger.Debug().Str("file", filepath.Base(path)).Str("cell", row[0]).Msg("Dropping row with unparseable date")
			continue
		}
		closePrice, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil {
			st.logger.Debug().Str("file", filepath.Base(path)).Str("cell", row[4]).Msg("Dropping row without closing price")
			continue
		}
		volume, err := strconv.ParseInt(strings.TrimSpace(row[5]), 10, 64)
		if err != nil {
			volume = 0
		}
		rec := Record{
			Date:   date,
			Open:   parseOptional(row[1]),
			High:   parseOptional(row[2]),
			Low:    parseOptional(row[3]),
			Close:  closePrice,
			Volume: volume,
			Symbol: strings.TrimSpace(row[6]),
		}
		if rec.Symbol == "" {
			rec.Symbol = symbol
		} else if symbol == "" {
			symbol = rec.Symbol
		}
		records = append(records, rec)
	}

	return symbol, Normalize(records), nil
}

// LoadAll discovers every series file in the data directory. A file that
// cannot be read at all is skipped with a logged error rather than failing
// the whole load.
func (st *Store) LoadAll() (map[string]Series, error) {
	paths, err := filepath.Glob(filepath.Join(st.dir, "*"+fileSuffix))
	if err != nil {
		return nil, fmt.Errorf("scan data directory: %w", err)
	}

	all := make(map[string]Series, len(paths))
	for _, path := range paths {
		symbol, s, err := st.Load(path)
		if err != nil {
			st.logger.Error().Err(err).Str("file", filepath.Base(path)).Msg("Skipping unreadable series file")
			continue
		}
		if s.Empty() {
			continue
		}
		all[symbol] = s
	}
	return all, nil
}

func symbolFromFileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, fileSuffix)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseOptional(cell string) *float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil
	}
	return &v
}
