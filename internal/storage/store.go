package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
)

// Store keeps one directory per run holding metadata.json and rows.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	Timestamp time.Time          `json:"timestamp"`
	Bodies    int                `json:"bodies"`
	Dim       int                `json:"dim"`
	Seed      int64              `json:"seed"`
	Solver    string             `json:"solver,omitempty"`
	Params    map[string]string  `json:"params,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
	Columns   []string           `json:"columns"`
}

// Table is a header plus numeric rows, the common shape of sweep and
// simulation output.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// Column returns the values of the named column.
func (t Table) Column(name string) ([]float64, bool) {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out, true
}

// Save writes a new run and returns its ID. meta.ID, meta.Timestamp and
// meta.Columns are filled in.
func (s *Store) Save(meta RunMetadata, table Table) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%s", meta.Kind, uuid.New().String()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Columns = table.Columns
	if meta.Metrics == nil {
		meta.Metrics = map[string]float64{}
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "rows.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(table.Columns); err != nil {
		return "", err
	}
	for _, values := range table.Rows {
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTable reads a run's rows. Rows with unparsable cells are skipped.
func (s *Store) LoadTable(runID string) (Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "rows.csv"))
	if err != nil {
		return Table{}, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, nil
	}

	table := Table{Columns: records[0], Rows: make([][]float64, 0, len(records)-1)}
	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		ok := true
		for _, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				ok = false
				break
			}
			row = append(row, v)
		}
		if ok {
			table.Rows = append(table.Rows, row)
		}
	}
	return table, nil
}
