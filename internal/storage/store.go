package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Store persists run metadata and sampled timeseries under a base
// directory: one <run id>.json metadata file and one <run id>.csv
// timeseries per run.
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
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Particles   int                `json:"particles"`
	Steps       int                `json:"steps"`
	Dt          float64            `json:"dt"`
	Temperature float64            `json:"temperature"`
	Pressure    float64            `json:"pressure"`
	Seed        int64              `json:"seed"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Sample is one sampled row of the run timeseries.
type Sample struct {
	Time        float64
	Temperature float64
	Pressure    float64
	Volume      float64
}

// Save writes metadata and timeseries for a finished run and returns the
// run id.
func (s *Store) Save(meta RunMetadata, series []Sample) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("npt_%d", time.Now().Unix())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.baseDir, meta.ID+".json"), data, 0644); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(s.baseDir, meta.ID+".csv"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "temperature", "pressure", "volume"}); err != nil {
		return "", err
	}
	for _, row := range series {
		rec := []string{
			strconv.FormatFloat(row.Time, 'g', -1, 64),
			strconv.FormatFloat(row.Temperature, 'g', -1, 64),
			strconv.FormatFloat(row.Pressure, 'g', -1, 64),
			strconv.FormatFloat(row.Volume, 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	return meta.ID, nil
}

// List returns metadata for every stored run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}
	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name()))
		if err != nil {
			return nil, err
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, err
		}
		runs = append(runs, meta)
	}
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

// LoadSeries reads the timeseries of a stored run.
func (s *Store) LoadSeries(runID string) ([]Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID+".csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("storage: run %s has no timeseries", runID)
	}

	series := make([]Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != 4 {
			return nil, fmt.Errorf("storage: run %s has a malformed row", runID)
		}
		var row Sample
		if row.Time, err = strconv.ParseFloat(rec[0], 64); err != nil {
			return nil, err
		}
		if row.Temperature, err = strconv.ParseFloat(rec[1], 64); err != nil {
			return nil, err
		}
		if row.Pressure, err = strconv.ParseFloat(rec[2], 64); err != nil {
			return nil, err
		}
		if row.Volume, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, err
		}
		series = append(series, row)
	}
	return series, nil
}

// LoadMetadata reads the metadata of a stored run.
func (s *Store) LoadMetadata(runID string) (RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID+".json"))
	if err != nil {
		return RunMetadata{}, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return RunMetadata{}, err
	}
	return meta, nil
}
