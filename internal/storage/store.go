// Package storage records headless session results under a data
// directory, one directory per session with metadata.json and
// timeline.csv. Recordings are diagnostics for comparing tunings; the
// simulation itself never reads them back.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"peelsim/internal/gesture"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SessionMeta struct {
	ID            string    `json:"id"`
	Script        string    `json:"script"`
	Preset        string    `json:"preset"`
	Timestamp     time.Time `json:"timestamp"`
	Tears         int       `json:"tears"`
	FinalFraction float64   `json:"final_fraction"`
	ZoneCount     int       `json:"zone_count"`
	Cleared       bool      `json:"cleared"`
}

// TimelineRow is one parsed line of a session's timeline.csv.
type TimelineRow struct {
	T        float64
	State    string
	Progress float64
	Fraction float64
	Zones    int
}

// Save writes a session directory and returns its id.
func (s *Store) Save(preset string, res *gesture.Result) (string, error) {
	id := fmt.Sprintf("%s_%d", res.Script, time.Now().Unix())
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := SessionMeta{
		ID:            id,
		Script:        res.Script,
		Preset:        preset,
		Timestamp:     time.Now(),
		Tears:         res.Tears,
		FinalFraction: res.FinalFraction,
		ZoneCount:     res.ZoneCount,
		Cleared:       res.Cleared,
	}

	metaFile, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, "timeline.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "state", "progress", "fraction", "zones"}); err != nil {
		return "", err
	}
	for _, smp := range res.Samples {
		row := []string{
			strconv.FormatFloat(smp.T, 'f', 6, 64),
			smp.State.String(),
			strconv.FormatFloat(smp.Progress, 'f', 6, 64),
			strconv.FormatFloat(smp.Fraction, 'f', 6, 64),
			strconv.Itoa(smp.Zones),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return id, nil
}

// List returns the metadata of every recorded session, oldest first.
func (s *Store) List() ([]SessionMeta, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var metas []SessionMeta
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		metas = append(metas, *meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Timestamp.Before(metas[j].Timestamp)
	})
	return metas, nil
}

func (s *Store) Load(id string) (*SessionMeta, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta SessionMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", id, err)
	}
	return &meta, nil
}

// LoadTimeline parses a session's timeline.csv.
func (s *Store) LoadTimeline(id string) ([]TimelineRow, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, "timeline.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, nil
	}

	rows := make([]TimelineRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != 5 {
			return nil, fmt.Errorf("malformed timeline row in %s", id)
		}
		t, _ := strconv.ParseFloat(rec[0], 64)
		p, _ := strconv.ParseFloat(rec[2], 64)
		fr, _ := strconv.ParseFloat(rec[3], 64)
		z, _ := strconv.Atoi(rec[4])
		rows = append(rows, TimelineRow{T: t, State: rec[1], Progress: p, Fraction: fr, Zones: z})
	}
	return rows, nil
}

// ExportJSON writes a session's metadata as indented JSON.
func (s *Store) ExportJSON(w io.Writer, id string) error {
	meta, err := s.Load(id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// ExportCSV streams a session's timeline to w.
func (s *Store) ExportCSV(w io.Writer, id string) error {
	rows, err := s.LoadTimeline(id)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"time", "state", "progress", "fraction", "zones"}); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{
			strconv.FormatFloat(row.T, 'f', 6, 64),
			row.State,
			strconv.FormatFloat(row.Progress, 'f', 6, 64),
			strconv.FormatFloat(row.Fraction, 'f', 6, 64),
			strconv.Itoa(row.Zones),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
