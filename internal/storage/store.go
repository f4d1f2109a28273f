// Package storage keeps finished runs on disk: a metadata.json and a
// frames.csv per run directory.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"

	"github.com/san-kum/rigid2d/internal/sim"
	"github.com/san-kum/rigid2d/internal/vec"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was configured.
type RunInfo struct {
	Scene      string
	Dt         float64
	Iterations uint
	Duration   float64
	Seed       int64
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Iterations uint               `json:"iterations"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Bodies     int                `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Sample is one body in one stored frame.
type Sample struct {
	Step     int
	Time     float64
	Body     int
	Shape    string
	Position vec.Vec2
	Velocity vec.Vec2
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", info.Scene, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	bodies := 0
	if n := len(result.Frames); n > 0 {
		bodies = len(result.Frames[n-1].Bodies)
	}

	meta := RunMetadata{
		ID:         runID,
		Scene:      info.Scene,
		Timestamp:  time.Now(),
		Seed:       info.Seed,
		Dt:         info.Dt,
		Iterations: info.Iterations,
		Duration:   info.Duration,
		Steps:      result.StepsTaken,
		Bodies:     bodies,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteCSV writes one row per body per frame.
func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"step", "time", "body", "shape", "x", "y", "vx", "vy"}); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, fr := range result.Frames {
		for i, b := range fr.Bodies {
			row := []string{
				strconv.Itoa(fr.Step),
				format(fr.Time),
				strconv.Itoa(i),
				b.Shape.Type().String(),
				format(b.Position.X),
				format(b.Position.Y),
				format(b.Velocity.X),
				format(b.Velocity.Y),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns stored runs, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// Latest returns the id of the newest run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", ErrRunNotFound
	}
	return runs[0].ID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// CopyFrames streams a run's frames.csv to w unchanged.
func (s *Store) CopyFrames(runID string, w io.Writer) error {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}

// LoadSamples reads back every row of a run's frames.csv. Malformed rows
// are skipped.
func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != 8 {
			continue
		}
		sm, ok := parseSample(rec)
		if !ok {
			continue
		}
		samples = append(samples, sm)
	}
	return samples, nil
}

func parseSample(rec []string) (Sample, bool) {
	step, err1 := strconv.Atoi(rec[0])
	body, err2 := strconv.Atoi(rec[2])
	if err1 != nil || err2 != nil {
		return Sample{}, false
	}
	var f [5]float64
	for i, idx := range []int{1, 4, 5, 6, 7} {
		v, err := strconv.ParseFloat(rec[idx], 64)
		if err != nil {
			return Sample{}, false
		}
		f[i] = v
	}
	return Sample{
		Step:     step,
		Time:     f[0],
		Body:     body,
		Shape:    rec[3],
		Position: vec.New(f[1], f[2]),
		Velocity: vec.New(f[3], f[4]),
	}, true
}

// Series is the stored history of one body.
type Series struct {
	Body       int
	Shape      string
	Times      []float64
	Positions  []vec.Vec2
	Velocities []vec.Vec2
}

// BodySeries filters samples down to one body, in file order.
func BodySeries(samples []Sample, body int) Series {
	s := Series{Body: body}
	for _, sm := range samples {
		if sm.Body != body {
			continue
		}
		s.Shape = sm.Shape
		s.Times = append(s.Times, sm.Time)
		s.Positions = append(s.Positions, sm.Position)
		s.Velocities = append(s.Velocities, sm.Velocity)
	}
	return s
}

// FirstDynamic guesses the most interesting body of a stored run: the
// first one that ever moved.
func FirstDynamic(samples []Sample) int {
	start := map[int]vec.Vec2{}
	for _, sm := range samples {
		p, ok := start[sm.Body]
		if !ok {
			start[sm.Body] = sm.Position
			continue
		}
		if p != sm.Position {
			return sm.Body
		}
	}
	return 0
}
