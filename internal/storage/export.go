package storage

import (
	"io"

	json "github.com/json-iterator/go"

	"github.com/san-kum/rigid2d/internal/sim"
)

type ExportBody struct {
	Shape       string  `json:"shape"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	VX          float64 `json:"vx"`
	VY          float64 `json:"vy"`
	HalfWidth   float64 `json:"half_width"`
	HalfHeight  float64 `json:"half_height"`
	Static      bool    `json:"static,omitempty"`
	Restitution float64 `json:"restitution"`
}

type ExportFrame struct {
	Step     int          `json:"step"`
	Time     float64      `json:"time"`
	Contacts int          `json:"contacts"`
	Bodies   []ExportBody `json:"bodies"`
}

type ExportData struct {
	Scene      string             `json:"scene"`
	Dt         float64            `json:"dt"`
	Iterations uint               `json:"iterations"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Frames     []ExportFrame      `json:"frames"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewExportData(info RunInfo, result *sim.Result) ExportData {
	data := ExportData{
		Scene:      info.Scene,
		Dt:         info.Dt,
		Iterations: info.Iterations,
		Duration:   info.Duration,
		Steps:      result.StepsTaken,
		Frames:     make([]ExportFrame, len(result.Frames)),
		Metrics:    result.Metrics,
	}

	for i, f := range result.Frames {
		ef := ExportFrame{
			Step:     f.Step,
			Time:     f.Time,
			Contacts: f.Contacts,
			Bodies:   make([]ExportBody, len(f.Bodies)),
		}
		for j, b := range f.Bodies {
			h := b.Shape.HalfExtents()
			ef.Bodies[j] = ExportBody{
				Shape:       b.Shape.Type().String(),
				X:           b.Position.X,
				Y:           b.Position.Y,
				VX:          b.Velocity.X,
				VY:          b.Velocity.Y,
				HalfWidth:   h.X,
				HalfHeight:  h.Y,
				Static:      b.IsStatic(),
				Restitution: b.Restitution,
			}
		}
		data.Frames[i] = ef
	}
	return data
}

// ExportJSON writes the run as indented JSON.
func ExportJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(info, result))
}
