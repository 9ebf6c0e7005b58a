package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/segmentio/encoding/json"

	"github.com/san-kum/bhtree/internal/sim"
	"github.com/san-kum/bhtree/internal/vec"
)

var ErrLengthMismatch = errors.New("storage: positions and accelerations differ in length")

// ExportAccelerations writes one CSV row per body: its position followed by
// its acceleration.
func ExportAccelerations(path string, positions, accs []vec.Vec) error {
	if len(positions) != len(accs) {
		return fmt.Errorf("%w: %d positions, %d accelerations", ErrLengthMismatch, len(positions), len(accs))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteAccelerations(f, positions, accs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func WriteAccelerations(w io.Writer, positions, accs []vec.Vec) error {
	if len(positions) != len(accs) {
		return fmt.Errorf("%w: %d positions, %d accelerations", ErrLengthMismatch, len(positions), len(accs))
	}
	cw := csv.NewWriter(w)
	for i := range positions {
		row := make([]string, 0, len(positions[i])+len(accs[i]))
		for _, x := range positions[i] {
			row = append(row, strconv.FormatFloat(x, 'g', -1, 64))
		}
		for _, a := range accs[i] {
			row = append(row, strconv.FormatFloat(a, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type ExportBody struct {
	ID       int       `json:"id"`
	Mass     float64   `json:"mass"`
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity"`
}

type ExportSnapshot struct {
	Step   int          `json:"step"`
	Time   float64      `json:"time"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportData struct {
	Solver      string             `json:"solver"`
	Integrator  string             `json:"integrator"`
	Steps       int                `json:"steps"`
	EnergyDrift float64            `json:"energy_drift"`
	Snapshots   []ExportSnapshot   `json:"snapshots"`
	Metrics     map[string]float64 `json:"metrics"`
}

func exportData(result *sim.Result) ExportData {
	data := ExportData{
		Solver:      result.Solver,
		Integrator:  result.Integrator,
		Steps:       result.StepsTaken,
		EnergyDrift: result.EnergyDrift,
		Snapshots:   make([]ExportSnapshot, len(result.Snapshots)),
		Metrics:     result.Metrics,
	}
	for i, s := range result.Snapshots {
		snap := ExportSnapshot{Step: s.Step, Time: s.Time, Bodies: make([]ExportBody, len(s.Bodies))}
		for j, b := range s.Bodies {
			snap.Bodies[j] = ExportBody{ID: b.ID, Mass: b.Mass, Position: b.Position, Velocity: b.Velocity}
		}
		data.Snapshots[i] = snap
	}
	return data
}

// ExportJSON writes a simulation result with every recorded snapshot.
func ExportJSON(w io.Writer, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(result))
}
