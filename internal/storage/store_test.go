package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/sim"
	"github.com/san-kum/bhtree/internal/vec"
)

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Kind:    "sweep",
		Bodies:  1000,
		Dim:     2,
		Seed:    42,
		Solver:  "barnes-hut",
		Params:  map[string]string{"param": "theta"},
		Metrics: map[string]float64{"best_theta": 0.5},
	}
	table := Table{
		Columns: []string{"theta", "mean_dev"},
		Rows:    [][]float64{{0.1, 1e-6}, {0.5, 1e-3}},
	}

	runID, err := st.Save(meta, table)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "sweep_") {
		t.Errorf("unexpected run id %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.Params["param"] != "theta" || loaded.Metrics["best_theta"] != 0.5 {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if len(loaded.Columns) != 2 {
		t.Errorf("expected columns recorded, got %v", loaded.Columns)
	}

	got, err := st.LoadTable(runID)
	if err != nil {
		t.Fatalf("load table failed: %v", err)
	}
	if len(got.Rows) != 2 || got.Rows[1][1] != 1e-3 {
		t.Errorf("rows mismatch: %v", got.Rows)
	}

	theta, ok := got.Column("theta")
	if !ok || len(theta) != 2 || theta[0] != 0.1 {
		t.Errorf("column lookup failed: %v", theta)
	}
	if _, ok := got.Column("missing"); ok {
		t.Error("expected missing column")
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, kind := range []string{"sweep", "simulate"} {
		if _, err := st.Save(RunMetadata{Kind: kind}, Table{Columns: []string{"x"}}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 || runs[0].Kind != "sweep" {
		t.Errorf("expected two runs oldest first, got %+v", runs)
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runID, err := st.Save(RunMetadata{Kind: "accel"}, Table{Columns: []string{"x"}, Rows: [][]float64{{1}}})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "rows.csv"} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestReadBodies(t *testing.T) {
	input := `# id mass x y z vx vy vz
0	1.5	0	0	0	0	1	0
1 2.0 1 2 3
2	3	-1	-2	-3	0.5	0	0	0.01	note
3 1 4 5 6 label

`
	bodies, err := ReadBodies(strings.NewReader(input), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(bodies) != 4 {
		t.Fatalf("expected 4 bodies, got %d", len(bodies))
	}
	if bodies[0].Mass != 1.5 || !bodies[0].Velocity.Equal(vec.Vec{0, 1, 0}) {
		t.Errorf("body 0 mismatch: %+v", bodies[0])
	}
	if !bodies[1].Position.Equal(vec.Vec{1, 2, 3}) || !bodies[1].Velocity.Equal(vec.Vec{0, 0, 0}) {
		t.Errorf("body 1 mismatch: %+v", bodies[1])
	}
	if bodies[2].ID != 2 || !bodies[2].Velocity.Equal(vec.Vec{0.5, 0, 0}) {
		t.Errorf("body 2 mismatch: %+v", bodies[2])
	}
	if !bodies[3].Position.Equal(vec.Vec{4, 5, 6}) || !bodies[3].Velocity.Equal(vec.Vec{0, 0, 0}) {
		t.Errorf("body 3 mismatch: %+v", bodies[3])
	}
}

func TestReadBodiesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"short row", "0 1 2\n"},
		{"bad id", "x 1 2 3\n"},
		{"bad mass", "0 heavy 2 3\n"},
		{"bad coordinate", "0 1 0.5 abc\n"},
		{"bad first coordinate", "0 1 abc 0.5\n"},
		{"partial velocity", "0 1 0.5 0.5 1 fast\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBodies(strings.NewReader(tt.input), 2)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestSaveLoadBodies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bodies.txt")
	bodies := []body.Body{
		body.New(7, 0.1, vec.Vec{1.0 / 3, -2}, vec.Vec{0.25, 1e-9}),
		body.New(8, 42, vec.Vec{0, 5}, nil),
	}
	if err := SaveBodies(path, bodies); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadBodies(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range bodies {
		if loaded[i].ID != bodies[i].ID || loaded[i].Mass != bodies[i].Mass ||
			!loaded[i].Position.Equal(bodies[i].Position) || !loaded[i].Velocity.Equal(bodies[i].Velocity) {
			t.Errorf("body %d mismatch: %+v vs %+v", i, loaded[i], bodies[i])
		}
	}
}

func TestExportAccelerations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acc.csv")
	positions := []vec.Vec{{0, 0}, {1, 0}}
	accs := []vec.Vec{{1, 0}, {-1, 0}}

	if err := ExportAccelerations(path, positions, accs); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "0,0,1,0\n1,0,-1,0\n" {
		t.Errorf("unexpected csv:\n%s", data)
	}

	err = ExportAccelerations(path, positions, accs[:1])
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	result := &sim.Result{
		Solver:     "barnes-hut",
		Integrator: "leapfrog",
		StepsTaken: 1,
		Snapshots: []sim.Snapshot{
			{Step: 0, Time: 0, Bodies: []body.Body{body.New(0, 1, vec.Vec{0, 0}, nil)}},
			{Step: 1, Time: 0.1, Bodies: []body.Body{body.New(0, 1, vec.Vec{0, 0.1}, vec.Vec{0, 1})}},
		},
		Metrics: map[string]float64{"energy_drift": 0},
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, result); err != nil {
		t.Fatal(err)
	}

	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Solver != "barnes-hut" || len(decoded.Snapshots) != 2 {
		t.Errorf("unexpected export: %+v", decoded)
	}
	if decoded.Snapshots[1].Bodies[0].Position[1] != 0.1 {
		t.Errorf("position not exported: %+v", decoded.Snapshots[1])
	}
}
