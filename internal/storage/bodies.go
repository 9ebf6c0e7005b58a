package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/vec"
)

var ErrMalformed = errors.New("storage: malformed body record")

// LoadBodies reads a body file. Each non-blank line not starting with '#'
// holds whitespace separated columns
//
//	id mass x_1..x_dim [v_1..v_dim] [ignored...]
//
// Velocities default to zero when the row is too short to carry them.
// Mass and position must be numeric. A velocity block that starts numeric
// must be complete.
func LoadBodies(path string, dim int) ([]body.Body, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bodies, err := ReadBodies(f, dim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bodies, nil
}

func ReadBodies(r io.Reader, dim int) ([]body.Body, error) {
	if dim < 1 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}

	var bodies []body.Body
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 2+dim {
			return nil, fmt.Errorf("%w: line %d has %d columns, need at least %d", ErrMalformed, line, len(fields), 2+dim)
		}

		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: id %q", ErrMalformed, line, fields[0])
		}
		nums, err := parseFloats(fields[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}

		switch {
		case len(nums) < 1+dim:
			return nil, fmt.Errorf("%w: line %d: %q is not a coordinate", ErrMalformed, line, fields[1+len(nums)])
		case len(nums) > 1+dim && len(nums) < 1+2*dim:
			return nil, fmt.Errorf("%w: line %d: partial velocity, need %d components", ErrMalformed, line, dim)
		}

		mass := nums[0]
		pos := vec.Vec(nums[1 : 1+dim : 1+dim])
		var vel vec.Vec
		if len(nums) >= 1+2*dim {
			vel = vec.Vec(nums[1+dim : 1+2*dim : 1+2*dim])
		}
		bodies = append(bodies, body.New(id, mass, pos, vel))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return bodies, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			// trailing annotation columns are allowed
			if len(out) > 0 {
				break
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteBodies writes bodies in the format ReadBodies accepts.
func WriteBodies(w io.Writer, bodies []body.Body) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# id mass position... velocity...")
	for _, b := range bodies {
		fmt.Fprintf(bw, "%d\t%s", b.ID, strconv.FormatFloat(b.Mass, 'g', -1, 64))
		for _, x := range b.Position {
			fmt.Fprintf(bw, "\t%s", strconv.FormatFloat(x, 'g', -1, 64))
		}
		for _, v := range b.Velocity {
			fmt.Fprintf(bw, "\t%s", strconv.FormatFloat(v, 'g', -1, 64))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func SaveBodies(path string, bodies []body.Body) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBodies(f, bodies); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
