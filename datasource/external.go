package datasource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/geomodelgrids/geomodelgrids/batch"
	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/grid"
)

var ErrExternalProgram = errors.New("datasource: external program data source failed")

// ExternalProgramSource wraps a native program (e.g. a proprietary
// geomodel query tool) as a DataSource: one invocation per call, points
// streamed on stdin as "x y z" lines and values read back on stdout as
// one whitespace-separated row of floats per point, one float per column.
type ExternalProgramSource struct {
	Command string
	Args    []string
	Columns []string // data value names the program returns, in column order
	Env     []string

	ctx context.Context
}

func (e *ExternalProgramSource) Initialize(ctx context.Context) error {
	e.ctx = ctx
	return nil
}

func (e *ExternalProgramSource) runQuery(points []coordsys.Point3) ([][]float64, error) {
	ctx := e.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, e.Command, e.Args...)
	if len(e.Env) > 0 {
		cmd.Env = e.Env
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Join(ErrExternalProgram, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Join(ErrExternalProgram, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.Join(ErrExternalProgram, err)
	}

	go func() {
		w := bufio.NewWriter(stdin)
		for _, p := range points {
			fmt.Fprintf(w, "%g %g %g\n", p.X, p.Y, p.Z)
		}
		w.Flush()
		stdin.Close()
	}()

	scanner := bufio.NewScanner(stdout)
	rows := make([][]float64, 0, len(points))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				cmd.Wait()
				return nil, errors.Join(ErrExternalProgram, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	if err := cmd.Wait(); err != nil {
		return nil, errors.Join(ErrExternalProgram, err)
	}

	if len(rows) != len(points) {
		return nil, errors.Join(ErrExternalProgram, fmt.Errorf("expected %d rows, got %d", len(points), len(rows)))
	}

	return rows, nil
}

func (e *ExternalProgramSource) GetTopSurface(points []coordsys.Point3) ([]float32, error) {
	rows, err := e.runQuery(points)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(rows))
	for i, r := range rows {
		out[i] = float32(r[0])
	}
	return out, nil
}

func (e *ExternalProgramSource) GetTopographyBathymetry(points []coordsys.Point3) ([]float32, error) {
	return e.GetTopSurface(points)
}

func (e *ExternalProgramSource) GetValues(block *grid.Block, win batch.Window3D, points []coordsys.Point3) (map[string][]float32, error) {
	rows, err := e.runQuery(points)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]float32, len(e.Columns))
	for ci, name := range e.Columns {
		values := make([]float32, len(rows))
		for ri, row := range rows {
			if ci < len(row) {
				values[ri] = float32(row[ci])
			}
		}
		out[name] = values
	}
	return out, nil
}

func (e *ExternalProgramSource) Metadata() map[string]any {
	return map[string]any{"source": "external_program", "command": e.Command}
}
