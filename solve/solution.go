// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"fmt"
	"io"
	"log"

	"github.com/emer/blox/blox"
	"github.com/emer/emergent/timer"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// Solution holds the recorded output of one Integrate call: the sample
// times and the full state vector at each sample, in system variable
// order.  Event steps contribute two rows at the same time stamp, the
// pre-effect state then the post-effect state.
type Solution struct {
	Sys   *blox.System `desc:"the system that was integrated"`
	NVar  int          `desc:"number of variables per row"`
	Times []float32    `desc:"sample times"`
	Vals  []float32    `desc:"row-major sample values: len(Times) rows by NVar columns"`
	Run   timer.Time   `view:"-" desc:"wall-clock time spent integrating"`
}

// AddRow appends one sample: time t and a copy of state vector x.
func (sl *Solution) AddRow(t float32, x []float32) {
	sl.Times = append(sl.Times, t)
	sl.Vals = append(sl.Vals, x...)
}

// Len returns the number of recorded samples.
func (sl *Solution) Len() int {
	return len(sl.Times)
}

// Time returns the time of sample row.
func (sl *Solution) Time(row int) float32 {
	return sl.Times[row]
}

// Val returns the value of variable vi at sample row.
// Returns NaN on invalid index.
func (sl *Solution) Val(row, vi int) float32 {
	if row < 0 || row >= sl.Len() || vi < 0 || vi >= sl.NVar {
		return mat32.NaN()
	}
	return sl.Vals[row*sl.NVar+vi]
}

// Row returns the state vector at sample row, as a slice into Vals.
func (sl *Solution) Row(row int) []float32 {
	return sl.Vals[row*sl.NVar : (row+1)*sl.NVar]
}

// SeriesIdx returns the time series of variable vi as a new slice.
func (sl *Solution) SeriesIdx(vi int) []float32 {
	sr := make([]float32, sl.Len())
	for row := range sr {
		sr[row] = sl.Val(row, vi)
	}
	return sr
}

// SeriesTry returns the time series of the named variable,
// returning an error if the name is not valid.
func (sl *Solution) SeriesTry(nm string) ([]float32, error) {
	vi, err := sl.Sys.VarByNameTry(nm)
	if err != nil {
		return nil, err
	}
	return sl.SeriesIdx(vi), nil
}

// Series returns the time series of the named variable.
// Logs a message and returns nil if the name is not valid.
func (sl *Solution) Series(nm string) []float32 {
	sr, err := sl.SeriesTry(nm)
	if err != nil {
		log.Println(err)
		return nil
	}
	return sr
}

// BloxSeries returns the time series of a component's variable, given the
// component's full name and the local variable name.
func (sl *Solution) BloxSeries(blox, vr string) []float32 {
	return sl.Series(blox + sl.Sys.Sep + vr)
}

// Last returns the final value of the named variable.
// Logs a message and returns NaN if the name is not valid.
func (sl *Solution) Last(nm string) float32 {
	vi, err := sl.Sys.VarByNameTry(nm)
	if err != nil {
		log.Println(err)
		return mat32.NaN()
	}
	return sl.Val(sl.Len()-1, vi)
}

// Table returns the solution as an etable.Table with a Time column
// followed by one float32 column per variable, for analysis and logging.
func (sl *Solution) Table() *etable.Table {
	sch := etable.Schema{
		{"Time", etensor.FLOAT32, nil, nil},
	}
	for vi := range sl.Sys.Vars {
		sch = append(sch, etable.Column{sl.Sys.Vars[vi].Nm, etensor.FLOAT32, nil, nil})
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, sl.Len())
	dt.SetMetaData("name", sl.Sys.Nm)
	dt.SetMetaData("precision", "6")
	for row := 0; row < sl.Len(); row++ {
		dt.SetCellFloat("Time", row, float64(sl.Times[row]))
		for vi := range sl.Sys.Vars {
			dt.SetCellFloat(sl.Sys.Vars[vi].Nm, row, float64(sl.Val(row, vi)))
		}
	}
	return dt
}

// WriteCSV writes the solution to w as tab-separated values with a
// header row.
func (sl *Solution) WriteCSV(w io.Writer) error {
	return sl.Table().WriteCSV(w, etable.Tab, etable.Headers)
}

// RunReport returns a one-line summary of integration cost.
func (sl *Solution) RunReport() string {
	return fmt.Sprintf("%s: %d samples, %d vars, %.4g secs", sl.Sys.Nm, sl.Len(), sl.NVar, sl.Run.TotalSecs())
}
