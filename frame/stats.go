// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frame

import (
	"github.com/stockparfait/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of one numeric column. Missing cells
// are skipped; Count is the number of cells that contributed.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// asFloat converts the numeric cell types the vendor delivers.
func asFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

// Summarize computes descriptive statistics over the numeric values of the
// given column. It fails if the column holds a non-numeric value, or if no
// numeric values are present.
func (f *Frame) Summarize(c Column) (Summary, error) {
	vals, err := f.Column(c)
	if err != nil {
		return Summary{}, errors.Annotate(err, "failed to extract column")
	}
	var xs []float64
	for i, v := range vals {
		if v == nil {
			continue
		}
		x, ok := asFloat(v)
		if !ok {
			return Summary{}, errors.Reason(
				"column '%s' row %d holds non-numeric value %v", c.Label(), i, v)
		}
		xs = append(xs, x)
	}
	if len(xs) == 0 {
		return Summary{}, errors.Reason("column '%s' has no numeric values", c.Label())
	}
	return Summary{
		Count:  len(xs),
		Mean:   stat.Mean(xs, nil),
		StdDev: stat.StdDev(xs, nil),
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}, nil
}
