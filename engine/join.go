package engine

// ============================================================================
// JOIN — Key-based inner and left joins between two views
// ============================================================================
// Output rows are freshly allocated Records. Multiplicity is preserved:
// a left row matching k right rows produces k output rows. Output follows
// left iteration order, then right order within one key.
// Rows whose key value is empty never match.
// ============================================================================

// JoinMode selects which unmatched rows survive.
type JoinMode int

const (
	// Inner keeps only pairs with matching keys.
	Inner JoinMode = iota
	// Left keeps every left row; unmatched right columns are null.
	Left
)

func (m JoinMode) String() string {
	switch m {
	case Inner:
		return "inner"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// RightSuffix is appended to right-side columns whose name collides with a left column.
const RightSuffix = "_right"

// JoinKey names the key dimension on each side.
type JoinKey struct {
	Left  string
	Right string
}

// On joins on a dimension with the same name on both sides.
func On(key string) JoinKey {
	return JoinKey{Left: key, Right: key}
}

// JoinStats reports how many rows went in and out of a join.
type JoinStats struct {
	Mode           JoinMode `json:"-"`
	LeftRows       int      `json:"leftRows"`
	RightRows      int      `json:"rightRows"`
	Output         int      `json:"output"`
	UnmatchedLeft  int      `json:"unmatchedLeft"`
	UnmatchedRight int      `json:"unmatchedRight"`
}

// DroppedLeft is the number of left rows absent from the output.
func (s JoinStats) DroppedLeft() int {
	if s.Mode == Left {
		return 0
	}
	return s.UnmatchedLeft
}

// Join combines left and right on the given key.
func Join(left, right RecordView, on JoinKey, mode JoinMode) (RecordView, JoinStats) {
	stats := JoinStats{Mode: mode, LeftRows: left.Len(), RightRows: right.Len()}

	// Index right rows by key, preserving right order.
	index := make(map[string][]int)
	for j := 0; j < right.Len(); j++ {
		k := right.Dimension(j, on.Right)
		if k == "" {
			continue
		}
		index[k] = append(index[k], j)
	}

	leftDims := left.DimensionKeys()
	leftMeas := left.MeasureKeys()
	taken := make(map[string]bool, len(leftDims)+len(leftMeas))
	for _, k := range leftDims {
		taken[k] = true
	}
	for _, k := range leftMeas {
		taken[k] = true
	}

	type column struct{ src, dst string }
	var rightDims, rightMeas []column
	for _, k := range right.DimensionKeys() {
		if k == on.Right {
			continue
		}
		rightDims = append(rightDims, column{src: k, dst: outputName(k, taken)})
	}
	for _, k := range right.MeasureKeys() {
		rightMeas = append(rightMeas, column{src: k, dst: outputName(k, taken)})
	}

	dimKeys := append([]string(nil), leftDims...)
	for _, c := range rightDims {
		dimKeys = append(dimKeys, c.dst)
	}
	mesKeys := append([]string(nil), leftMeas...)
	for _, c := range rightMeas {
		mesKeys = append(mesKeys, c.dst)
	}

	matchedRight := make(map[int]bool)
	var out []Record

	for i := 0; i < left.Len(); i++ {
		matches := index[left.Dimension(i, on.Left)]
		if len(matches) == 0 {
			stats.UnmatchedLeft++
			if mode == Left {
				out = append(out, copyRow(left, i, leftDims, leftMeas))
			}
			continue
		}
		for _, j := range matches {
			matchedRight[j] = true
			rec := copyRow(left, i, leftDims, leftMeas)
			for _, c := range rightDims {
				rec.Dimensions[c.dst] = right.Dimension(j, c.src)
			}
			for _, c := range rightMeas {
				if v, ok := right.Measure(j, c.src); ok {
					rec.Measures[c.dst] = v
				}
			}
			out = append(out, rec)
		}
	}

	stats.UnmatchedRight = right.Len() - len(matchedRight)
	stats.Output = len(out)
	return NewSliceViewWithKeys(out, dimKeys, mesKeys), stats
}

func outputName(key string, taken map[string]bool) string {
	name := key
	for taken[name] {
		name += RightSuffix
	}
	taken[name] = true
	return name
}

func copyRow(view RecordView, i int, dims, meas []string) Record {
	rec := Record{
		Dimensions: make(map[string]string, len(dims)),
		Measures:   make(map[string]float64, len(meas)),
	}
	for _, k := range dims {
		rec.Dimensions[k] = view.Dimension(i, k)
	}
	for _, k := range meas {
		if v, ok := view.Measure(i, k); ok {
			rec.Measures[k] = v
		}
	}
	return rec
}
