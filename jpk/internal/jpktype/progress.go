package jpktype

// ProgressEvent represents a progress update while curves are loaded.
type ProgressEvent struct {
	// Path is the archive currently being decoded.
	Path string

	// CurvesDone is the number of curves decoded so far.
	CurvesDone int

	// CurvesTotal is the number of curves in the archive.
	CurvesTotal int
}

// Fraction returns the completed share in [0, 1].
// It returns 0 when the total is unknown.
func (e ProgressEvent) Fraction() float64 {
	if e.CurvesTotal <= 0 {
		return 0
	}
	return float64(e.CurvesDone) / float64(e.CurvesTotal)
}

// ProgressFunc receives progress updates during loading.
type ProgressFunc func(ProgressEvent)
