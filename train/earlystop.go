package train

// EarlyStopping is a plateau detector over the last Patience epoch losses.
// It stops once the spread of the window, relative to its maximum, falls
// under MinPercentGain. Oscillating losses can trigger it too.
type EarlyStopping struct {
	Patience       int
	MinPercentGain float64
	window         []float64
}

func NewEarlyStopping(patience int, minPercentGain float64) *EarlyStopping {
	return &EarlyStopping{
		Patience:       patience,
		MinPercentGain: minPercentGain,
		window:         make([]float64, 0, patience),
	}
}

// Record appends loss, evicting the oldest entry past Patience.
func (e *EarlyStopping) Record(loss float64) {
	if len(e.window) == e.Patience {
		copy(e.window, e.window[1:])
		e.window = e.window[:len(e.window)-1]
	}
	e.window = append(e.window, loss)
}

// Gain is (max-min)/max over the window, or 1 with fewer than two losses.
func (e *EarlyStopping) Gain() float64 {
	if len(e.window) < 2 {
		return 1
	}
	hi, lo := e.window[0], e.window[0]
	for _, l := range e.window[1:] {
		hi = max(hi, l)
		lo = min(lo, l)
	}
	if hi == 0 {
		return 0
	}
	return (hi - lo) / hi
}

func (e *EarlyStopping) ShouldStop() bool {
	if len(e.window) < 2 {
		return false
	}
	return e.Gain() < e.MinPercentGain
}

// Window returns a copy of the recorded losses, oldest first.
func (e *EarlyStopping) Window() []float64 {
	return append([]float64(nil), e.window...)
}
