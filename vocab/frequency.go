package vocab

// FrequencyTable holds per-token occurrence counts over a corpus.
type FrequencyTable struct {
	Counts map[string]int
	total  int
}

func NewFrequencyTable(corpus [][]string) *FrequencyTable {
	f := &FrequencyTable{Counts: make(map[string]int)}
	for _, doc := range corpus {
		for _, tok := range doc {
			f.Counts[tok]++
			f.total++
		}
	}
	return f
}

func (f *FrequencyTable) Count(tok string) int { return f.Counts[tok] }

func (f *FrequencyTable) Total() int { return f.total }

// Prob is count/total, or 0 for unseen tokens.
func (f *FrequencyTable) Prob(tok string) float64 {
	if f.total == 0 {
		return 0
	}
	return float64(f.Counts[tok]) / float64(f.total)
}
