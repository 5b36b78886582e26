package utils

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestRandomArrayBoundsAndMean(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	const d = 16.0
	xs := RandomArray(rng, 20000, d)
	bound := 1 / math.Sqrt(d)
	sum := 0.0
	for _, x := range xs {
		if x < -bound || x > bound {
			t.Fatalf("value %v outside ±%v", x, bound)
		}
		sum += x
	}
	if mean := sum / float64(len(xs)); math.Abs(mean) > 0.01 {
		t.Errorf("mean = %v, want ≈0", mean)
	}
}

func TestLogSigmoidStable(t *testing.T) {
	for _, z := range []float64{-800, -30, -1, 0, 1, 30, 800} {
		got := LogSigmoid(z)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("LogSigmoid(%v) = %v", z, got)
		}
		if math.Abs(z) < 30 {
			want := math.Log(Sigmoid(z))
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("LogSigmoid(%v) = %v, want %v", z, got, want)
			}
		}
	}
	if LogSigmoid(-800) > -799 {
		t.Errorf("LogSigmoid(-800) should be about -800")
	}
}

func TestClipGrads(t *testing.T) {
	a := mat.NewDense(1, 2, []float64{3, 0})
	b := mat.NewDense(1, 1, []float64{4})
	s := ClipGrads(1, a, b)
	if math.Abs(s-0.2) > 1e-12 {
		t.Fatalf("scale = %v, want 0.2", s)
	}
	if math.Abs(a.At(0, 0)-0.6) > 1e-12 || math.Abs(b.At(0, 0)-0.8) > 1e-12 {
		t.Errorf("clipped grads wrong: %v %v", a.At(0, 0), b.At(0, 0))
	}
	if ClipGrads(0, a) != 1 {
		t.Errorf("maxNorm 0 must disable clipping")
	}
}

func TestLRSchedule(t *testing.T) {
	if got := LRSchedule(5, 1, 10, 0); got != 0.5 {
		t.Errorf("warmup midpoint = %v", got)
	}
	if got := LRSchedule(10, 1, 10, 100); got != 1 {
		t.Errorf("decay start = %v", got)
	}
	if got := LRSchedule(1000, 1, 10, 100); math.Abs(got) > 1e-12 {
		t.Errorf("decay end = %v", got)
	}
	if got := LRSchedule(7, 0.3, 0, 0); got != 0.3 {
		t.Errorf("constant = %v", got)
	}
}
