package skipgram

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/t1hachane/NLP-Fall-2024/pairs"
	"github.com/t1hachane/NLP-Fall-2024/params"
	"github.com/t1hachane/NLP-Fall-2024/vocab"
)

func finiteDiffCheck(t *testing.T, name string, param *mat.Dense, grad *mat.Dense,
	forward func() float64, i, j int) {

	eps := 1e-5
	w0 := param.At(i, j)

	param.Set(i, j, w0+eps)
	lp := forward()

	param.Set(i, j, w0-eps)
	lm := forward()

	param.Set(i, j, w0)

	numGrad := (lp - lm) / (2.0 * eps)
	anaGrad := grad.At(i, j)

	if math.Abs(numGrad-anaGrad) > 1e-5 {
		t.Fatalf("%s[%d,%d] grad mismatch: num=%.6g ana=%.6g",
			name, i, j, numGrad, anaGrad)
	}
}

func TestNewShapesAndValidation(t *testing.T) {
	m, err := New(7, 3, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatal(err)
	}
	if v, d := m.Dims(); v != 7 || d != 3 {
		t.Fatalf("dims = %d x %d", v, d)
	}
	if r, c := m.Context.Dims(); r != 7 || c != 3 {
		t.Fatalf("context dims = %d x %d", r, c)
	}

	_, err = New(7, 0, rand.New(rand.NewPCG(1, 2)))
	var ice *params.InvalidConfigurationError
	if !errors.As(err, &ice) || ice.Field != "embedding_dim" {
		t.Fatalf("err = %v", err)
	}
}

// model with tables set so target 0 against context 1 scores a*a and
// against negative 2 scores -a*a.
func alignedModel(a float64) *Model {
	target := mat.NewDense(3, 2, []float64{a, 0, 0, 0, 0, 0})
	context := mat.NewDense(3, 2, []float64{0, 0, a, 0, -a, 0})
	m, _ := FromTables(target, context)
	return m
}

func TestLossVanishesForSeparatedScores(t *testing.T) {
	batch := []pairs.Pair{{Target: 0, Context: 1, Negatives: []int{2, 2}}}
	loss, err := alignedModel(10).Loss(batch, params.ReductionSum)
	if err != nil {
		t.Fatal(err)
	}
	if loss > 1e-30 || loss < 0 {
		t.Errorf("loss = %v, want ≈0", loss)
	}
}

func TestLossGrowsWithoutBoundWhenReversed(t *testing.T) {
	// swap roles: context 2 is the positive, context 1 the negative
	batch := []pairs.Pair{{Target: 0, Context: 2, Negatives: []int{1}}}
	prev := 0.0
	for _, a := range []float64{1, 3, 10, 30} {
		loss, err := alignedModel(a).Loss(batch, params.ReductionSum)
		if err != nil {
			t.Fatal(err)
		}
		if loss <= prev {
			t.Fatalf("loss %v at a=%v did not grow past %v", loss, a, prev)
		}
		prev = loss
	}
	if prev < 1500 {
		t.Errorf("loss = %v, want about 2*30*30", prev)
	}
}

func TestForwardGradientsMatchFiniteDifferences(t *testing.T) {
	rng := rand.New(rand.NewPCG(123, 0))
	m, _ := New(5, 4, rng)
	batch := []pairs.Pair{
		{Target: 0, Context: 1, Negatives: []int{2, 3, 1}},
		{Target: 1, Context: 0, Negatives: []int{4, 4, 0}},
		{Target: 0, Context: 3, Negatives: []int{0, 2, 2}},
	}
	for _, r := range []params.Reduction{params.ReductionSum, params.ReductionMean} {
		_, grads, err := m.Forward(batch, r)
		if err != nil {
			t.Fatal(err)
		}
		dTarget := grads.Target.Dense(5)
		dContext := grads.Context.Dense(5)
		forward := func() float64 {
			l, _ := m.Loss(batch, r)
			return l
		}
		for _, ij := range [][2]int{{0, 0}, {0, 3}, {1, 2}} {
			finiteDiffCheck(t, "Target", m.Target, dTarget, forward, ij[0], ij[1])
		}
		for _, ij := range [][2]int{{0, 1}, {2, 0}, {4, 3}, {3, 2}} {
			finiteDiffCheck(t, "Context", m.Context, dContext, forward, ij[0], ij[1])
		}
	}
}

func TestMeanReductionScalesSum(t *testing.T) {
	m, _ := New(4, 3, rand.New(rand.NewPCG(5, 5)))
	batch := []pairs.Pair{
		{Target: 0, Context: 1, Negatives: []int{2}},
		{Target: 3, Context: 2, Negatives: []int{0}},
	}
	sum, gs, _ := m.Forward(batch, params.ReductionSum)
	mean, gm, _ := m.Forward(batch, params.ReductionMean)
	if math.Abs(sum/2-mean) > 1e-12 {
		t.Fatalf("mean %v != sum/2 %v", mean, sum/2)
	}
	a, b := gs.Target.Grad.RawMatrix().Data, gm.Target.Grad.RawMatrix().Data
	for i := range a {
		if math.Abs(a[i]/2-b[i]) > 1e-12 {
			t.Fatalf("grad %d: sum %v mean %v", i, a[i], b[i])
		}
	}
}

func TestScoresRejectsMalformedBatch(t *testing.T) {
	m, _ := New(3, 2, rand.New(rand.NewPCG(1, 1)))
	if _, _, err := m.Scores(nil); err == nil {
		t.Error("empty batch accepted")
	}
	if _, _, err := m.Scores([]pairs.Pair{{Target: 0, Context: 1}}); err == nil {
		t.Error("pair without negatives accepted")
	}
	ragged := []pairs.Pair{
		{Target: 0, Context: 1, Negatives: []int{2}},
		{Target: 1, Context: 0, Negatives: []int{2, 2}},
	}
	if _, _, err := m.Scores(ragged); err == nil {
		t.Error("ragged negatives accepted")
	}
}

func TestNearest(t *testing.T) {
	v, err := vocab.FromCounts(map[string]int{"a": 5, "b": 4, "c": 3, "d": 2, "e": 1})
	if err != nil {
		t.Fatal(err)
	}
	// index order a b c d e
	target := mat.NewDense(5, 2, []float64{
		0, 0, // a
		1, 0, // b
		0, 1, // c  same distance from a as b
		5, 5, // d
		-3, 0, // e
	})
	m, _ := FromTables(target, mat.NewDense(5, 2, nil))

	got, err := m.Nearest(v, "a", 3, Euclidean)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"b", "c", "e"}
	for i, n := range got {
		if n.Token != want[i] {
			t.Fatalf("euclidean neighbours = %+v, want %v", got, want)
		}
	}

	got, _ = m.Nearest(v, "b", -1, Cosine)
	if len(got) != 4 {
		t.Fatalf("n<0 should return every other token, got %d", len(got))
	}
	if got[0].Token != "d" || got[len(got)-1].Token != "e" {
		t.Errorf("cosine order = %+v", got)
	}
	for _, n := range got {
		if n.Token == "b" {
			t.Error("query token returned as its own neighbour")
		}
	}

	_, err = m.Nearest(v, "zzz", 2, Cosine)
	var ute *vocab.UnknownTokenError
	if !errors.As(err, &ute) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseMetric(t *testing.T) {
	if m, err := ParseMetric("cosine"); err != nil || m != Cosine {
		t.Errorf("cosine -> %v %v", m, err)
	}
	if m, err := ParseMetric("euclidean"); err != nil || m != Euclidean || m.String() != "euclidean" {
		t.Errorf("euclidean -> %v %v", m, err)
	}
	if _, err := ParseMetric("manhattan"); err == nil {
		t.Error("manhattan accepted")
	}
}
