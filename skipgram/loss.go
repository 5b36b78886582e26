package skipgram

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/t1hachane/NLP-Fall-2024/pairs"
	"github.com/t1hachane/NLP-Fall-2024/params"
	"github.com/t1hachane/NLP-Fall-2024/utils"
)

// RowGrad is a row-sparse gradient: Grad row i belongs to table row Rows[i].
type RowGrad struct {
	Rows []int
	Grad *mat.Dense
}

// Dense expands g into a full (vocabSize x dim) matrix.
func (g RowGrad) Dense(vocabSize int) *mat.Dense {
	_, d := g.Grad.Dims()
	out := mat.NewDense(vocabSize, d, nil)
	for i, r := range g.Rows {
		floats.Add(out.RawRowView(r), g.Grad.RawRowView(i))
	}
	return out
}

// Gradients of the batch loss with respect to both tables.
type Gradients struct {
	Target  RowGrad
	Context RowGrad
}

type rowAccumulator struct {
	dim   int
	order []int
	rows  map[int][]float64
}

func newRowAccumulator(dim int) *rowAccumulator {
	return &rowAccumulator{dim: dim, rows: make(map[int][]float64)}
}

func (a *rowAccumulator) add(row int, scale float64, vec []float64) {
	dst, ok := a.rows[row]
	if !ok {
		dst = make([]float64, a.dim)
		a.rows[row] = dst
		a.order = append(a.order, row)
	}
	floats.AddScaled(dst, scale, vec)
}

func (a *rowAccumulator) grad(scale float64) RowGrad {
	data := make([]float64, 0, len(a.order)*a.dim)
	for _, r := range a.order {
		data = append(data, a.rows[r]...)
	}
	if scale != 1 {
		floats.Scale(scale, data)
	}
	return RowGrad{Rows: a.order, Grad: mat.NewDense(len(a.order), a.dim, data)}
}

// Scores returns s_pos[b] = t_b·c_b and s_neg[b][j] = n_bj·t_b, with
// negatives gathered from the context table. Every pair must carry k
// negatives, k > 0.
func (m *Model) Scores(batch []pairs.Pair) ([]float64, *mat.Dense, error) {
	if len(batch) == 0 {
		return nil, nil, fmt.Errorf("empty batch")
	}
	k := len(batch[0].Negatives)
	if k == 0 {
		return nil, nil, &params.InvalidConfigurationError{Field: "negative_samples", Value: 0}
	}
	pos := make([]float64, len(batch))
	neg := mat.NewDense(len(batch), k, nil)
	for b, p := range batch {
		if len(p.Negatives) != k {
			return nil, nil, fmt.Errorf("pair %d has %d negatives, want %d", b, len(p.Negatives), k)
		}
		t := m.Target.RawRowView(p.Target)
		pos[b] = floats.Dot(t, m.Context.RawRowView(p.Context))
		for j, n := range p.Negatives {
			neg.Set(b, j, floats.Dot(m.Context.RawRowView(n), t))
		}
	}
	return pos, neg, nil
}

// LossFromScores is -Σ log σ(s_pos) - Σ log σ(-s_neg), summed over the batch.
func LossFromScores(pos []float64, neg *mat.Dense) float64 {
	loss := 0.0
	for _, s := range pos {
		loss -= utils.LogSigmoid(s)
	}
	for _, s := range neg.RawMatrix().Data {
		loss -= utils.LogSigmoid(-s)
	}
	return loss
}

func reductionScale(r params.Reduction, batch int) float64 {
	if r == params.ReductionMean {
		return 1 / float64(batch)
	}
	return 1
}

// Loss evaluates the batch loss without computing gradients.
func (m *Model) Loss(batch []pairs.Pair, r params.Reduction) (float64, error) {
	pos, neg, err := m.Scores(batch)
	if err != nil {
		return 0, err
	}
	return LossFromScores(pos, neg) * reductionScale(r, len(batch)), nil
}

// Forward returns the batch loss and its gradients. Sum reduction matches the
// reference objective; Mean divides loss and gradients by the batch size.
func (m *Model) Forward(batch []pairs.Pair, r params.Reduction) (float64, *Gradients, error) {
	pos, neg, err := m.Scores(batch)
	if err != nil {
		return 0, nil, err
	}
	_, d := m.Target.Dims()
	tAcc := newRowAccumulator(d)
	cAcc := newRowAccumulator(d)
	tGrad := make([]float64, d)
	for b, p := range batch {
		for i := range tGrad {
			tGrad[i] = 0
		}
		t := m.Target.RawRowView(p.Target)

		// d/ds of -log σ(s) is σ(s)-1
		gPos := utils.Sigmoid(pos[b]) - 1
		floats.AddScaled(tGrad, gPos, m.Context.RawRowView(p.Context))
		cAcc.add(p.Context, gPos, t)

		// d/ds of -log σ(-s) is σ(s)
		for j, n := range p.Negatives {
			gNeg := utils.Sigmoid(neg.At(b, j))
			floats.AddScaled(tGrad, gNeg, m.Context.RawRowView(n))
			cAcc.add(n, gNeg, t)
		}
		tAcc.add(p.Target, 1, tGrad)
	}
	scale := reductionScale(r, len(batch))
	return LossFromScores(pos, neg) * scale, &Gradients{
		Target:  tAcc.grad(scale),
		Context: cAcc.grad(scale),
	}, nil
}
