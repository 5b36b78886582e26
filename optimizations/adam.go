package optimizations

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Adam holds first/second moment estimates for one parameter matrix.
type Adam struct {
	M, V *mat.Dense
	T    int

	Beta1, Beta2, Eps float64
	WeightDecay       float64
}

// NewAdam allocates zeroed moments shaped like p.
func NewAdam(p *mat.Dense, beta1, beta2, eps, weightDecay float64) *Adam {
	return &Adam{
		M:           zerosLike(p),
		V:           zerosLike(p),
		Beta1:       beta1,
		Beta2:       beta2,
		Eps:         eps,
		WeightDecay: weightDecay,
	}
}

// Step advances the shared step counter used for bias correction.
func (a *Adam) Step() { a.T++ }

// Update applies a dense step to every element of p.
func (a *Adam) Update(p, g *mat.Dense, lr float64) {
	AdamUpdateInPlace(p, g, a.M, a.V, a.T, lr, a.Beta1, a.Beta2, a.Eps, a.WeightDecay)
}

// UpdateRows applies the step only to rows[i] of p, with g row i holding that
// row's gradient. Untouched rows keep their moments, like a lazy/sparse Adam.
// rows must be distinct.
func (a *Adam) UpdateRows(p *mat.Dense, rows []int, g *mat.Dense, lr float64) {
	gr, gc := g.Dims()
	if gr != len(rows) {
		panic("adam.UpdateRows: grad rows mismatch")
	}
	if _, pc := p.Dims(); pc != gc {
		panic("adam.UpdateRows: grad cols mismatch")
	}
	c1, c2 := a.biasCorrection()
	for i, r := range rows {
		pRow := p.RawRowView(r)
		mRow := a.M.RawRowView(r)
		vRow := a.V.RawRowView(r)
		gRow := g.RawRowView(i)
		for j := range pRow {
			step(&pRow[j], gRow[j], &mRow[j], &vRow[j], c1, c2, lr, a.Beta1, a.Beta2, a.Eps, a.WeightDecay)
		}
	}
}

func (a *Adam) biasCorrection() (float64, float64) {
	t := max(a.T, 1)
	return 1.0 / (1.0 - math.Pow(a.Beta1, float64(t))), 1.0 / (1.0 - math.Pow(a.Beta2, float64(t)))
}

// p -= lr * (mhat/(sqrt(vhat)+eps) + wd * p) with bias correction (AdamW).
func AdamUpdateInPlace(
	p, g, m, v *mat.Dense,
	t int,
	lr, beta1, beta2, eps, weightDecay float64,
) {
	pr, pc := p.Dims()
	if gr, gc := g.Dims(); gr != pr || gc != pc {
		panic("adamUpdateInPlace: grad shape mismatch")
	}
	if mr, mc := m.Dims(); mr != pr || mc != pc {
		panic("adamUpdateInPlace: m shape mismatch")
	}
	if vr, vc := v.Dims(); vr != pr || vc != pc {
		panic("adamUpdateInPlace: v shape mismatch")
	}
	t = max(t, 1)
	c1 := 1.0 / (1.0 - math.Pow(beta1, float64(t)))
	c2 := 1.0 / (1.0 - math.Pow(beta2, float64(t)))
	for i := 0; i < pr; i++ {
		pRow, gRow := p.RawRowView(i), g.RawRowView(i)
		mRow, vRow := m.RawRowView(i), v.RawRowView(i)
		for j := 0; j < pc; j++ {
			step(&pRow[j], gRow[j], &mRow[j], &vRow[j], c1, c2, lr, beta1, beta2, eps, weightDecay)
		}
	}
}

func step(p *float64, g float64, m, v *float64, c1, c2, lr, beta1, beta2, eps, wd float64) {
	*m = beta1*(*m) + (1.0-beta1)*g
	*v = beta2*(*v) + (1.0-beta2)*g*g
	mhat := *m * c1
	vhat := *v * c2
	*p -= lr * (mhat/(math.Sqrt(vhat)+eps) + wd*(*p))
}

func zerosLike(a *mat.Dense) *mat.Dense {
	r, c := a.Dims()
	return mat.NewDense(r, c, nil)
}
