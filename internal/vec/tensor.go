package vec

// Tensor is a dense dim×dim matrix stored row-major. The tree only ever
// builds symmetric second-moment tensors with it.
type Tensor struct {
	dim int
	a   []float64
}

func NewTensor(dim int) Tensor {
	return Tensor{dim: dim, a: make([]float64, dim*dim)}
}

func (t Tensor) Dim() int { return t.dim }

func (t Tensor) At(i, j int) float64 { return t.a[i*t.dim+j] }

func (t Tensor) Set(i, j int, v float64) { t.a[i*t.dim+j] = v }

func (t Tensor) Clone() Tensor {
	c := Tensor{dim: t.dim, a: make([]float64, len(t.a))}
	copy(c.a, t.a)
	return c
}

// AddMoment accumulates m*(3*r*rᵗ - |r|²*I), the traceless second moment of
// a point mass m displaced by r.
func (t Tensor) AddMoment(m float64, r Vec) {
	r2 := r.Dot(r)
	for i := 0; i < t.dim; i++ {
		row := i * t.dim
		for j := 0; j < t.dim; j++ {
			v := 3 * r[i] * r[j]
			if i == j {
				v -= r2
			}
			t.a[row+j] += m * v
		}
	}
}

// AddTensor accumulates other into t.
func (t Tensor) AddTensor(other Tensor) {
	for i := range t.a {
		t.a[i] += other.a[i]
	}
}

// MulVec returns t·v.
func (t Tensor) MulVec(v Vec) Vec {
	out := make(Vec, t.dim)
	for i := 0; i < t.dim; i++ {
		row := i * t.dim
		sum := 0.0
		for j := 0; j < t.dim; j++ {
			sum += t.a[row+j] * v[j]
		}
		out[i] = sum
	}
	return out
}

// QuadForm returns vᵗ·t·v.
func (t Tensor) QuadForm(v Vec) float64 {
	return v.Dot(t.MulVec(v))
}

func (t Tensor) Trace() float64 {
	sum := 0.0
	for i := 0; i < t.dim; i++ {
		sum += t.a[i*t.dim+i]
	}
	return sum
}

func (t Tensor) IsZero() bool {
	for _, v := range t.a {
		if v != 0 {
			return false
		}
	}
	return true
}
