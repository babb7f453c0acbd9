package predicates

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrient2d(t *testing.T) {
	a := [2]float64{0, 0}
	b := [2]float64{10, 0}
	c := [2]float64{0, 10}

	assert.Equal(t, 100.0, Orient2d(a, b, c), "twice the area of a CCW triangle")
	assert.Equal(t, -100.0, Orient2d(a, c, b), "CW triangle is negative")
	assert.Equal(t, 0.0, Orient2d(a, b, [2]float64{20, 0}), "collinear")
}

func TestIncircle(t *testing.T) {
	a := [2]float64{0, 0}
	b := [2]float64{10, 0}
	c := [2]float64{0, 10}

	assert.Greater(t, Incircle(a, b, c, [2]float64{5, 5}), 0.0)
	assert.Less(t, Incircle(a, b, c, [2]float64{20, 20}), 0.0)
	// (10, 10) is on the circle through the three corners of the square
	assert.Equal(t, 0.0, Incircle(a, b, c, [2]float64{10, 10}))
}

func TestImplementationsAgreeOnClearCases(t *testing.T) {
	impls := []Predicates{Fast{}, Adaptive{}, Exact{}}
	a := [2]float64{-3, -1}
	b := [2]float64{4, -2}
	c := [2]float64{1, 5}
	for _, impl := range impls {
		t.Run(fmt.Sprintf("%T", impl), func(t *testing.T) {
			assert.Greater(t, impl.Orient2d(a, b, c), 0.0)
			assert.Less(t, impl.Orient2d(b, a, c), 0.0)
			assert.Greater(t, impl.Incircle(a, b, c, [2]float64{0.5, 0.5}), 0.0)
			assert.Less(t, impl.Incircle(a, b, c, [2]float64{100, 100}), 0.0)
		})
	}
}

func TestAdaptiveMatchesExactNearDegeneracy(t *testing.T) {
	// Points on the line y = x, nudged by single ulps. The plain float
	// evaluation is unreliable here, the adaptive one must agree with the
	// rational evaluation.
	base := 0.5
	for i := 0; i < 64; i++ {
		for j := 0; j < 64; j++ {
			p := [2]float64{
				base + float64(i)*math.Pow(2, -53),
				base + float64(j)*math.Pow(2, -53),
			}
			q := [2]float64{12, 12}
			r := [2]float64{24, 24}
			exact := Orient2dExact(p, q, r)
			require.Equal(t, exact, sign(Adaptive{}.Orient2d(p, q, r)), "point %v", p)
		}
	}
}

func TestIncircleExactCocircular(t *testing.T) {
	// All four points lie on the unit circle scaled by 5
	a := [2]float64{5, 0}
	b := [2]float64{0, 5}
	c := [2]float64{-5, 0}
	d := [2]float64{3, -4}
	assert.Equal(t, 0.0, IncircleExact(a, b, c, d))
	assert.Equal(t, 0.0, sign(Adaptive{}.Incircle(a, b, c, d)))
}

func TestByName(t *testing.T) {
	for name, expected := range map[string]Predicates{
		"":         Fast{},
		"fast":     Fast{},
		"adaptive": Adaptive{},
		"exact":    Exact{},
	} {
		p, err := ByName(name)
		require.NoError(t, err)
		assert.IsType(t, expected, p)
	}

	_, err := ByName("quadruple")
	assert.EqualError(t, err, `unknown predicates "quadruple"`)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
