package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalCDF(t *testing.T) {
	assert.InDelta(t, 0.5, normalCDF(0), 1e-12)
	assert.InDelta(t, 0.9750021, normalCDF(1.959964), 1e-6)
	assert.InDelta(t, 0.1586553, normalCDF(-1), 1e-6)
}

func TestMeanStdDev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	m := mean(xs)
	assert.InDelta(t, 5.0, m, 1e-12)
	assert.InDelta(t, 2.0, stdDev(xs, m), 1e-12)

	assert.Zero(t, mean(nil))
	assert.Zero(t, stdDev(nil, 0))
}

func TestTwoProportionPValue(t *testing.T) {
	t.Run("success - degenerate inputs yield no evidence", func(t *testing.T) {
		assert.Equal(t, 1.0, TwoProportionPValue(0, 0, 450, 1000), "empty baseline")
		assert.Equal(t, 1.0, TwoProportionPValue(850, 1000, 0, 0), "empty current")
		assert.Equal(t, 1.0, TwoProportionPValue(1000, 1000, 500, 500), "pooled rate of one")
		assert.Equal(t, 1.0, TwoProportionPValue(0, 1000, 0, 500), "pooled rate of zero")
	})

	t.Run("success - equal proportions", func(t *testing.T) {
		assert.InDelta(t, 1.0, TwoProportionPValue(500, 1000, 500, 1000), 1e-12)
	})

	t.Run("success - large drop is significant", func(t *testing.T) {
		p := TwoProportionPValue(850, 1000, 450, 1000)
		assert.Less(t, p, 1e-9)
	})

	t.Run("success - small sample is not", func(t *testing.T) {
		p := TwoProportionPValue(9, 10, 7, 10)
		assert.Greater(t, p, 0.05)
	})

	t.Run("success - symmetric in direction", func(t *testing.T) {
		down := TwoProportionPValue(850, 1000, 450, 1000)
		up := TwoProportionPValue(450, 1000, 850, 1000)
		assert.InDelta(t, down, up, 1e-12)
	})
}
