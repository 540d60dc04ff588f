// pkg/engine/stats.go
package engine

import (
	"math"
	"sort"
)

// clamp01 截断到 [0,1]
func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// pct 安全除法，分母非正返回0
func pct(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	return 0
}

// median 中位数，空切片返回0
func median(arr []float64) float64 {
	if len(arr) == 0 {
		return 0
	}
	a := make([]float64, len(arr))
	copy(a, arr)
	sort.Float64s(a)
	i := len(a) / 2
	if len(a)%2 == 1 {
		return a[i]
	}
	return (a[i-1] + a[i]) / 2
}

// mad 中位数绝对偏差，抗离群值的离散度量
func mad(arr []float64, med float64) float64 {
	if len(arr) == 0 {
		return 0
	}
	d := make([]float64, len(arr))
	for i, x := range arr {
		d[i] = math.Abs(x - med)
	}
	return median(d)
}

// mean 算术平均，空切片返回0
func mean(arr []float64) float64 {
	if len(arr) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range arr {
		sum += x
	}
	return sum / float64(len(arr))
}

// stddev 总体标准差
func stddev(arr []float64) float64 {
	if len(arr) == 0 {
		return 0
	}
	m := mean(arr)
	sum := 0.0
	for _, x := range arr {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(arr)))
}
