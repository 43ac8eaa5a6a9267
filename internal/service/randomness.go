package service

import (
	"math/rand/v2"
)

// newRand 由种子创建确定性随机源
func newRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// uniform [lo, hi)
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randInt [lo, hi] 闭区间
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

func choice(rng *rand.Rand, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rng.IntN(len(items))]
}

// weightedChoice 按权重抽取，权重无需归一
func weightedChoice(rng *rand.Rand, items []string, weights []float64) string {
	if len(items) == 0 {
		return ""
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	x := rng.Float64() * total
	acc := 0.0
	for i, item := range items {
		if i < len(weights) {
			acc += weights[i]
		}
		if x < acc {
			return item
		}
	}
	return items[len(items)-1]
}

// betaInt 整数形状参数的 Beta(a, b) 采样：Gamma(a) / (Gamma(a) + Gamma(b))
func betaInt(rng *rand.Rand, a, b int) float64 {
	x := gammaInt(rng, a)
	y := gammaInt(rng, b)
	if x+y == 0 {
		return 0
	}
	return x / (x + y)
}

// gammaInt 整数形状 Gamma(k, 1)：k 个指数分布之和
func gammaInt(rng *rand.Rand, k int) float64 {
	sum := 0.0
	for i := 0; i < k; i++ {
		sum += rng.ExpFloat64()
	}
	return sum
}
