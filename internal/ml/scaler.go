package ml

import "math"

// StandardScaler 逐列标准化（减均值、除标准差）
// 参数在训练集上拟合一次后冻结，推理阶段复用，绝不按请求重新拟合
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// Fit 在训练矩阵上计算每列的均值与总体标准差
// 标准差为零的列（常量列）按 1 处理，避免除零
func (s *StandardScaler) Fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	n := float64(len(X))
	d := len(X[0])

	s.Mean = make([]float64, d)
	s.Std = make([]float64, d)

	for _, row := range X {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, row := range X {
		for j, v := range row {
			diff := v - s.Mean[j]
			s.Std[j] += diff * diff
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
}

// Transform 用冻结参数标准化单个特征向量
func (s *StandardScaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}
