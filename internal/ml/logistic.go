package ml

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var ErrNotFitted = errors.New("模型尚未训练")

// TrainOptions 梯度下降超参数
type TrainOptions struct {
	LearningRate float64
	Iterations   int
}

// DefaultTrainOptions 默认超参数
// 训练集规模为几十到几千行，全量批梯度下降足够
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{LearningRate: 0.1, Iterations: 500}
}

// LogisticRegression 多项（softmax）逻辑回归分类器
// Classes 按字典序排列，Weights 的行序与之对应
type LogisticRegression struct {
	Classes []string
	Weights [][]float64 // len(Classes) × 特征数
	Bias    []float64   // len(Classes)
}

// Fit 以全量批梯度下降拟合模型
// X 为已标准化的特征矩阵，labels 为逐行类别标签
func (m *LogisticRegression) Fit(X [][]float64, labels []string, opts TrainOptions) error {
	if len(X) == 0 || len(X) != len(labels) {
		return fmt.Errorf("训练数据不合法: %d 行特征, %d 个标签", len(X), len(labels))
	}
	n := len(X)
	d := len(X[0])

	// 收集类别并固定顺序
	seen := make(map[string]int)
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = 0
		}
	}
	m.Classes = make([]string, 0, len(seen))
	for l := range seen {
		m.Classes = append(m.Classes, l)
	}
	sort.Strings(m.Classes)
	for i, c := range m.Classes {
		seen[c] = i
	}
	k := len(m.Classes)

	// 特征矩阵与 one-hot 标签矩阵
	xm := mat.NewDense(n, d, nil)
	ym := mat.NewDense(n, k, nil)
	for i, row := range X {
		if len(row) != d {
			return fmt.Errorf("第 %d 行特征维度不一致: %d != %d", i, len(row), d)
		}
		xm.SetRow(i, row)
		ym.Set(i, seen[labels[i]], 1)
	}

	w := mat.NewDense(k, d, nil)
	b := make([]float64, k)

	probs := mat.NewDense(n, k, nil)
	diff := mat.NewDense(n, k, nil)
	grad := mat.NewDense(k, d, nil)

	for iter := 0; iter < opts.Iterations; iter++ {
		// probs = softmax(X·Wᵀ + b)
		probs.Mul(xm, w.T())
		for i := 0; i < n; i++ {
			row := probs.RawRowView(i)
			floats.Add(row, b)
			softmaxInPlace(row)
		}

		// 梯度: (P - Y)ᵀ·X / n
		diff.Sub(probs, ym)
		grad.Mul(diff.T(), xm)
		grad.Scale(opts.LearningRate/float64(n), grad)
		w.Sub(w, grad)

		for j := 0; j < k; j++ {
			var sum float64
			for i := 0; i < n; i++ {
				sum += diff.At(i, j)
			}
			b[j] -= opts.LearningRate * sum / float64(n)
		}
	}

	m.Weights = make([][]float64, k)
	for j := 0; j < k; j++ {
		m.Weights[j] = append([]float64(nil), w.RawRowView(j)...)
	}
	m.Bias = b
	return nil
}

// PredictProba 返回与 Classes 对齐的类别概率分布
func (m *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	if len(m.Classes) == 0 {
		return nil, ErrNotFitted
	}
	scores := make([]float64, len(m.Classes))
	for j, w := range m.Weights {
		if len(w) != len(x) {
			return nil, fmt.Errorf("特征维度不匹配: 期望 %d, 实际 %d", len(w), len(x))
		}
		scores[j] = floats.Dot(w, x) + m.Bias[j]
	}
	softmaxInPlace(scores)
	return scores, nil
}

// Predict 返回概率最大的类别及完整概率分布
func (m *LogisticRegression) Predict(x []float64) (string, []float64, error) {
	probs, err := m.PredictProba(x)
	if err != nil {
		return "", nil, err
	}
	best := 0
	for j := range probs {
		if probs[j] > probs[best] {
			best = j
		}
	}
	return m.Classes[best], probs, nil
}

// ClassProb 按类别名取概率；类别不存在返回 0
func (m *LogisticRegression) ClassProb(probs []float64, class string) float64 {
	for j, c := range m.Classes {
		if c == class {
			return probs[j]
		}
	}
	return 0
}

// softmaxInPlace 数值稳定的 softmax（先减最大值再指数化）
func softmaxInPlace(v []float64) {
	max := floats.Max(v)
	var sum float64
	for i, x := range v {
		v[i] = math.Exp(x - max)
		sum += v[i]
	}
	floats.Scale(1/sum, v)
}
