package ml

// Sample 单个学生的原始特征（未缩放）
type Sample struct {
	Attendance float64
	AvgScore   float64
	FeeStatus  string
}

// LabeledSample 带风险标签的训练样本
type LabeledSample struct {
	Sample
	Label string
}

// Pipeline 特征流水线：独热编码 + 标准化
// Features 为训练时确定的列顺序，推理阶段逐字复用
type Pipeline struct {
	Encoder  OneHotEncoder
	Scaler   StandardScaler
	Features []string
}

// Fit 在训练样本上拟合编码器与缩放器，并冻结特征列顺序
func (p *Pipeline) Fit(samples []Sample) {
	fees := make([]string, len(samples))
	for i, s := range samples {
		fees[i] = s.FeeStatus
	}
	p.Encoder.Fit(fees)

	p.Features = append([]string{"attendance_percentage", "avg_test_score"},
		p.Encoder.FeatureNames("fee_status")...)

	raw := make([][]float64, len(samples))
	for i, s := range samples {
		raw[i] = p.assemble(s)
	}
	p.Scaler.Fit(raw)
}

// Transform 将单个样本转换为缩放后的定序特征向量
func (p *Pipeline) Transform(s Sample) []float64 {
	return p.Scaler.Transform(p.assemble(s))
}

// TransformAll 批量转换
func (p *Pipeline) TransformAll(samples []Sample) [][]float64 {
	out := make([][]float64, len(samples))
	for i, s := range samples {
		out[i] = p.Transform(s)
	}
	return out
}

// assemble 组装未缩放向量: [attendance, avg_score, one-hot(fee_status)...]
func (p *Pipeline) assemble(s Sample) []float64 {
	row := make([]float64, 0, len(p.Features))
	row = append(row, s.Attendance, s.AvgScore)
	row = append(row, p.Encoder.Transform(s.FeeStatus)...)
	return row
}
