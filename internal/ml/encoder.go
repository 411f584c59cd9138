package ml

import "sort"

// OneHotEncoder 类别特征独热编码器
// Fit 时收集去重后按字典序排列的类别表；Transform 对未见类别输出全零指示列
// （ignore-unknown 策略），推理阶段不会因新类别报错
type OneHotEncoder struct {
	Categories []string
}

// Fit 从训练值集合建立类别表
func (e *OneHotEncoder) Fit(values []string) {
	seen := make(map[string]bool, len(values))
	e.Categories = e.Categories[:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			e.Categories = append(e.Categories, v)
		}
	}
	sort.Strings(e.Categories)
}

// Transform 将单个取值编码为指示向量
// 未知类别返回全零行，长度恒等于 len(Categories)
func (e *OneHotEncoder) Transform(value string) []float64 {
	row := make([]float64, len(e.Categories))
	for i, c := range e.Categories {
		if c == value {
			row[i] = 1
			break
		}
	}
	return row
}

// FeatureNames 返回编码后各指示列的列名，如 fee_status_Paid
func (e *OneHotEncoder) FeatureNames(prefix string) []string {
	names := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		names[i] = prefix + "_" + c
	}
	return names
}
