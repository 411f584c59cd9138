package ml

import "strings"

// 风险标签
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// 训练标签推导阈值
// 注意：辅导洞察（service 层）使用另一组独立阈值，两者历史上就不一致，
// 保持各自命名、互不合并
const (
	labelHighAttendanceBelow   = 70.0
	labelHighScoreBelow        = 50.0
	labelMediumAttendanceBelow = 80.0
	labelMediumScoreBelow      = 60.0
)

// FeeOverdue 欠费状态取值
const FeeOverdue = "Overdue"

// DeriveRiskLabel 在缺少真实标签时按固定规则推导训练标签
// 这是一条启发式规则，不是准确分类器；仅作为无标注数据的唯一标签来源
func DeriveRiskLabel(attendance, avgScore float64, feeStatus string) string {
	switch {
	case attendance < labelHighAttendanceBelow && avgScore < labelHighScoreBelow:
		return RiskHigh
	case attendance < labelMediumAttendanceBelow ||
		avgScore < labelMediumScoreBelow ||
		strings.EqualFold(feeStatus, FeeOverdue):
		return RiskMedium
	default:
		return RiskLow
	}
}

// LabelSamples 为整批样本推导标签
func LabelSamples(samples []Sample) []LabeledSample {
	out := make([]LabeledSample, len(samples))
	for i, s := range samples {
		out[i] = LabeledSample{Sample: s, Label: DeriveRiskLabel(s.Attendance, s.AvgScore, s.FeeStatus)}
	}
	return out
}

// BootstrapSamples 内置的 10 行示例训练集
// 库为空时兜底使用，保证系统永远有可用模型
func BootstrapSamples() []LabeledSample {
	return []LabeledSample{
		{Sample{82, 81.5, "Paid"}, RiskLow},
		{Sample{65, 37.5, "Overdue"}, RiskHigh},
		{Sample{90, 90.0, "Paid"}, RiskLow},
		{Sample{72, 50.0, "Overdue"}, RiskMedium},
		{Sample{55, 32.0, "Overdue"}, RiskHigh},
		{Sample{95, 88.0, "Paid"}, RiskLow},
		{Sample{68, 55.0, "Overdue"}, RiskHigh},
		{Sample{85, 75.0, "Paid"}, RiskLow},
		{Sample{78, 60.0, "Paid"}, RiskMedium},
		{Sample{62, 45.0, "Overdue"}, RiskHigh},
	}
}
