package service

import (
	"fmt"
	"strings"
)

// 辅导洞察阈值
// 与训练标签推导阈值（internal/ml）历史上就不一致，两套常量各自维护，不做统一
const (
	insightAttendanceBelow = 75.0
	insightScoreBelow      = 50.0
	insightFeeOverdue      = "overdue"
)

// CounselingInsights 由原始（未缩放）特征生成人类可读的原因与建议
// 纯函数，与分类器判定相互独立
// 建议文本的拼接规则沿用既有行为：仅低出勤会覆盖默认文案，其余条目追加
func CounselingInsights(attendance, avgScore float64, feeStatus string) ([]string, string) {
	reasons := []string{}
	advice := "No specific advice. The student's data looks good."

	if attendance < insightAttendanceBelow {
		reasons = append(reasons, fmt.Sprintf("Low attendance (%g%%).", attendance))
		advice = "Encourage regular class attendance. "
	}

	if avgScore < insightScoreBelow {
		reasons = append(reasons, fmt.Sprintf("Low average test score (%g).", avgScore))
		advice += "Suggest tutoring or extra practice. "
	}

	if strings.ToLower(feeStatus) == insightFeeOverdue {
		reasons = append(reasons, "Overdue fee status.")
		advice += "Consider financial counseling."
	}

	return reasons, advice
}
