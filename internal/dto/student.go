package dto

import "edu-radar/backend/internal/model"

// ── 学生模块 DTO ──

// ScoredStudent 聚合视图 + 模型评分结果
type ScoredStudent struct {
	model.StudentAggregate
	RiskLevel    string  `json:"risk_level"`
	HighRiskProb float64 `json:"high_risk_prob"`
}

// StudentDetailResponse 学生详情（评分 + 辅导建议 + 成绩明细）
type StudentDetailResponse struct {
	Info   StudentInsight    `json:"info"`
	Scores []model.TestScore `json:"scores"`
}

// StudentInsight 评分结果附加辅导洞察
type StudentInsight struct {
	ScoredStudent
	Reasons []string `json:"reasons"`
	Advice  string   `json:"advice"`
}

// TrendPoint 单次测验的趋势点（按 test_number 排序）
type TrendPoint struct {
	TestNumber int     `json:"test_number"`
	TestScore  float64 `json:"test_score"`
}

// SubjectScore 科目均分
type SubjectScore struct {
	Subject      string  `json:"subject"`
	AvgTestScore float64 `json:"avg_test_score"`
}

// UploadResponse CSV 批量导入响应
type UploadResponse struct {
	Message string `json:"message"`
	Added   int    `json:"added"`
}

// UpdateStudentRequest 学生字段部分更新请求
// updates 的键必须命中服务层白名单，否则整个请求被拒绝
type UpdateStudentRequest struct {
	StudentID string                 `json:"student_id" binding:"required"`
	Updates   map[string]interface{} `json:"updates"    binding:"required"`
}
