package repository

import (
	"context"

	"gorm.io/gorm"

	"edu-radar/backend/internal/dto"
	"edu-radar/backend/internal/model"
)

// ScoreRepository 测验成绩数据访问接口
type ScoreRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]model.TestScore, error)
	// Trends 返回按 test_number 升序的成绩序列
	Trends(ctx context.Context, studentID string) ([]dto.TrendPoint, error)
	// SubjectAverages 返回每个科目的均分；空表返回空切片而非错误
	SubjectAverages(ctx context.Context) ([]dto.SubjectScore, error)
}

// scoreRepo ScoreRepository 的 GORM 实现
type scoreRepo struct {
	db *gorm.DB
}

// NewScoreRepo 创建 ScoreRepository 实例
func NewScoreRepo(db *gorm.DB) ScoreRepository {
	return &scoreRepo{db: db}
}

func (r *scoreRepo) ListByStudent(ctx context.Context, studentID string) ([]model.TestScore, error) {
	var scores []model.TestScore
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("test_number ASC").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *scoreRepo) Trends(ctx context.Context, studentID string) ([]dto.TrendPoint, error) {
	var points []dto.TrendPoint
	// 参数化查询；student_id 中的特殊字符不会进入 SQL 文本
	err := r.db.WithContext(ctx).
		Model(&model.TestScore{}).
		Select("test_number, test_score").
		Where("student_id = ?", studentID).
		Order("test_number ASC").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (r *scoreRepo) SubjectAverages(ctx context.Context) ([]dto.SubjectScore, error) {
	points := make([]dto.SubjectScore, 0)
	err := r.db.WithContext(ctx).
		Model(&model.TestScore{}).
		Select("subject, AVG(test_score) AS avg_test_score").
		Group("subject").
		Order("subject ASC").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}
