package repository

import (
	"context"

	"gorm.io/gorm"

	"edu-radar/backend/internal/model"
)

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	// ListJoined 返回聚合视图：每个学生一行，附测验均分（无成绩记录时为 0）
	ListJoined(ctx context.Context) ([]model.StudentAggregate, error)
	// GetJoined 返回单个学生的聚合视图
	GetJoined(ctx context.Context, studentID string) (*model.StudentAggregate, error)
	// ExistingIDs 返回库中已有的全部 student_id
	ExistingIDs(ctx context.Context) (map[string]bool, error)
	// BatchCreate 在单个事务内写入学生与成绩记录
	BatchCreate(ctx context.Context, students []model.Student, scores []model.TestScore) error
	// UpdateFields 按列部分更新；零行命中返回 gorm.ErrRecordNotFound
	UpdateFields(ctx context.Context, studentID string, updates map[string]interface{}) error
	// DeleteCascade 在单个事务内先删成绩后删学生；学生不存在返回 gorm.ErrRecordNotFound
	DeleteCascade(ctx context.Context, studentID string) error
}

// studentRepo StudentRepository 的 GORM 实现
type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

// joinedQuery 聚合视图的基础查询
// LEFT JOIN 保证没有成绩记录的学生也出现，COALESCE 把缺失均分补零
const joinedQuery = `
SELECT s.*, COALESCE(AVG(t.test_score), 0) AS avg_test_score
FROM students s
LEFT JOIN test_scores t ON t.student_id = s.student_id
GROUP BY s.student_id`

func (r *studentRepo) ListJoined(ctx context.Context) ([]model.StudentAggregate, error) {
	var rows []model.StudentAggregate
	err := r.db.WithContext(ctx).
		Raw(joinedQuery + ` ORDER BY s.student_id`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *studentRepo) GetJoined(ctx context.Context, studentID string) (*model.StudentAggregate, error) {
	var row model.StudentAggregate
	err := r.db.WithContext(ctx).
		Raw(`
SELECT s.*, COALESCE(AVG(t.test_score), 0) AS avg_test_score
FROM students s
LEFT JOIN test_scores t ON t.student_id = s.student_id
WHERE s.student_id = ?
GROUP BY s.student_id`, studentID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.StudentID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *studentRepo) ExistingIDs(ctx context.Context) (map[string]bool, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(ids))
	for _, id := range ids {
		existing[id] = true
	}
	return existing, nil
}

func (r *studentRepo) BatchCreate(ctx context.Context, students []model.Student, scores []model.TestScore) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(students) > 0 {
			if err := tx.Create(&students).Error; err != nil {
				return err
			}
		}
		if len(scores) > 0 {
			if err := tx.Create(&scores).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *studentRepo) UpdateFields(ctx context.Context, studentID string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("student_id = ?", studentID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepo) DeleteCascade(ctx context.Context, studentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先删子表，后删主表；任一失败整体回滚，不会留下孤儿成绩
		if err := tx.Where("student_id = ?", studentID).
			Delete(&model.TestScore{}).Error; err != nil {
			return err
		}
		result := tx.Where("student_id = ?", studentID).Delete(&model.Student{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
