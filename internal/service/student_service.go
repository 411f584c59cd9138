package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"edu-radar/backend/internal/dto"
	"edu-radar/backend/internal/repository"
)

var (
	ErrNoStudents      = errors.New("No data found.")
	ErrStudentNotFound = errors.New("Student not found.")
	ErrNoTrendData     = errors.New("No trend data available.")
	ErrFieldNotAllowed = errors.New("存在不允许更新的字段")
	ErrNoUpdates       = errors.New("更新内容为空")
)

// updatableColumns 学生部分更新的列白名单
// 请求里的键必须逐一命中这里，否则整个请求被拒，杜绝拼接任意列名
var updatableColumns = map[string]bool{
	"attendance_percentage": true,
	"fee_status":            true,
	"name":                  true,
	"prn":                   true,
	"credits":               true,
	"wellbeing":             true,
}

// StudentService 学生查询与维护业务接口
type StudentService interface {
	// ListScored 返回全体学生的评分结果
	// search 为 student_id 的大小写不敏感子串过滤；riskFilter 为风险标签精确过滤
	ListScored(ctx context.Context, search, riskFilter string) ([]dto.ScoredStudent, error)
	// Detail 返回单个学生的评分、辅导洞察与成绩明细
	Detail(ctx context.Context, studentID string) (*dto.StudentDetailResponse, error)
	Trends(ctx context.Context, studentID string) ([]dto.TrendPoint, error)
	SubjectAverages(ctx context.Context) ([]dto.SubjectScore, error)
	Upload(ctx context.Context, file io.Reader) (*dto.UploadResponse, error)
	Update(ctx context.Context, req *dto.UpdateStudentRequest) error
	Delete(ctx context.Context, studentID string) error
}

type studentService struct {
	repo   *repository.Repository
	scorer RiskScorer
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, scorer RiskScorer, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, scorer: scorer, logger: logger}
}

func (s *studentService) ListScored(ctx context.Context, search, riskFilter string) ([]dto.ScoredStudent, error) {
	rows, err := s.repo.Student.ListJoined(ctx)
	if err != nil {
		s.logger.Error("查询学生聚合视图失败", zap.Error(err))
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoStudents
	}

	if s.scorer == nil {
		return nil, ErrModelUnavailable
	}
	scored := s.scorer.ScoreAll(rows)

	search = strings.ToLower(strings.TrimSpace(search))
	riskFilter = strings.ToLower(strings.TrimSpace(riskFilter))

	filtered := make([]dto.ScoredStudent, 0, len(scored))
	for _, st := range scored {
		if search != "" && !strings.Contains(strings.ToLower(st.StudentID), search) {
			continue
		}
		if riskFilter != "" && riskFilter != "all" &&
			strings.ToLower(st.RiskLevel) != riskFilter {
			continue
		}
		filtered = append(filtered, st)
	}
	return filtered, nil
}

func (s *studentService) Detail(ctx context.Context, studentID string) (*dto.StudentDetailResponse, error) {
	row, err := s.repo.Student.GetJoined(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}

	if s.scorer == nil {
		return nil, ErrModelUnavailable
	}
	scored, err := s.scorer.ScoreOne(row)
	if err != nil {
		return nil, err
	}

	reasons, advice := CounselingInsights(row.AttendancePercentage, row.AvgTestScore, row.FeeStatus)

	scores, err := s.repo.Score.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生成绩失败", zap.Error(err))
		return nil, err
	}

	return &dto.StudentDetailResponse{
		Info: dto.StudentInsight{
			ScoredStudent: *scored,
			Reasons:       reasons,
			Advice:        advice,
		},
		Scores: scores,
	}, nil
}

func (s *studentService) Trends(ctx context.Context, studentID string) ([]dto.TrendPoint, error) {
	points, err := s.repo.Score.Trends(ctx, studentID)
	if err != nil {
		s.logger.Error("查询成绩趋势失败", zap.Error(err))
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrNoTrendData
	}
	return points, nil
}

func (s *studentService) SubjectAverages(ctx context.Context) ([]dto.SubjectScore, error) {
	// 空结果是合法状态（尚无任何成绩），直接返回空列表
	return s.repo.Score.SubjectAverages(ctx)
}

func (s *studentService) Update(ctx context.Context, req *dto.UpdateStudentRequest) error {
	if len(req.Updates) == 0 {
		return ErrNoUpdates
	}
	for col := range req.Updates {
		if !updatableColumns[col] {
			return ErrFieldNotAllowed
		}
	}

	if err := s.repo.Student.UpdateFields(ctx, req.StudentID, req.Updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("更新学生失败", zap.Error(err))
		return err
	}
	s.logger.Info("学生信息已更新", zap.String("student_id", req.StudentID))
	return nil
}

func (s *studentService) Delete(ctx context.Context, studentID string) error {
	if err := s.repo.Student.DeleteCascade(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("删除学生失败", zap.Error(err))
		return err
	}
	s.logger.Info("学生及其成绩记录已删除", zap.String("student_id", studentID))
	return nil
}
