package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"edu-radar/backend/internal/dto"
	"edu-radar/backend/internal/model"
)

var (
	ErrBadCSV         = errors.New("无法解析 CSV 文件")
	ErrMissingColumns = errors.New("Missing required columns")
)

// 两条导入血统的列集合
// 最小模式逐行携带单次成绩；扩展模式在 test_scores 列内嵌 JSON 成绩数组
var (
	minimalColumns  = []string{"student_id", "attendance_percentage", "fee_status", "subject", "test_score", "test_number"}
	extendedColumns = []string{"student_id", "attendance_percentage", "fee_status", "test_scores"}
)

// testEntry 扩展模式 test_scores 列中的单条成绩
type testEntry struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

// Upload 解析上传的 CSV 并批量入库
// 已存在的 student_id 静默跳过；返回实际新增的学生数
func (s *studentService) Upload(ctx context.Context, file io.Reader) (*dto.UploadResponse, error) {
	r := csv.NewReader(file)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, ErrBadCSV
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	extended := false
	if !hasColumns(col, minimalColumns) {
		if !hasColumns(col, extendedColumns) {
			return nil, ErrMissingColumns
		}
		extended = true
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, ErrBadCSV
	}

	existing, err := s.repo.Student.ExistingIDs(ctx)
	if err != nil {
		s.logger.Error("查询已有学生失败", zap.Error(err))
		return nil, err
	}

	var (
		students []model.Student
		scores   []model.TestScore
		inBatch  = make(map[string]bool)
	)

	for i, rec := range records {
		id := strings.TrimSpace(rec[col["student_id"]])
		if id == "" || existing[id] {
			continue
		}

		attendance, err := strconv.ParseFloat(strings.TrimSpace(rec[col["attendance_percentage"]]), 64)
		if err != nil {
			// 脏行降级：跳过该行，不拖垮整批
			s.logger.Warn("CSV 行出勤率不合法，跳过",
				zap.Int("row", i+2), zap.String("student_id", id))
			continue
		}
		feeStatus := strings.TrimSpace(rec[col["fee_status"]])

		if !inBatch[id] {
			inBatch[id] = true
			stu := model.Student{
				StudentID:            id,
				AttendancePercentage: attendance,
				FeeStatus:            feeStatus,
			}
			if extended {
				s.fillExtended(&stu, col, rec)
			}
			students = append(students, stu)
		}

		if extended {
			entries, ok := parseTestEntries(rec[col["test_scores"]])
			if !ok {
				s.logger.Warn("CSV 行成绩 JSON 不合法，忽略其成绩",
					zap.Int("row", i+2), zap.String("student_id", id))
				continue
			}
			for n, e := range entries {
				scores = append(scores, model.TestScore{
					StudentID:  id,
					Subject:    e.Subject,
					TestScore:  e.Score,
					TestNumber: n + 1,
				})
			}
		} else {
			score, errScore := strconv.ParseFloat(strings.TrimSpace(rec[col["test_score"]]), 64)
			num, errNum := strconv.Atoi(strings.TrimSpace(rec[col["test_number"]]))
			if errScore != nil || errNum != nil {
				s.logger.Warn("CSV 行成绩不合法，忽略其成绩",
					zap.Int("row", i+2), zap.String("student_id", id))
				continue
			}
			scores = append(scores, model.TestScore{
				StudentID:  id,
				Subject:    strings.TrimSpace(rec[col["subject"]]),
				TestScore:  score,
				TestNumber: num,
			})
		}
	}

	if len(students) == 0 {
		return &dto.UploadResponse{Message: "No new student data to upload.", Added: 0}, nil
	}

	if err := s.repo.Student.BatchCreate(ctx, students, scores); err != nil {
		s.logger.Error("批量写入学生失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("CSV 导入完成",
		zap.Int("students", len(students)),
		zap.Int("scores", len(scores)),
		zap.Bool("extended", extended),
	)
	return &dto.UploadResponse{
		Message: fmt.Sprintf("Uploaded %d new student(s).", len(students)),
		Added:   len(students),
	}, nil
}

// fillExtended 解析扩展模式的可选列（缺列或空值一律置空，不报错）
func (s *studentService) fillExtended(stu *model.Student, col map[string]int, rec []string) {
	stu.Name = strPtr(col, rec, "name")
	stu.PRN = strPtr(col, rec, "prn")
	stu.Sem1Att = floatPtr(col, rec, "sem1_att")
	stu.Sem2Att = floatPtr(col, rec, "sem2_att")
	stu.Sem3Att = floatPtr(col, rec, "sem3_att")
	stu.Sem4Att = floatPtr(col, rec, "sem4_att")
	stu.Sem5Att = floatPtr(col, rec, "sem5_att")
	stu.Sem6Att = floatPtr(col, rec, "sem6_att")
	stu.Sem1CGPA = floatPtr(col, rec, "sem1_cgpa")
	stu.Sem2CGPA = floatPtr(col, rec, "sem2_cgpa")
	stu.Sem3CGPA = floatPtr(col, rec, "sem3_cgpa")
	stu.Sem4CGPA = floatPtr(col, rec, "sem4_cgpa")
	stu.Sem5CGPA = floatPtr(col, rec, "sem5_cgpa")
	stu.Sem6CGPA = floatPtr(col, rec, "sem6_cgpa")
	stu.Credits = floatPtr(col, rec, "credits")
	stu.Wellbeing = floatPtr(col, rec, "wellbeing")
}

func hasColumns(col map[string]int, required []string) bool {
	for _, c := range required {
		if _, ok := col[c]; !ok {
			return false
		}
	}
	return true
}

func parseTestEntries(raw string) ([]testEntry, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	var entries []testEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func strPtr(col map[string]int, rec []string, name string) *string {
	idx, ok := col[name]
	if !ok || idx >= len(rec) {
		return nil
	}
	v := strings.TrimSpace(rec[idx])
	if v == "" {
		return nil
	}
	return &v
}

func floatPtr(col map[string]int, rec []string, name string) *float64 {
	idx, ok := col[name]
	if !ok || idx >= len(rec) {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
	if err != nil {
		return nil
	}
	return &f
}
