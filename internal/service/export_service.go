package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var ErrExportNoStudents = errors.New("暂无可导出的学生数据")

// ExportService 导出业务接口
//
// 设计说明：
//   - 将全体学生的评分结果导出为 Excel (.xlsx)，供线下辅导会议使用
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportStudents 导出评分后的学生名单
	// 返回值：buf（Excel 内容）, filename（建议文件名）, error
	ExportStudents(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	students StudentService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(students StudentService, logger *zap.Logger) ExportService {
	return &exportService{students: students, logger: logger}
}

func (s *exportService) ExportStudents(ctx context.Context) (*bytes.Buffer, string, error) {
	// 1. 查询并评分
	scored, err := s.students.ListScored(ctx, "", "")
	if err != nil {
		if errors.Is(err, ErrNoStudents) {
			return nil, "", ErrExportNoStudents
		}
		return nil, "", err
	}

	// 2. 生成工作簿
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Students"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Student ID", "Attendance %", "Avg Test Score", "Fee Status", "Risk Level", "High Risk Prob"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, st := range scored {
		values := []interface{}{
			st.StudentID,
			st.AttendancePercentage,
			st.AvgTestScore,
			st.FeeStatus,
			st.RiskLevel,
			st.HighRiskProb,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 文件失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("students_risk_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}
