package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"edu-radar/backend/internal/dto"
	"edu-radar/backend/internal/service"
	"edu-radar/backend/pkg/response"
)

// StudentHandler 学生模块 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// List 学生列表（含评分、可过滤）
// GET /api/students?search=&filter=
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.studentSvc.ListScored(
		c.Request.Context(),
		c.Query("search"),
		c.Query("filter"),
	)
	if err != nil {
		if errors.Is(err, service.ErrNoStudents) {
			response.NotFound(c, "No data found.")
			return
		}
		if errors.Is(err, service.ErrModelUnavailable) {
			response.InternalError(c, service.ErrModelUnavailable.Error())
			return
		}
		response.InternalError(c, "Error fetching students")
		return
	}

	response.OK(c, students)
}

// Get 学生详情（评分 + 辅导洞察 + 成绩明细）
// GET /api/student/:id
func (h *StudentHandler) Get(c *gin.Context) {
	h.detail(c, c.Param("id"))
}

// Me 学生自助查询（按登录用户名）
// GET /api/student/me?username=
func (h *StudentHandler) Me(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.BadRequest(c, "Username required as query param.")
		return
	}
	h.detail(c, username)
}

func (h *StudentHandler) detail(c *gin.Context, studentID string) {
	result, err := h.studentSvc.Detail(c.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, "Student not found.")
			return
		}
		if errors.Is(err, service.ErrModelUnavailable) {
			response.InternalError(c, service.ErrModelUnavailable.Error())
			return
		}
		response.InternalError(c, "Error fetching student")
		return
	}

	response.OK(c, result)
}

// Trends 学生成绩趋势（按测验序号排序）
// GET /api/student/trends/:id
func (h *StudentHandler) Trends(c *gin.Context) {
	points, err := h.studentSvc.Trends(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNoTrendData) {
			response.NotFound(c, "No trend data available.")
			return
		}
		response.InternalError(c, "Error fetching trends")
		return
	}

	response.OK(c, points)
}

// SubjectScores 科目均分
// GET /api/subjects/scores
func (h *StudentHandler) SubjectScores(c *gin.Context) {
	scores, err := h.studentSvc.SubjectAverages(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Error fetching subject scores")
		return
	}

	response.OK(c, scores)
}

// Upload CSV 批量导入
// POST /api/upload  (multipart/form-data, 字段名 file)
func (h *StudentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "No file part")
		return
	}
	if fileHeader.Filename == "" {
		response.BadRequest(c, "No file selected")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "No file selected")
		return
	}
	defer file.Close()

	result, err := h.studentSvc.Upload(c.Request.Context(), file)
	if err != nil {
		if errors.Is(err, service.ErrMissingColumns) {
			response.BadRequest(c, "Missing required columns")
			return
		}
		if errors.Is(err, service.ErrBadCSV) {
			response.BadRequest(c, "Error processing file")
			return
		}
		response.InternalError(c, "Error processing file")
		return
	}

	response.OK(c, result)
}

// Update 学生字段部分更新
// POST /api/student/update
func (h *StudentHandler) Update(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Student ID and updates are required.")
		return
	}

	if err := h.studentSvc.Update(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, fmt.Sprintf("Student %s not found.", req.StudentID))
		case errors.Is(err, service.ErrFieldNotAllowed), errors.Is(err, service.ErrNoUpdates):
			response.BadRequest(c, "Invalid update fields.")
		default:
			response.InternalError(c, "Error updating student")
		}
		return
	}

	response.OKMessage(c, fmt.Sprintf("Student %s updated successfully.", req.StudentID))
}

// Delete 级联删除学生及其成绩记录
// DELETE /api/student/delete/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	studentID := c.Param("id")

	if err := h.studentSvc.Delete(c.Request.Context(), studentID); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, fmt.Sprintf("Student %s not found.", studentID))
			return
		}
		response.InternalError(c, "Error deleting student")
		return
	}

	response.OKMessage(c, fmt.Sprintf("Student %s and their records deleted successfully.", studentID))
}
