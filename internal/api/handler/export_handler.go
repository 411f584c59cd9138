package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"edu-radar/backend/internal/service"
	"edu-radar/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportStudents 导出评分后的学生名单为 Excel
// GET /api/export/students
func (h *ExportHandler) ExportStudents(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportStudents(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrExportNoStudents) {
			response.NotFound(c, "No data found.")
			return
		}
		response.InternalError(c, "Error exporting students")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
