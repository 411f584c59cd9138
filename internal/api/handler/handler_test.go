package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"edu-radar/backend/internal/dto"
	"edu-radar/backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mock Services ──

type mockAuthService struct {
	loginResp   *dto.LoginResponse
	loginErr    error
	registerErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.LoginResponse, error) {
	return m.loginResp, m.loginErr
}

func (m *mockAuthService) StudentLogin(_ context.Context, _ *dto.LoginRequest) (*dto.LoginResponse, error) {
	return m.loginResp, m.loginErr
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) error {
	return m.registerErr
}

type mockStudentService struct {
	listResp   []dto.ScoredStudent
	listErr    error
	detailResp *dto.StudentDetailResponse
	detailErr  error
	trendsResp []dto.TrendPoint
	trendsErr  error
	uploadResp *dto.UploadResponse
	uploadErr  error
	updateErr  error
	deleteErr  error

	lastDetailID string
	lastUpdate   *dto.UpdateStudentRequest
}

func (m *mockStudentService) ListScored(_ context.Context, _, _ string) ([]dto.ScoredStudent, error) {
	return m.listResp, m.listErr
}

func (m *mockStudentService) Detail(_ context.Context, studentID string) (*dto.StudentDetailResponse, error) {
	m.lastDetailID = studentID
	return m.detailResp, m.detailErr
}

func (m *mockStudentService) Trends(_ context.Context, _ string) ([]dto.TrendPoint, error) {
	return m.trendsResp, m.trendsErr
}

func (m *mockStudentService) SubjectAverages(_ context.Context) ([]dto.SubjectScore, error) {
	return []dto.SubjectScore{}, nil
}

func (m *mockStudentService) Upload(_ context.Context, _ io.Reader) (*dto.UploadResponse, error) {
	return m.uploadResp, m.uploadErr
}

func (m *mockStudentService) Update(_ context.Context, req *dto.UpdateStudentRequest) error {
	m.lastUpdate = req
	return m.updateErr
}

func (m *mockStudentService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

type mockUserService struct {
	listResp      []dto.UserResponse
	deleteErr     error
	updateRoleErr error
}

func (m *mockUserService) List(_ context.Context) ([]dto.UserResponse, error) {
	return m.listResp, nil
}

func (m *mockUserService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

func (m *mockUserService) UpdateRole(_ context.Context, _ *dto.UpdateUserRoleRequest) error {
	return m.updateRoleErr
}

func (m *mockUserService) EnsureDefaultAdmin(_ context.Context) error { return nil }

// ── 测试辅助 ──

// perform 构造请求并执行，返回响应记录器
func perform(r *gin.Engine, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("序列化请求体失败: %v", err)
	}
	return bytes.NewReader(b)
}

// assertMessage 校验响应体为 {"message": want}
func assertMessage(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应体不是合法 JSON: %v (%s)", err, w.Body.String())
	}
	if resp.Message != want {
		t.Errorf("响应消息错误: got %q want %q", resp.Message, want)
	}
}

// ── 认证接口 ──

func authRouter(svc service.AuthService) *gin.Engine {
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/api/login", h.Login)
	r.POST("/api/student-login", h.StudentLogin)
	r.POST("/api/register", h.Register)
	return r
}

func TestLoginHandler_Success(t *testing.T) {
	r := authRouter(&mockAuthService{loginResp: &dto.LoginResponse{
		Message:  "Login successful",
		Role:     "admin",
		Username: "admin",
		Token:    "tok",
	}})

	w := perform(r, http.MethodPost, "/api/login",
		jsonBody(t, dto.LoginRequest{Username: "admin", Password: "admin"}),
		"application/json")

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
	var resp dto.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Role != "admin" || resp.Token != "tok" {
		t.Errorf("响应内容错误: %+v", resp)
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	r := authRouter(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := perform(r, http.MethodPost, "/api/login",
		jsonBody(t, dto.LoginRequest{Username: "admin", Password: "wrong"}),
		"application/json")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际 %d", w.Code)
	}
	assertMessage(t, w, "Invalid credentials")
}

func TestLoginHandler_MissingFields(t *testing.T) {
	r := authRouter(&mockAuthService{})

	w := perform(r, http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"admin"}`), "application/json")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	assertMessage(t, w, "Username and password required")
}

func TestStudentLoginHandler_Rejected(t *testing.T) {
	r := authRouter(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := perform(r, http.MethodPost, "/api/student-login",
		jsonBody(t, dto.LoginRequest{Username: "admin", Password: "admin"}),
		"application/json")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际 %d", w.Code)
	}
	assertMessage(t, w, "Invalid credentials or not a student account.")
}

func TestRegisterHandler_Success(t *testing.T) {
	r := authRouter(&mockAuthService{})

	w := perform(r, http.MethodPost, "/api/register",
		jsonBody(t, dto.RegisterRequest{Username: "u", Password: "p", Role: "student"}),
		"application/json")

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际 %d: %s", w.Code, w.Body.String())
	}
	assertMessage(t, w, "User registered successfully!")
}

func TestRegisterHandler_Duplicate(t *testing.T) {
	r := authRouter(&mockAuthService{registerErr: service.ErrUsernameTaken})

	w := perform(r, http.MethodPost, "/api/register",
		jsonBody(t, dto.RegisterRequest{Username: "u", Password: "p", Role: "student"}),
		"application/json")

	if w.Code != http.StatusConflict {
		t.Fatalf("期望 409，实际 %d", w.Code)
	}
	assertMessage(t, w, "Username already exists.")
}

func TestRegisterHandler_InvalidRole(t *testing.T) {
	r := authRouter(&mockAuthService{})

	// 绑定层的 oneof 校验直接拒绝非法角色
	w := perform(r, http.MethodPost, "/api/register",
		strings.NewReader(`{"username":"u","password":"p","role":"superuser"}`),
		"application/json")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
}

// ── 学生接口 ──

func studentRouter(svc service.StudentService) *gin.Engine {
	h := NewStudentHandler(svc)
	r := gin.New()
	r.GET("/api/students", h.List)
	r.GET("/api/student/me", h.Me)
	r.GET("/api/student/trends/:id", h.Trends)
	r.GET("/api/student/:id", h.Get)
	r.GET("/api/subjects/scores", h.SubjectScores)
	r.POST("/api/upload", h.Upload)
	r.POST("/api/student/update", h.Update)
	r.DELETE("/api/student/delete/:id", h.Delete)
	return r
}

func TestStudentList_NoData(t *testing.T) {
	r := studentRouter(&mockStudentService{listErr: service.ErrNoStudents})

	w := perform(r, http.MethodGet, "/api/students", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际 %d", w.Code)
	}
	assertMessage(t, w, "No data found.")
}

func TestStudentList_ModelUnavailable(t *testing.T) {
	r := studentRouter(&mockStudentService{listErr: service.ErrModelUnavailable})

	w := perform(r, http.MethodGet, "/api/students", nil, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("期望 500，实际 %d", w.Code)
	}
	assertMessage(t, w, "AI model not loaded. Restart server.")
}

func TestStudentList_Success(t *testing.T) {
	r := studentRouter(&mockStudentService{listResp: []dto.ScoredStudent{
		{RiskLevel: "Low", HighRiskProb: 0.1},
	}})

	w := perform(r, http.MethodGet, "/api/students?search=s1&filter=all", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	// 裸数组响应，不套信封
	if !strings.HasPrefix(strings.TrimSpace(w.Body.String()), "[") {
		t.Errorf("响应应为 JSON 数组: %s", w.Body.String())
	}
}

func TestStudentGet_NotFound(t *testing.T) {
	r := studentRouter(&mockStudentService{detailErr: service.ErrStudentNotFound})

	w := perform(r, http.MethodGet, "/api/student/ghost", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际 %d", w.Code)
	}
	assertMessage(t, w, "Student not found.")
}

func TestStudentMe_RequiresUsername(t *testing.T) {
	r := studentRouter(&mockStudentService{})

	w := perform(r, http.MethodGet, "/api/student/me", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	assertMessage(t, w, "Username required as query param.")
}

func TestStudentMe_LooksUpByUsername(t *testing.T) {
	svc := &mockStudentService{detailResp: &dto.StudentDetailResponse{}}
	r := studentRouter(svc)

	w := perform(r, http.MethodGet, "/api/student/me?username=S101", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if svc.lastDetailID != "S101" {
		t.Errorf("应按 username 查询详情，实际: %q", svc.lastDetailID)
	}
}

func TestTrends_NoData(t *testing.T) {
	r := studentRouter(&mockStudentService{trendsErr: service.ErrNoTrendData})

	w := perform(r, http.MethodGet, "/api/student/trends/S101", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际 %d", w.Code)
	}
	assertMessage(t, w, "No trend data available.")
}

func TestUpload_NoFilePart(t *testing.T) {
	r := studentRouter(&mockStudentService{})

	w := perform(r, http.MethodPost, "/api/upload", nil, "multipart/form-data")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	assertMessage(t, w, "No file part")
}

// multipartFile 构造携带 file 字段的 multipart 请求体
func multipartFile(t *testing.T, filename, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("构造 multipart 失败: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("写入 multipart 失败: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUpload_MissingColumns(t *testing.T) {
	r := studentRouter(&mockStudentService{uploadErr: service.ErrMissingColumns})

	body, contentType := multipartFile(t, "students.csv", "student_id\nS1\n")
	w := perform(r, http.MethodPost, "/api/upload", body, contentType)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	assertMessage(t, w, "Missing required columns")
}

func TestUpload_Success(t *testing.T) {
	r := studentRouter(&mockStudentService{uploadResp: &dto.UploadResponse{
		Message: "Uploaded 2 new student(s).",
		Added:   2,
	}})

	body, contentType := multipartFile(t, "students.csv", "irrelevant")
	w := perform(r, http.MethodPost, "/api/upload", body, contentType)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
	var resp dto.UploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Added != 2 {
		t.Errorf("响应内容错误: %+v", resp)
	}
}

func TestUpdate_InvalidFields(t *testing.T) {
	r := studentRouter(&mockStudentService{updateErr: service.ErrFieldNotAllowed})

	w := perform(r, http.MethodPost, "/api/student/update",
		jsonBody(t, dto.UpdateStudentRequest{
			StudentID: "S101",
			Updates:   map[string]interface{}{"student_id": "S999"},
		}),
		"application/json")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	assertMessage(t, w, "Invalid update fields.")
}

func TestUpdate_NotFound(t *testing.T) {
	r := studentRouter(&mockStudentService{updateErr: service.ErrStudentNotFound})

	w := perform(r, http.MethodPost, "/api/student/update",
		jsonBody(t, dto.UpdateStudentRequest{
			StudentID: "ghost",
			Updates:   map[string]interface{}{"fee_status": "Paid"},
		}),
		"application/json")

	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际 %d", w.Code)
	}
	assertMessage(t, w, "Student ghost not found.")
}

func TestDelete_Success(t *testing.T) {
	r := studentRouter(&mockStudentService{})

	w := perform(r, http.MethodDelete, "/api/student/delete/S101", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	assertMessage(t, w, "Student S101 and their records deleted successfully.")
}

// ── 用户管理接口 ──

func userRouter(svc service.UserService) *gin.Engine {
	h := NewUserHandler(svc)
	r := gin.New()
	r.GET("/api/users", h.List)
	r.DELETE("/api/user/delete/:username", h.Delete)
	r.POST("/api/user/update", h.UpdateRole)
	return r
}

func TestUserUpdateRole_InvalidRole(t *testing.T) {
	r := userRouter(&mockUserService{updateRoleErr: service.ErrInvalidRole})

	w := perform(r, http.MethodPost, "/api/user/update",
		jsonBody(t, dto.UpdateUserRoleRequest{Username: "u", Role: "counselor"}),
		"application/json")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	assertMessage(t, w, "Invalid role. Only admin or student allowed.")
}

func TestUserDelete_NotFound(t *testing.T) {
	r := userRouter(&mockUserService{deleteErr: service.ErrUserNotFound})

	w := perform(r, http.MethodDelete, "/api/user/delete/ghost", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际 %d", w.Code)
	}
	assertMessage(t, w, "User ghost not found.")
}

func TestUserList_Success(t *testing.T) {
	r := userRouter(&mockUserService{listResp: []dto.UserResponse{
		{Username: "admin", Role: "admin"},
	}})

	w := perform(r, http.MethodGet, "/api/users", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	var users []dto.UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(users) != 1 || users[0].Username != "admin" {
		t.Errorf("响应内容错误: %+v", users)
	}
}
