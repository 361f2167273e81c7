package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yigit/personnel/internal/app/controllers"
	"github.com/yigit/personnel/internal/app/models"
	"github.com/yigit/personnel/internal/app/models/dto"
	"github.com/yigit/personnel/internal/app/repositories"
	"github.com/yigit/personnel/internal/app/routes"
	"github.com/yigit/personnel/internal/app/services"
	"github.com/yigit/personnel/internal/app/views"
	"github.com/yigit/personnel/internal/middleware"
	"github.com/yigit/personnel/internal/pkg/filestorage"
)

const pdfContent = "%PDF-1.4\n% resume\n"

// formOverhead leaves room for the text fields and multipart headers
const formOverhead = 1024

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router  *gin.Engine
	repo    *repositories.MemoryEmployeeRepository
	storage *filestorage.LocalStorage
}

func newTestApp(t *testing.T, maxUpload int64) *testApp {
	t.Helper()

	storage, err := filestorage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	exts := []string{"pdf", "doc", "docx"}
	repo := repositories.NewMemoryEmployeeRepository()
	service := services.NewEmployeeService(repo, storage, filestorage.NewAcceptor(storage, exts, maxUpload), false)

	tmpl, err := views.Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}
	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	if maxUpload > 0 {
		router.Use(middleware.LimitRequestBody(maxUpload + formOverhead))
	}
	routes.SetupRouter(router,
		controllers.NewEmployeeController(service, exts),
		controllers.NewEmployeeAPIController(service),
	)

	return &testApp{router: router, repo: repo, storage: storage}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) storedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(a.storage.BasePath())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (a *testApp) employees(t *testing.T) []*models.Employee {
	t.Helper()
	list, err := a.repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	return list
}

type upload struct {
	filename string
	content  string
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, file *upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile("resume", file.filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.WriteString(part, file.content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

var aliceFields = map[string]string{"name": "Alice", "department": "Engineering", "position": "Developer"}

func assertRedirectHome(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("Location = %q", loc)
	}
}

func TestHome_Empty(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.get("/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "No employees yet") {
		t.Fatalf("status %d body %q", w.Code, w.Body.String())
	}
}

func TestAddForm(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.get("/add")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `name="resume"`) {
		t.Fatalf("status %d body %q", w.Code, w.Body.String())
	}
}

func TestCreate_WithResume(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.do(multipartRequest(t, http.MethodPost, "/add", aliceFields, &upload{"cv.pdf", pdfContent}))
	assertRedirectHome(t, w)

	list := app.employees(t)
	if len(list) != 1 || !list[0].HasResume() || *list[0].ResumeFilename != "cv.pdf" {
		t.Fatalf("unexpected records %+v", list)
	}
	if files := app.storedFiles(t); len(files) != 1 || files[0] != *list[0].ResumeKey {
		t.Fatalf("stored files %v, key %s", files, *list[0].ResumeKey)
	}

	home := app.get("/").Body.String()
	if !strings.Contains(home, "Alice") || !strings.Contains(home, dto.ResumeURL(*list[0].ResumeKey)) {
		t.Fatalf("home page missing record:\n%s", home)
	}
}

func TestCreate_URLEncodedWithoutFile(t *testing.T) {
	app := newTestApp(t, 0)

	form := url.Values{"name": {"Bob"}, "department": {"Ops"}, "position": {"SRE"}}
	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	assertRedirectHome(t, app.do(req))

	list := app.employees(t)
	if len(list) != 1 || list[0].ResumeFilename != nil {
		t.Fatalf("unexpected records %+v", list)
	}
}

func TestCreate_DisallowedExtension(t *testing.T) {
	app := newTestApp(t, 0)

	assertRedirectHome(t, app.do(multipartRequest(t, http.MethodPost, "/add", aliceFields, &upload{"setup.exe", "MZ"})))

	list := app.employees(t)
	if len(list) != 1 || list[0].ResumeFilename != nil {
		t.Fatalf("unexpected records %+v", list)
	}
	if files := app.storedFiles(t); len(files) != 0 {
		t.Fatalf("disallowed file stored: %v", files)
	}
}

func TestCreate_MissingField(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.do(multipartRequest(t, http.MethodPost, "/add", map[string]string{"name": "Alice", "department": "Eng"}, nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "position is required") {
		t.Fatalf("body = %q", w.Body.String())
	}
	if len(app.employees(t)) != 0 {
		t.Fatal("record created despite missing field")
	}
}

func TestCreate_FileTooLarge(t *testing.T) {
	app := newTestApp(t, 8)

	w := app.do(multipartRequest(t, http.MethodPost, "/add", aliceFields, &upload{"cv.pdf", pdfContent}))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCreate_BodyOverLimitRejectedWhileReading(t *testing.T) {
	app := newTestApp(t, 8)
	big := &upload{"cv.pdf", pdfContent + strings.Repeat("x", 16*1024)}

	w := app.do(multipartRequest(t, http.MethodPost, "/add", aliceFields, big))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}

	w = app.do(multipartRequest(t, http.MethodPost, "/api/v1/employees", aliceFields, big))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("api status = %d, body %q", w.Code, w.Body.String())
	}
	if len(app.employees(t)) != 0 || len(app.storedFiles(t)) != 0 {
		t.Fatal("oversized request left state behind")
	}
}

func TestEditForm(t *testing.T) {
	app := newTestApp(t, 0)
	app.do(multipartRequest(t, http.MethodPost, "/add", aliceFields, nil))
	id := app.employees(t)[0].ID

	w := app.get("/edit/" + itoa(id))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `value="Engineering"`) {
		t.Fatalf("status %d body %q", w.Code, w.Body.String())
	}

	for _, path := range []string{"/edit/999", "/edit/abc", "/edit/0"} {
		if w := app.get(path); w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, w.Code)
		}
	}
}

func TestUpdate_PreservesResumeWithoutFile(t *testing.T) {
	app := newTestApp(t, 0)
	app.do(multipartRequest(t, http.MethodPost, "/add", aliceFields, &upload{"cv.pdf", pdfContent}))
	before := app.employees(t)[0]

	fields := map[string]string{"name": "Alice", "department": "Research", "position": "Lead"}
	assertRedirectHome(t, app.do(multipartRequest(t, http.MethodPost, "/edit/"+itoa(before.ID), fields, nil)))

	after := app.employees(t)[0]
	if after.Department != "Research" || after.Position != "Lead" {
		t.Fatalf("fields not updated: %+v", after)
	}
	if *after.ResumeFilename != "cv.pdf" || *after.ResumeKey != *before.ResumeKey {
		t.Fatalf("resume changed: %+v", after)
	}
}

func TestUpdate_NewFileKeepsOldDocument(t *testing.T) {
	app := newTestApp(t, 0)
	app.do(multipartRequest(t, http.MethodPost, "/add", aliceFields, &upload{"cv.pdf", pdfContent}))
	before := app.employees(t)[0]

	assertRedirectHome(t, app.do(multipartRequest(t, http.MethodPost, "/edit/"+itoa(before.ID), aliceFields, &upload{"cv2.pdf", pdfContent})))

	after := app.employees(t)[0]
	if *after.ResumeFilename != "cv2.pdf" {
		t.Fatalf("resume not replaced: %+v", after)
	}
	if files := app.storedFiles(t); len(files) != 2 {
		t.Fatalf("expected old and new document on disk, got %v", files)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.do(multipartRequest(t, http.MethodPost, "/edit/42", aliceFields, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestDelete(t *testing.T) {
	app := newTestApp(t, 0)
	app.do(multipartRequest(t, http.MethodPost, "/add", aliceFields, &upload{"cv.pdf", pdfContent}))
	app.do(multipartRequest(t, http.MethodPost, "/add", map[string]string{"name": "Bob", "department": "Ops", "position": "SRE"}, nil))
	list := app.employees(t)

	assertRedirectHome(t, app.get("/delete/"+itoa(list[0].ID)))
	if files := app.storedFiles(t); len(files) != 0 {
		t.Fatalf("document not removed: %v", files)
	}

	assertRedirectHome(t, app.get("/delete/"+itoa(list[1].ID)))
	if remaining := app.employees(t); len(remaining) != 0 {
		t.Fatalf("records left: %+v", remaining)
	}

	// Unknown ids still land on the listing.
	assertRedirectHome(t, app.get("/delete/999"))

	for _, path := range []string{"/delete/abc", "/delete/0", "/delete/-3"} {
		if w := app.get(path); w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, w.Code)
		}
	}
}

func TestDownloadResume(t *testing.T) {
	app := newTestApp(t, 0)
	app.do(multipartRequest(t, http.MethodPost, "/add", aliceFields, &upload{"my cv.pdf", pdfContent}))
	key := *app.employees(t)[0].ResumeKey

	w := app.get(dto.ResumeURL(key))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != pdfContent {
		t.Fatalf("body = %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}

	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("parse Content-Disposition: %v", err)
	}
	if disposition != "attachment" || params["filename"] != "my cv.pdf" {
		t.Fatalf("Content-Disposition = %q", w.Header().Get("Content-Disposition"))
	}

	if w := app.get("/uploads/missing.pdf"); w.Code != http.StatusNotFound {
		t.Fatalf("missing document status = %d", w.Code)
	}
}

func TestDownloadResume_NonASCIIFilename(t *testing.T) {
	app := newTestApp(t, 0)
	app.do(multipartRequest(t, http.MethodPost, "/add", aliceFields, &upload{"Özgeçmiş.pdf", pdfContent}))
	key := *app.employees(t)[0].ResumeKey

	w := app.get(dto.ResumeURL(key))
	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("parse Content-Disposition: %v", err)
	}
	if params["filename"] != "Özgeçmiş.pdf" {
		t.Fatalf("filename = %q", params["filename"])
	}
}

func TestAPI_Lifecycle(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.do(multipartRequest(t, http.MethodPost, "/api/v1/employees", aliceFields, &upload{"cv.pdf", pdfContent}))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body %s", w.Code, w.Body.String())
	}
	created := decodeEmployee(t, w)
	if created.ID == 0 || created.ResumeURL == nil || created.ResumeFilename == nil || *created.ResumeFilename != "cv.pdf" {
		t.Fatalf("unexpected created employee %+v", created)
	}
	id := itoa(created.ID)

	w = app.get("/api/v1/employees")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var listResp struct {
		Success bool                   `json:"success"`
		Data    []dto.EmployeeResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if !listResp.Success || len(listResp.Data) != 1 {
		t.Fatalf("unexpected list %s", w.Body.String())
	}

	w = app.do(multipartRequest(t, http.MethodPut, "/api/v1/employees/"+id, map[string]string{"name": "Alice", "department": "Research", "position": "Lead"}, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d body %s", w.Code, w.Body.String())
	}
	updated := decodeEmployee(t, w)
	if updated.Department != "Research" || *updated.ResumeFilename != "cv.pdf" {
		t.Fatalf("unexpected updated employee %+v", updated)
	}

	w = app.get("/api/v1/employees/" + id)
	if w.Code != http.StatusOK || decodeEmployee(t, w).Position != "Lead" {
		t.Fatalf("get status = %d body %s", w.Code, w.Body.String())
	}

	w = app.do(httptest.NewRequest(http.MethodDelete, "/api/v1/employees/"+id, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = app.do(httptest.NewRequest(http.MethodDelete, "/api/v1/employees/"+id, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", w.Code)
	}
}

func TestAPI_Errors(t *testing.T) {
	app := newTestApp(t, 0)

	tests := []struct {
		name   string
		req    *http.Request
		status int
		code   dto.ErrorCode
	}{
		{"unknown id", httptest.NewRequest(http.MethodGet, "/api/v1/employees/5", nil), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"non numeric id", httptest.NewRequest(http.MethodGet, "/api/v1/employees/abc", nil), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"missing fields", multipartRequest(t, http.MethodPost, "/api/v1/employees", map[string]string{"name": "x"}, nil), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"update unknown", multipartRequest(t, http.MethodPut, "/api/v1/employees/5", aliceFields, nil), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(tt.req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var resp dto.APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.code {
				t.Fatalf("unexpected body %s", w.Body.String())
			}
		})
	}
}

func TestAPI_Health(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.get("/api/v1/health")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
}

func decodeEmployee(t *testing.T, w *httptest.ResponseRecorder) dto.EmployeeResponse {
	t.Helper()
	var resp struct {
		Success bool                 `json:"success"`
		Data    dto.EmployeeResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v (%s)", err, w.Body.String())
	}
	if !resp.Success {
		t.Fatalf("unsuccessful response %s", w.Body.String())
	}
	return resp.Data
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
