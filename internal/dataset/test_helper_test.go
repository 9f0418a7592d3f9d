package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"electrochem-data-api/internal/logs"
	"electrochem-data-api/internal/lookup"
	"electrochem-data-api/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// -----------------------------------------------------------------------------
// Test DB helpers (sqlite in-memory, isolated per test)
// -----------------------------------------------------------------------------

var testDBSeq uint64

// ProjectForTest creates the exact "research_projects" table the service
// raw-queries for visibility.
type ProjectForTest struct {
	ID               uint   `gorm:"primaryKey;column:id"`
	ProjectTag       string `gorm:"column:project_tag"`
	Title            string `gorm:"column:title"`
	IsPublic         bool   `gorm:"column:is_public"`
	HeadResearcherID uint   `gorm:"column:head_researcher_id"`
}

func (ProjectForTest) TableName() string { return "research_projects" }

type CollaboratorForTest struct {
	ID        uint   `gorm:"primaryKey;column:id"`
	ProjectID uint   `gorm:"column:project_id"`
	UserID    uint   `gorm:"column:user_id"`
	Role      string `gorm:"column:role"`
}

func (CollaboratorForTest) TableName() string { return "research_collaborators" }

func migrateTestSchema(t *testing.T, db *gorm.DB) {
	t.Helper()

	if err := db.AutoMigrate(
		&FileUpload{},
		&lookup.DataType{},
		&lookup.DataCategory{},
		&users.User{},
		&logs.SystemLog{},
		&ProjectForTest{},
		&CollaboratorForTest{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:dataset_test_%d?mode=memory&cache=shared", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	migrateTestSchema(t, db)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// -----------------------------------------------------------------------------
// Seeding helpers
// -----------------------------------------------------------------------------

func seedUser(t *testing.T, db *gorm.DB, username, role string) users.User {
	t.Helper()
	u := users.User{Username: username, Email: username + "@example.org", Password: "x", Role: role}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedDataType(t *testing.T, db *gorm.DB, id, name string) lookup.DataType {
	t.Helper()
	dt := lookup.DataType{ID: id, Name: name}
	if err := db.Create(&dt).Error; err != nil {
		t.Fatalf("seed data type: %v", err)
	}
	return dt
}

func seedCategory(t *testing.T, db *gorm.DB, name string) lookup.DataCategory {
	t.Helper()
	cat := lookup.DataCategory{Name: name}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return cat
}

func seedUpload(t *testing.T, db *gorm.DB, svc *DatasetService, owner users.User, fileName, content string, public bool) FileUpload {
	t.Helper()
	access := "private"
	if public {
		access = "public"
	}
	up, err := svc.CreateUpload(CreateUploadInput{
		FileName:    fileName,
		Content:     content,
		FileSize:    int64(len(content)),
		DataTypeID:  "voltammetry",
		AccessLevel: access,
		Delimiter:   ",",
		UploadedBy:  owner.ID,
	})
	if err != nil {
		t.Fatalf("seed upload: %v", err)
	}
	return up
}

// -----------------------------------------------------------------------------
// Router helpers (mock auth, mirrors the real route layout)
// -----------------------------------------------------------------------------

func mockAuthMiddleware(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := strings.TrimSpace(c.GetHeader("X-UserID"))
		if rawID == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
				return
			}
			c.Next()
			return
		}
		f, _ := strconv.ParseFloat(rawID, 64)
		c.Set("userID", f)
		c.Next()
	}
}

func setupRouterForController(dc *DatasetController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	public := r.Group("/api/datasets")
	public.Use(mockAuthMiddleware(false))
	{
		public.GET("", dc.ListDatasets)
		public.GET("/download", dc.DownloadDataset)
		public.GET("/:id/versions", dc.GetVersions)
		public.GET("/:id/preview", dc.PreviewDataset)
	}

	authed := r.Group("/api/datasets")
	authed.Use(mockAuthMiddleware(true))
	{
		authed.POST("/upload", dc.UploadDataset)
		authed.POST("/:id/versions", dc.CreateVersion)
		authed.POST("/:id/revert", dc.RevertVersion)
	}

	return r
}

func newController(db *gorm.DB) *DatasetController {
	return &DatasetController{
		Service:    &DatasetService{DB: db},
		LogService: &logs.LogService{DB: db},
	}
}

func doReq(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newJSONReq(method, url string, body any, headers map[string]string) *http.Request {
	var b []byte
	if body != nil {
		b, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func newUploadReq(t *testing.T, fields map[string]string, fileName string, fileBytes []byte, headers map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(fileBytes); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/upload", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Type", w.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}
