package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"electrochem-data-api/internal/logs"
	"electrochem-data-api/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

// FileUploadForTest creates the "file_uploads" columns the service
// raw-queries for project dataset listings.
type FileUploadForTest struct {
	ID         uint      `gorm:"primaryKey;column:id"`
	FileName   string    `gorm:"column:file_name"`
	DataTypeID string    `gorm:"column:data_type_id"`
	Version    int       `gorm:"column:version"`
	ProjectID  *uint     `gorm:"column:project_id"`
	UploadedBy uint      `gorm:"column:uploaded_by"`
	UploadedAt time.Time `gorm:"autoCreateTime;column:uploaded_at"`
}

func (FileUploadForTest) TableName() string { return "file_uploads" }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:project_test_%d?mode=memory&cache=shared", id)

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

	if err := db.AutoMigrate(
		&ResearchProject{},
		&Collaborator{},
		&users.User{},
		&logs.SystemLog{},
		&FileUploadForTest{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) users.User {
	t.Helper()
	u := users.User{Username: username, Email: username + "@example.org", Password: "x", Role: "User"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedProject(t *testing.T, db *gorm.DB, svc *ProjectService, head users.User, title string, public bool) ResearchProject {
	t.Helper()
	p, err := svc.CreateProject(head.ID, CreateProjectInput{Title: title, IsPublic: public})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}

func seedCollaborator(t *testing.T, db *gorm.DB, p ResearchProject, u users.User, role string) Collaborator {
	t.Helper()
	collab := Collaborator{ProjectID: p.ID, UserID: u.ID, Role: role, InvitedBy: p.HeadResearcherID}
	if err := db.Create(&collab).Error; err != nil {
		t.Fatalf("seed collaborator: %v", err)
	}
	return collab
}

func mockAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := strings.TrimSpace(c.GetHeader("X-UserID"))
		if rawID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
			return
		}
		f, _ := strconv.ParseFloat(rawID, 64)
		c.Set("userID", f)
		c.Next()
	}
}

func setupRouterForController(pc *ProjectController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	projects := r.Group("/api/projects")
	projects.Use(mockAuthMiddleware())
	{
		projects.GET("", pc.ListProjects)
		projects.POST("", pc.CreateProject)
		projects.GET("/:projectId", pc.GetProject)
		projects.PUT("/:projectId", pc.UpdateProject)
		projects.DELETE("/:projectId", pc.DeleteProject)
		projects.POST("/:projectId/collaborators", pc.AddCollaborator)
		projects.PUT("/:projectId/collaborators/:id", pc.UpdateCollaborator)
		projects.DELETE("/:projectId/collaborators/:id", pc.RemoveCollaborator)
	}

	return r
}

func newController(db *gorm.DB) *ProjectController {
	return &ProjectController{
		Service:    &ProjectService{DB: db},
		LogService: &logs.LogService{DB: db},
	}
}

func doReq(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newJSONReq(method, url string, body any, userID uint) *http.Request {
	var b []byte
	if body != nil {
		b, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-UserID", strconv.FormatUint(uint64(userID), 10))
	}
	return req
}
