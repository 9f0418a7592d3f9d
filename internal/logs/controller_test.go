package logs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"electrochem-data-api/internal/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupRouterForController(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	controller := &LogController{
		LogService:  &LogService{DB: db},
		UserService: &users.UserService{DB: db},
	}

	group := r.Group("/api/logs")
	group.Use(func(c *gin.Context) {
		rawID := strings.TrimSpace(c.GetHeader("X-UserID"))
		if rawID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
			return
		}
		f, _ := strconv.ParseFloat(rawID, 64)
		c.Set("userID", f)
		c.Next()
	})
	{
		group.POST("/query", controller.GetLogs)
	}

	return r
}

func queryLogs(r http.Handler, body any, userID uint) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/logs/query", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-UserID", strconv.FormatUint(uint64(userID), 10))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetLogsEndpoint(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "root", "Admin")
	plain := seedUser(t, db, "marie", "User")
	seedLogs(t, db, plain)
	r := setupRouterForController(db)

	t.Run("admin queries", func(t *testing.T) {
		w := queryLogs(r, map[string]interface{}{"page": 1, "page_size": 2}, admin.ID)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var body map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["total"] != float64(4) || body["total_pages"] != float64(2) {
			t.Errorf("body = %s", w.Body.String())
		}
		data, _ := body["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("data = %d rows", len(data))
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		w := queryLogs(r, map[string]interface{}{}, admin.ID)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var body map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["page"] != float64(1) || body["page_size"] != float64(20) {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("non-admin refused", func(t *testing.T) {
		w := queryLogs(r, map[string]interface{}{}, plain.ID)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "admin access required") {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		if w := queryLogs(r, map[string]interface{}{}, 0); w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d", w.Code)
		}
	})
}
