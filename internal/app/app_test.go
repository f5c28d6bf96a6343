package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"codedrill_backend/internal/config"
	"codedrill_backend/internal/model"
	"codedrill_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq int64

type testServer struct {
	app *App
	db  *gorm.DB
}

// newTestServer wires the full HTTP surface over an in-memory database, the
// same assembly NewApp performs minus MySQL and redis.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.InitLogger("")

	dsn := fmt.Sprintf("file:app%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Problem{},
		&model.ProblemTest{},
		&model.ProblemProgress{},
		&model.Todo{},
		&model.LearningChapter{},
		&model.LearningSection{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-test-secret-test-secret",
			ExpireTime: time.Hour,
		},
		Runner: config.RunnerConfig{
			DefaultBudgetMS: 2000,
			MaxBudgetMS:     10000,
			MaxCodeBytes:    64 * 1024,
		},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}

	a := &App{Config: cfg, DB: db}
	repos := a.initRepositories(db)
	services, err := a.initServices(repos, cfg, nil)
	if err != nil {
		t.Fatalf("init services: %v", err)
	}
	controllers := a.initControllers(services, db)

	router := gin.New()
	a.Router = router
	a.registerRoutes(router, controllers, cfg)

	return &testServer{app: a, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func registerUser(t *testing.T, s *testServer, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &data); err != nil {
		t.Fatalf("decode register data: %v", err)
	}
	if data.Token == "" {
		t.Fatalf("register returned no token")
	}
	return data.Token
}

func TestRegisterLoginFlow(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "flow@example.com")

	// Duplicate registration conflicts.
	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Other",
		"email":    "flow@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", w.Code)
	}

	// Wrong password.
	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "flow@example.com",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", w.Code)
	}

	// Correct credentials.
	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "flow@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 login, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthRequiredRoutes(t *testing.T) {
	s := newTestServer(t)

	if w := s.do(t, http.MethodGet, "/api/todos", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/profile", "garbage-token", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a garbage token, got %d", w.Code)
	}

	token := registerUser(t, s, "auth@example.com")
	if w := s.do(t, http.MethodGet, "/api/profile", token, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 profile with a valid token, got %d", w.Code)
	}
}

func TestAdminRoutesRequireRole(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "user@example.com")

	if w := s.do(t, http.MethodGet, "/api/admin/problems", token, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a regular user, got %d", w.Code)
	}

	// Promote and retry with a fresh token carrying the admin role.
	if err := s.db.Model(&model.User{}).Where("email = ?", "user@example.com").Update("role", model.RoleAdmin).Error; err != nil {
		t.Fatalf("promote: %v", err)
	}
	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "user@example.com",
		"password": "secret123",
	})
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &data); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if w := s.do(t, http.MethodGet, "/api/admin/problems", data.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPublicProblemListing(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/problems", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var problems []json.RawMessage
	if err := json.Unmarshal(decode(t, w).Data, &problems); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("expected empty problem list, got %d entries", len(problems))
	}

	if w := s.do(t, http.MethodGet, "/api/problems/missing", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing problem, got %d", w.Code)
	}
}

func TestProblemAuthoringAndRun(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "admin@example.com")
	if err := s.db.Model(&model.User{}).Where("email = ?", "admin@example.com").Update("role", model.RoleAdmin).Error; err != nil {
		t.Fatalf("promote: %v", err)
	}
	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "admin@example.com",
		"password": "secret123",
	})
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	admin := login.Token

	w = s.do(t, http.MethodPost, "/api/admin/problems", admin, gin.H{
		"title":        "Sum Two Numbers",
		"difficulty":   "easy",
		"statement":    "Сложите два числа.",
		"functionName": "sum",
		"published":    true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating a problem, got %d: %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/api/admin/problems/sum-two-numbers/tests", admin, gin.H{
		"order":    0,
		"input":    []any{1, 2},
		"expected": 3,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating a test, got %d: %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/api/problems/sum-two-numbers/run", token, gin.H{
		"code": "function sum(a, b) { return a + b; }",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 run, got %d: %s", w.Code, w.Body.String())
	}
	var run struct {
		Status    string `json:"status"`
		PassedAll bool   `json:"passedAll"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if run.Status != "all_passed" || !run.PassedAll {
		t.Fatalf("expected all_passed, got %+v", run)
	}

	// The run recorded progress for the caller.
	w = s.do(t, http.MethodGet, "/api/progress/sum-two-numbers", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 progress, got %d", w.Code)
	}
	var progress struct {
		Solved   bool `json:"solved"`
		Attempts int  `json:"attempts"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &progress); err != nil {
		t.Fatalf("decode progress: %v", err)
	}
	if !progress.Solved || progress.Attempts != 1 {
		t.Fatalf("expected solved in one attempt, got %+v", progress)
	}
}

func TestTodoLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "todo@example.com")

	w := s.do(t, http.MethodPost, "/api/todos", token, gin.H{"text": "решить задачу"})
	if w.Code != http.StatusOK && w.Code != http.StatusCreated {
		t.Fatalf("expected success creating a todo, got %d: %s", w.Code, w.Body.String())
	}
	var todo struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &todo); err != nil {
		t.Fatalf("decode todo: %v", err)
	}

	if w := s.do(t, http.MethodPost, "/api/todos", token, gin.H{"text": "   "}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank text, got %d", w.Code)
	}

	if w := s.do(t, http.MethodPatch, "/api/todos/"+todo.ID, token, gin.H{"completed": true}); w.Code != http.StatusOK {
		t.Fatalf("expected 200 patch, got %d: %s", w.Code, w.Body.String())
	}
	if w := s.do(t, http.MethodDelete, "/api/todos/"+todo.ID, token, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 delete, got %d", w.Code)
	}
	if w := s.do(t, http.MethodDelete, "/api/todos/"+todo.ID, token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", w.Code)
	}
}

func TestRoadmapAdminFlow(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "seed@example.com")
	if err := s.db.Model(&model.User{}).Where("email = ?", "seed@example.com").Update("role", model.RoleAdmin).Error; err != nil {
		t.Fatalf("promote: %v", err)
	}
	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "seed@example.com",
		"password": "secret123",
	})
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	admin := login.Token

	for _, body := range []gin.H{
		{"slug": "js-basics", "title": "Основы JavaScript", "badge": "Раздел"},
		{"slug": "variables", "title": "Переменные", "parentSlug": "js-basics"},
	} {
		if w := s.do(t, http.MethodPost, "/api/admin/learning/chapters", admin, body); w.Code != http.StatusOK {
			t.Fatalf("expected 200 upserting %v, got %d: %s", body["slug"], w.Code, w.Body.String())
		}
	}

	w = s.do(t, http.MethodGet, "/api/learning/roadmap", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 roadmap, got %d", w.Code)
	}
	var roadmap struct {
		Sections []struct {
			Slug     string `json:"slug"`
			Children []struct {
				Slug string `json:"slug"`
			} `json:"children"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &roadmap); err != nil {
		t.Fatalf("decode roadmap: %v", err)
	}
	if len(roadmap.Sections) != 1 || len(roadmap.Sections[0].Children) != 1 {
		t.Fatalf("unexpected roadmap %+v", roadmap)
	}

	if w := s.do(t, http.MethodDelete, "/api/admin/learning/chapters/js-basics", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 cascade delete, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/learning/chapters/variables", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for the cascaded child, got %d", w.Code)
	}
}
