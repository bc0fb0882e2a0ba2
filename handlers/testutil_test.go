package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bistroboard/config"
	"bistroboard/handlers"
	"bistroboard/mailer"
	"bistroboard/models"
	"bistroboard/routes"
	"bistroboard/token"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *token.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	tokens := token.NewManager("test-secret", time.Hour)
	mail := mailer.New(db, log, mailer.Config{Enabled: false})
	h := handlers.New(db, log, tokens, mail)

	r := gin.New()
	routes.Setup(r, db, tokens, h)

	return &testEnv{db: db, router: r, tokens: tokens}
}

// createUser inserts an account directly and returns it
func (e *testEnv) createUser(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Name:         username + " Test",
		Email:        username + "@example.com",
		Phone:        "555-0100",
		Address:      "1 Test St",
		IsActive:     true,
		Status:       models.StatusActive,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// tokenFor issues a session token for a user
func (e *testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	tok, err := e.tokens.Issue(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return tok
}

// do performs a JSON request against the test router
func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}

