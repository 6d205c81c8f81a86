package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"campuslink-server/models"
	"campuslink-server/storage"
	"campuslink-server/utils"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildTestApp wires the messaging routes against a fresh in-memory database
// and a JWT verifier, mirroring the production wiring in main.go.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.Thread{}, &models.Message{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	storage.DB = db

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	threads := app.Party("/api/threads", accessTokenVerifierMiddleware)
	{
		threads.Post("/", CreateThread)
		threads.Get("/{id}", GetThread)
		threads.Get("/{id}/messages", ListThreadMessages)
		threads.Post("/{id}/messages", SendMessage)
		threads.Post("/{id}/typing", Typing)
		threads.Get("/{id}/typing", ListTyping)
	}
	inbox := app.Party("/api/inbox", accessTokenVerifierMiddleware)
	{
		inbox.Get("/", ListInbox)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func signTestToken(t *testing.T, userID string) string {
	t.Helper()

	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, err := signer.Sign(utils.AccessToken{UserID: userID})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(token)
}

func seedRouteUser(t *testing.T, userID, collegeID, planTier string) {
	t.Helper()

	user := models.User{
		UserID:      userID,
		PlanTier:    planTier,
		DisplayName: "User " + userID,
		Handle:      "@" + userID,
	}
	if collegeID != "" {
		user.CollegeID = &collegeID
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", userID, err)
	}
}

func doJSON(t *testing.T, app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var payload map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
	return payload
}
