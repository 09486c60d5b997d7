package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/inkwell/internal/categoryservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/postservice"
	"github.com/sushihentaime/inkwell/internal/uploadservice"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

func strptr(s string) *string {
	return &s
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

// readResponse decodes the JSON envelope. An empty body yields a nil envelope.
func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	if len(responseBody) == 0 {
		return res.StatusCode, res.Header, nil
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

func testConfig() *Config {
	return &Config{
		Port:           "5000",
		Environment:    "test",
		Version:        "test",
		TrustedOrigins: []string{"http://localhost:3000"},
		UploadDriver:   "disk",
		UploadBaseURL:  "/uploads",
	}
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	producer := common.NewMockMessageProducer()

	store, err := uploadservice.NewDiskStorage(t.TempDir(), "/uploads")
	assert.NoError(t, err)

	app := &application{
		config:          testConfig(),
		logger:          logger,
		userService:     userservice.NewUserService(db, producer, common.NewCache(5*time.Minute, 10*time.Minute)),
		postService:     postservice.NewPostService(db, producer, logger),
		categoryService: categoryservice.NewCategoryService(db),
		uploadService:   uploadservice.NewUploadService(store),
		uploadDir:       store.Dir(),
	}

	t.Cleanup(func() {
		for _, table := range []string{"posts", "categories", "tokens", "users"} {
			_, err := db.Exec("DELETE FROM " + table)
			assert.NoError(t, err)
		}
	})

	return app, db
}

// registerAndLogin creates a password account and returns its id and bearer token.
func registerAndLogin(t *testing.T, app *application, email string) (string, string) {
	u, err := app.userService.RegisterUser(context.Background(), userservice.RegisterUserRequest{
		Email:     email,
		Password:  "TestPassword123!",
		FirstName: "Test",
		LastName:  "Author",
	})
	if err != nil {
		t.Fatal(err)
	}

	token, err := app.userService.LoginUser(context.Background(), email, "TestPassword123!")
	if err != nil {
		t.Fatal(err)
	}

	return u.ID, token.Plain
}

func (ts *testServer) do(t *testing.T, method, path string, token *string, payload any) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, token, nil)
}

func (ts *testServer) post(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) put(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPut, path, token, payload)
}

func (ts *testServer) delete(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, token, nil)
}

func (ts *testServer) upload(t *testing.T, path string, token *string, field, filename, contentType string, data []byte) (int, http.Header, envelope) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename)}
	h["Content-Type"] = []string{contentType}

	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}
