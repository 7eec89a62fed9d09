package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/acksell/courses/courses"
	"github.com/acksell/courses/dynamodb/ddbiface"
	"github.com/acksell/courses/dynamodb/ddbstore"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, ready bool) (*Server, *courses.Store) {
	t.Helper()
	backend, err := ddbstore.New(ddbstore.StoreOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	opts := []courses.Option{courses.WithClock(func() time.Time { return fixedNow })}
	var store *courses.Store
	if ready {
		store = courses.New(backend, opts...)
		require.NoError(t, store.CreateTable(context.Background()))
	} else {
		store, _ = courses.Connect(context.Background(), failingLister{backend}, opts...)
	}
	return NewServer(store, ServerConfig{}, zerolog.Nop()), store
}

type failingLister struct {
	ddbiface.Client
}

func (failingLister) ListTables(context.Context, *dynamodb.ListTablesInput, ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	return nil, errors.New("connection refused")
}

func do(t *testing.T, srv *Server, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func withUser(uid string) http.Header {
	return http.Header{UserHeader: []string{uid}}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, true)
	rec := do(t, srv, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["ready"])

	notReady, _ := newTestServer(t, false)
	rec = do(t, notReady, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, false, decode(t, rec)["ready"])
}

func TestTables(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rec := do(t, srv, http.MethodPost, "/tables/courses", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code, "table already exists")
	assert.Equal(t, "ResourceInUseException", decode(t, rec)["code"])

	rec = do(t, srv, http.MethodDelete, "/tables/courses", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodPost, "/tables/courses", "", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, courses.TableName, decode(t, rec)["table"])

	t.Run("not ready", func(t *testing.T) {
		notReady, _ := newTestServer(t, false)
		rec := do(t, notReady, http.MethodPost, "/tables/courses", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		rec = do(t, notReady, http.MethodDelete, "/tables/courses", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestCreateAndGetCourse(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rec := do(t, srv, http.MethodPost, "/courses", `{"courseId":"c1","title":"Intro","detail":{"language":"en"}}`, withUser("u1"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "c1", created["courseId"])
	assert.Equal(t, map[string]any{
		"createdAt": float64(fixedNow.UnixMilli()),
		"language":  "en",
	}, created["detail"])

	rec = do(t, srv, http.MethodGet, "/courses/c1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode(t, rec))

	rec = do(t, srv, http.MethodGet, "/courses/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCourse_Errors(t *testing.T) {
	srv, _ := newTestServer(t, true)

	tests := []struct {
		name       string
		body       string
		header     http.Header
		wantStatus int
		wantError  string
	}{
		{"no user", `{"courseId":"c1"}`, nil, http.StatusBadRequest, "require user id"},
		{"empty body", ``, withUser("u1"), http.StatusBadRequest, "empty data"},
		{"null body", `null`, withUser("u1"), http.StatusBadRequest, "empty data"},
		{"no course id", `{"title":"Intro"}`, withUser("u1"), http.StatusBadRequest, "missing courseId"},
		{"malformed", `{"courseId":`, withUser("u1"), http.StatusBadRequest, "invalid JSON payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/courses", tt.body, tt.header)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, decode(t, rec)["error"], tt.wantError)
		})
	}
}

func TestBatchGetCourses(t *testing.T) {
	srv, store := newTestServer(t, true)
	for _, id := range []string{"c1", "c2"} {
		_, err := store.CreateCourse(context.Background(), courses.CreateCourseInput{
			UID:    "u1",
			Course: &courses.Course{CourseID: id, Title: "title " + id},
		})
		require.NoError(t, err)
	}

	rec := do(t, srv, http.MethodPost, "/courses:batchGet", `{"courseIds":["c1","c2","nope"]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp batchGetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []courses.Course{
		{CourseID: "c1", Title: "title c1"},
		{CourseID: "c2", Title: "title c2"},
	}, resp.Courses)

	for _, body := range []string{`{}`, `{"courseIds":[]}`, `{"courseIds":[""]}`, `not json`} {
		rec := do(t, srv, http.MethodPost, "/courses:batchGet", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestRemoveCourse(t *testing.T) {
	srv, _ := newTestServer(t, true)
	rec := do(t, srv, http.MethodDelete, "/courses/c1", "", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t, true)
	req := httptest.NewRequest(http.MethodOptions, "/courses", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", UserHeader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv, _ := newTestServer(t, true)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/healthz")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	h := loggingMiddleware(zerolog.New(&buf), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x?y=1", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "/x?y=1", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
}
