package agatehttp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wireservice/agate-go"
)

func testTable(t *testing.T) *agate.Table {
	t.Helper()
	ctx := context.Background()
	tbl, err := agate.NewTable(ctx, [][]any{
		{"alice", 30},
		{"bob", 45},
	}, []string{"name", "age"}, []agate.DataType{agate.NewText(), agate.NewNumber()})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := NewServer(testTable(t))
	s.router = gin.New()
	s.setupRoutes()
	return s
}

func TestHandleSchema(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/schema", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Columns []schemaColumn `json:"columns"`
		Rows    int            `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", body.Rows)
	}
	if len(body.Columns) != 2 || body.Columns[0].Name != "name" || body.Columns[1].Type != "Number" {
		t.Fatalf("unexpected columns: %+v", body.Columns)
	}
}

func TestHandleAggregateCount(t *testing.T) {
	s := testServer(t)
	payload := `{"kind":"count"}`
	req := httptest.NewRequest(http.MethodPost, "/aggregate", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Result != "2" {
		t.Fatalf("expected count 2, got %q", body.Result)
	}
}

func TestHandleAggregateUnknownKind(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/aggregate", bytes.NewBufferString(`{"kind":"bogus"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown aggregation kind, got %d", rec.Code)
	}
}

func TestHandleRowsStreamEmitsEveryRow(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/rows/stream", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Count(body, "event:row") != 2 {
		t.Fatalf("expected 2 row events, got body: %s", body)
	}
	if !strings.Contains(body, "alice") || !strings.Contains(body, "bob") {
		t.Fatalf("expected both rows in stream, got: %s", body)
	}
}
