package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_LogsRequests(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/chat-history", nil)
	req.Header.Set("X-User", "alice")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}

	entry := logs.All()[0]
	if entry.Message != "HTTP request" {
		t.Errorf("expected message 'HTTP request', got '%s'", entry.Message)
	}
	if entry.ContextMap()["username"] != "alice" {
		t.Errorf("expected username 'alice', got %v", entry.ContextMap()["username"])
	}
}

func TestRequestLogger_NilLogger_PassesThrough(t *testing.T) {
	called := false
	handler := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
}

func TestRequestLogger_CapturesStatusCode(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	entry := logs.All()[0]
	statusField := entry.ContextMap()["status"]
	if statusField != int64(http.StatusNotFound) {
		t.Errorf("expected status %d, got %v", http.StatusNotFound, statusField)
	}
}

func TestResponseWriter_PreventsDuplicateWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)
	if rw.statusCode != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, rw.statusCode)
	}

	// Second call is ignored; the first status wins.
	rw.WriteHeader(http.StatusInternalServerError)
	if rw.statusCode != http.StatusCreated {
		t.Errorf("expected status to remain %d, got %d", http.StatusCreated, rw.statusCode)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("expected recorded status %d, got %d", http.StatusCreated, rec.Code)
	}
}

func TestResponseWriter_WriteTriggersWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	_, err := rw.Write([]byte("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rw.statusCode != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rw.statusCode)
	}
	if !rw.headerWritten {
		t.Error("expected headerWritten to be true")
	}
}
