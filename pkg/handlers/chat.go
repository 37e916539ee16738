package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/askql-io/askql-engine/pkg/apperrors"
	"github.com/askql-io/askql-engine/pkg/repositories"
	"github.com/askql-io/askql-engine/pkg/services"
	sqlpkg "github.com/askql-io/askql-engine/pkg/sql"
)

// GenerateSQLRequest for POST generate-sql body.
type GenerateSQLRequest struct {
	Prompt string `json:"prompt"`
	Schema string `json:"schema"`
}

// RunQueryRequest for POST run-query body.
type RunQueryRequest struct {
	SQL    string         `json:"sql"`
	Limit  *int           `json:"limit,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// RunQueryResponse for query execution results.
type RunQueryResponse struct {
	Status   string           `json:"status"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// ChatHandler handles SQL generation, execution and history HTTP requests.
type ChatHandler struct {
	generation services.GenerationService
	execution  services.ExecutionService
	audit      services.AuditService
	usage      repositories.ColumnUsageRepository
	logger     *zap.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(
	generation services.GenerationService,
	execution services.ExecutionService,
	audit services.AuditService,
	usage repositories.ColumnUsageRepository,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		generation: generation,
		execution:  execution,
		audit:      audit,
		usage:      usage,
		logger:     logger,
	}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/generate-sql", h.GenerateSQL)
	mux.HandleFunc("POST /api/run-query", h.RunQuery)
	mux.HandleFunc("GET /api/chat-history", h.ChatHistory)
	mux.HandleFunc("GET /api/query-logs", h.QueryLogs)
	mux.HandleFunc("GET /api/usage-summary", h.UsageSummary)
}

// GenerateSQL handles POST /api/generate-sql
func (h *ChatHandler) GenerateSQL(w http.ResponseWriter, r *http.Request) {
	username, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req GenerateSQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON in request body")
		return
	}

	result, err := h.generation.GenerateSQL(r.Context(), username, req.Prompt, req.Schema)
	if err != nil {
		h.writeGenerationError(w, username, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode generate-sql response", zap.Error(err))
	}
}

// RunQuery handles POST /api/run-query
func (h *ChatHandler) RunQuery(w http.ResponseWriter, r *http.Request) {
	username, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req RunQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON in request body")
		return
	}
	if req.SQL == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "sql is required")
		return
	}

	rows, err := h.execution.RunQuery(r.Context(), username, req.SQL, req.Limit, req.Params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotReadOnly), errors.Is(err, sqlpkg.ErrMultipleStatements):
			h.writeError(w, http.StatusBadRequest, "query_rejected", err.Error())
		case errors.Is(err, apperrors.ErrExecutionFailed):
			h.logger.Error("Query execution failed",
				zap.String("username", username),
				zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "execution_failed", "Query execution failed")
		default:
			h.writeError(w, http.StatusBadRequest, "invalid_parameters", err.Error())
		}
		return
	}

	response := RunQueryResponse{
		Status:   "ok",
		Rows:     rows,
		RowCount: len(rows),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode run-query response", zap.Error(err))
	}
}

// ChatHistory handles GET /api/chat-history
func (h *ChatHandler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	username, ok := h.caller(w, r)
	if !ok {
		return
	}

	messages, err := h.audit.ChatHistory(r.Context(), username, h.limitParam(r, 50))
	if err != nil {
		h.logger.Error("Failed to get chat history",
			zap.String("username", username),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get chat history")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"messages": messages}); err != nil {
		h.logger.Error("Failed to encode chat history response", zap.Error(err))
	}
}

// QueryLogs handles GET /api/query-logs
func (h *ChatHandler) QueryLogs(w http.ResponseWriter, r *http.Request) {
	username, ok := h.caller(w, r)
	if !ok {
		return
	}

	entries, err := h.audit.QueryHistory(r.Context(), username, h.limitParam(r, 100))
	if err != nil {
		h.logger.Error("Failed to get query logs",
			zap.String("username", username),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get query logs")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"queries": entries}); err != nil {
		h.logger.Error("Failed to encode query logs response", zap.Error(err))
	}
}

// UsageSummary handles GET /api/usage-summary
func (h *ChatHandler) UsageSummary(w http.ResponseWriter, r *http.Request) {
	usage, err := h.usage.Summary(r.Context())
	if err != nil {
		h.logger.Error("Failed to get usage summary", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get usage summary")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"usage": usage}); err != nil {
		h.logger.Error("Failed to encode usage summary response", zap.Error(err))
	}
}

// writeGenerationError maps pipeline errors to HTTP statuses. Rejections
// are client errors; only backend unavailability is surfaced as a gateway
// problem.
func (h *ChatHandler) writeGenerationError(w http.ResponseWriter, username string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNoSchemaConfigured):
		h.writeError(w, http.StatusBadRequest, "no_schema", err.Error())
	case errors.Is(err, apperrors.ErrOutOfSchema):
		h.writeError(w, http.StatusBadRequest, "out_of_schema", err.Error())
	case errors.Is(err, apperrors.ErrNotReadOnly):
		h.writeError(w, http.StatusBadRequest, "not_read_only", err.Error())
	case errors.Is(err, apperrors.ErrSchemaNotGrounded):
		h.writeError(w, http.StatusBadRequest, "not_grounded", err.Error())
	case errors.Is(err, apperrors.ErrBackendUnavailable):
		h.logger.Error("Generation backend unavailable",
			zap.String("username", username),
			zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "backend_unavailable", "SQL generation backend is unavailable")
	default:
		h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	}
}

// caller resolves the requesting user from the X-User header.
func (h *ChatHandler) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := r.Header.Get("X-User")
	if username == "" {
		h.writeError(w, http.StatusBadRequest, "missing_user", "X-User header is required")
		return "", false
	}
	return username, true
}

func (h *ChatHandler) limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func (h *ChatHandler) writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
