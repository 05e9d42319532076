package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/upotato200/caltodo-agent/internal/app/chat"
	"github.com/upotato200/caltodo-agent/internal/app/summary"
	"github.com/upotato200/caltodo-agent/internal/app/todosync"
	"github.com/upotato200/caltodo-agent/internal/domain"
	"github.com/upotato200/caltodo-agent/internal/observability"
)

type Server struct {
	syncSvc    *todosync.Service
	chatSvc    *chat.Service
	summarySvc *summary.Service
	tasks      domain.TaskStore
	now        func() time.Time
}

func NewServer(
	syncSvc *todosync.Service,
	chatSvc *chat.Service,
	summarySvc *summary.Service,
	tasks domain.TaskStore,
) http.Handler {
	s := &Server{
		syncSvc:    syncSvc,
		chatSvc:    chatSvc,
		summarySvc: summarySvc,
		tasks:      tasks,
		now:        time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/todos/sync", s.handleSync)
	mux.HandleFunc("/api/chat/message", s.handleChat)
	mux.HandleFunc("/api/summary/range", s.handleSummaryRange)

	return chainMiddlewares(mux, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type syncRequest struct {
	Todos []todosync.Item `json:"todos"`
}

type taskResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
	Date string `json:"date"`
}

type syncResponse struct {
	Tasks     []taskResponse `json:"tasks"`
	Synced    int            `json:"synced"`
	Requested int            `json:"requested"`
}

type chatRequest struct {
	SessionKey string        `json:"session_key,omitempty"`
	Message    string        `json:"message"`
	History    []domain.Turn `json:"history,omitempty"`
}

type chatResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	Success   bool   `json:"success"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	tasks := s.syncSvc.Sync(r.Context(), req.Todos)

	resp := syncResponse{
		Tasks:     make([]taskResponse, 0, len(tasks)),
		Synced:    len(tasks),
		Requested: len(req.Todos),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(t))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(w, "message is required")
		return
	}

	today := s.now().Format("2006-01-02")

	key := domain.SessionKey(req.SessionKey)
	if key == "" {
		// conflates all same-day callers into one conversation; callers
		// wanting isolation must pass their own key
		key = domain.SessionKey("session-" + today)
	}

	// today's tasks give the model context; a failed fetch just means no
	// context, not a failed chat
	contextTasks, err := s.tasks.FindTasksByDate(r.Context(), today)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("context task fetch failed", "error", err)
		contextTasks = nil
	}

	reply, err := s.chatSvc.Chat(r.Context(), chat.Input{
		SessionKey:   key,
		Message:      req.Message,
		History:      req.History,
		ContextTasks: contextTasks,
	})
	if err != nil {
		writeJSON(w, http.StatusOK, chatResponse{
			Message:   chatErrorMessage(domain.ProviderKind(err)),
			Timestamp: s.now().UnixMilli(),
			Success:   false,
		})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Message:   reply,
		Timestamp: s.now().UnixMilli(),
		Success:   true,
	})
}

func (s *Server) handleSummaryRange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		badRequest(w, "from and to are required")
		return
	}

	var (
		tasks []*domain.Task
		err   error
	)
	if from == to {
		tasks, err = s.tasks.FindTasksByDate(r.Context(), from)
	} else {
		tasks, err = s.tasks.FindTasksByDateRange(r.Context(), from, to)
	}
	if err != nil {
		// summarize what we have: nothing
		observability.LoggerFromContext(r.Context()).Error("task fetch failed", "error", err)
		tasks = nil
	}

	result := s.summarySvc.Summarize(r.Context(), domain.SummarizeCommand{
		From:  from,
		To:    to,
		Tasks: tasks,
	})

	writeJSON(w, http.StatusOK, result)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:   string(t.ID),
		Text: t.Text,
		Done: t.Done,
		Date: t.Date,
	}
}

// chatErrorMessage maps a provider error kind to the user-facing Korean
// message. The boundary never inspects error text.
func chatErrorMessage(kind domain.ProviderErrorKind) string {
	switch kind {
	case domain.KindQuotaExceeded:
		return "AI 할당량이 초과되었습니다. 잠시 후 다시 시도해주세요."
	case domain.KindRateLimited:
		return "API 요청 한도가 초과되었습니다. 잠시 후 다시 시도해주세요."
	case domain.KindTimedOut:
		return "응답 시간이 초과되었습니다. 다시 시도해주세요."
	case domain.KindUnauthorized:
		return "API 키 인증에 실패했습니다. 설정을 확인해주세요."
	default:
		return "죄송합니다. 일시적인 오류가 발생했습니다. 다시 시도해주세요."
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
