package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/upotato200/caltodo-agent/internal/adapters/http"
	"github.com/upotato200/caltodo-agent/internal/adapters/llm"
	memstore "github.com/upotato200/caltodo-agent/internal/adapters/storage/memory"
	"github.com/upotato200/caltodo-agent/internal/app/chat"
	"github.com/upotato200/caltodo-agent/internal/app/conversation"
	"github.com/upotato200/caltodo-agent/internal/app/summary"
	"github.com/upotato200/caltodo-agent/internal/app/todosync"
)

func newTestServer(t *testing.T, client *llm.MockLLM) http.Handler {
	t.Helper()

	taskStore := memstore.NewTaskStore()
	convStore := memstore.NewConversationStore()

	recorder := conversation.NewService(convStore, "test-model", 0.2)
	syncSvc := todosync.NewService(taskStore)
	chatSvc := chat.NewService(llm.NewChatBot(client), recorder)
	summarySvc := summary.NewService(summary.NewSimple())

	return httpadapter.NewServer(syncSvc, chatSvc, summarySvc, taskStore)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, llm.NewMockLLM())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSyncEndpoint(t *testing.T) {
	srv := newTestServer(t, llm.NewMockLLM())

	body := []byte(`{"todos":[
		{"text":"A","date":"2026-01-05","done":false},
		{"text":"B","date":"2026-01-05","done":true}
	]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/todos/sync", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Synced    int `json:"synced"`
		Requested int `json:"requested"`
		Tasks     []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
			Done bool   `json:"done"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.Requested)
	assert.Equal(t, 2, resp.Synced)
	require.Len(t, resp.Tasks, 2)
	assert.True(t, resp.Tasks[1].Done)
	assert.NotEmpty(t, resp.Tasks[0].ID)
}

func TestChatEndpointSuccess(t *testing.T) {
	client := &llm.MockLLM{Response: "오늘은 일정이 없어요."}
	srv := newTestServer(t, client)

	body := []byte(`{"session_key":"s1","message":"오늘 일정 알려줘"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string `json:"message"`
		Success bool   `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "오늘은 일정이 없어요.", resp.Message)
}

func TestChatEndpointMapsProviderErrors(t *testing.T) {
	client := &llm.MockLLM{Err: errors.New("googleapi: Error 429: resource exhausted")}
	srv := newTestServer(t, client)

	body := []byte(`{"session_key":"s1","message":"요약해줘"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string `json:"message"`
		Success bool   `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "API 요청 한도가 초과되었습니다. 잠시 후 다시 시도해주세요.", resp.Message)
}

func TestChatEndpointRequiresMessage(t *testing.T) {
	srv := newTestServer(t, llm.NewMockLLM())

	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", bytes.NewReader([]byte(`{"message":"  "}`)))
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummaryRangeEndpointEmpty(t *testing.T) {
	srv := newTestServer(t, llm.NewMockLLM())

	req := httptest.NewRequest(http.MethodGet, "/api/summary/range?from=2026-01-01&to=2026-01-07", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Title   string `json:"title"`
		OneLine string `json:"oneLine"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "일정 요약", resp.Title)
	assert.Equal(t, "해당 기간의 일정이 없습니다.", resp.OneLine)
}

func TestSummaryRangeEndpointAfterSync(t *testing.T) {
	srv := newTestServer(t, llm.NewMockLLM())

	sync := []byte(`{"todos":[{"text":"A","date":"2026-01-03","done":false}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/todos/sync", bytes.NewReader(sync))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/summary/range?from=2026-01-01&to=2026-01-07", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OneLine string `json:"oneLine"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "미완료 1건 · 완료 0건 — 대표: A", resp.OneLine)
}
