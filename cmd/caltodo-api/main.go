package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	httpadapter "github.com/upotato200/caltodo-agent/internal/adapters/http"
	"github.com/upotato200/caltodo-agent/internal/adapters/llm"
	firestorestore "github.com/upotato200/caltodo-agent/internal/adapters/storage/firestore"
	memstore "github.com/upotato200/caltodo-agent/internal/adapters/storage/memory"
	redisstore "github.com/upotato200/caltodo-agent/internal/adapters/storage/redis"
	"github.com/upotato200/caltodo-agent/internal/app/chat"
	"github.com/upotato200/caltodo-agent/internal/app/conversation"
	"github.com/upotato200/caltodo-agent/internal/app/summary"
	"github.com/upotato200/caltodo-agent/internal/app/todosync"
	"github.com/upotato200/caltodo-agent/internal/config"
	"github.com/upotato200/caltodo-agent/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// The strategy choice happens exactly once, here. Nothing branches on
	// cfg.AIEnabled at request time.
	var (
		chatBackend domain.ChatBackend
		summarizer  domain.Summarizer
	)

	if cfg.AIEnabled {
		var client domain.LLMClient
		if os.Getenv("CALTODO_USE_MOCK_LLM") == "1" {
			log.Println("[LLM] Using MOCK LLM client")
			client = llm.NewMockLLM()
		} else {
			log.Printf("[LLM] Using Gemini client (model=%s)", cfg.ModelName)
			gemini, err := llm.NewGeminiClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName, cfg.Temperature)
			if err != nil {
				log.Fatalf("error initializing Gemini client: %v", err)
			}
			client = gemini
		}
		chatBackend = llm.NewChatBot(client)
		summarizer = llm.NewSummarizer(client)
	} else {
		log.Println("[LLM] AI disabled: using fallback chat backend and deterministic summarizer")
		chatBackend = chat.NewFallback()
		summarizer = summary.NewSimple()
	}

	// Task storage: Firestore or Memory
	var taskStore domain.TaskStore
	var fsStore *firestorestore.Store

	switch cfg.TaskBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore task storage (project=%s)", cfg.GCPProjectID)
		var err error
		fsStore, err = firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		taskStore = fsStore
	default:
		log.Println("[STORE] Using in-memory task storage")
		taskStore = memstore.NewTaskStore()
	}

	// Conversation storage: Redis, Firestore or Memory
	var convStore domain.ConversationStore

	switch cfg.SessionBackend {
	case "redis":
		log.Printf("[STORE] Using Redis conversation storage (addr=%s)", cfg.RedisAddr)
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		convStore = redisstore.NewConversationStore(client, 24*time.Hour)
	case "firestore":
		if fsStore == nil {
			var err error
			fsStore, err = firestorestore.NewStore(ctx, cfg.GCPProjectID)
			if err != nil {
				log.Fatalf("error initializing Firestore store: %v", err)
			}
		}
		log.Println("[STORE] Using Firestore conversation storage")
		convStore = fsStore
	default:
		log.Println("[STORE] Using in-memory conversation storage")
		convStore = memstore.NewConversationStore()
	}

	recorder := conversation.NewService(convStore, cfg.ModelName, cfg.Temperature)
	syncSvc := todosync.NewService(taskStore)
	chatSvc := chat.NewService(chatBackend, recorder)
	summarySvc := summary.NewService(summarizer)

	handler := httpadapter.NewServer(syncSvc, chatSvc, summarySvc, taskStore)

	addr := ":" + cfg.Port
	log.Println("caltodo API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
