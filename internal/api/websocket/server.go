package websocket

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/fortuna/gridiron/internal/cache"
)

const ingestStream = "plays.ingested.football_nfl"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server relays ingestion events from the Redis stream to WebSocket clients
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
	cache  *cache.RedisCache
}

// NewServer creates a new WebSocket server
func NewServer(redisCache *cache.RedisCache) *Server {
	return &Server{
		hub:   NewHub(),
		cache: redisCache,
	}
}

// Start starts the WebSocket server and the stream relay
func (s *Server) Start(ctx context.Context, port string) error {
	s.port = port

	go s.hub.Run()
	go s.relayStream(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/ingest", s.handleIngestFeed)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handleIngestFeed handles WebSocket connections for ingestion events
func (s *Server) handleIngestFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// relayStream tails the ingestion stream and broadcasts each event
func (s *Server) relayStream(ctx context.Context) {
	client := s.cache.Client()
	lastID := "$"

	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{ingestStream, lastID},
			Block:   5 * time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			log.Printf("[ws] stream read error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				lastID = message.ID
				if data, ok := message.Values["data"].(string); ok {
					s.hub.Broadcast([]byte(data))
				}
			}
		}
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
