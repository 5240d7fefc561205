package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/antoniostano/simhelper/internal/dispatch"
	"github.com/antoniostano/simhelper/internal/observability"
	"github.com/antoniostano/simhelper/internal/protocol"
)

const (
	maxBodyBytes  = 64 << 10
	genericReply  = "Sorry, something went wrong."
	wsReadTimeout = 120 * time.Second
)

type Dispatcher interface {
	Handle(ctx context.Context, message, lang string) (dispatch.Reply, error)
}

// Info describes the wired backends for the health endpoints.
type Info struct {
	Brain      string
	Translator string
	Memory     string
	Knowledge  int
}

type Options struct {
	AllowAnyOrigin bool
	Info           Info
	Logger         zerolog.Logger
}

type Server struct {
	dispatcher Dispatcher
	metrics    *observability.Metrics
	opts       Options
	logger     zerolog.Logger
	upgrader   websocket.Upgrader
	static     http.Handler
}

func New(dispatcher Dispatcher, metrics *observability.Metrics, opts Options) *Server {
	return &Server{
		dispatcher: dispatcher,
		metrics:    metrics,
		opts:       opts,
		logger:     opts.Logger,
		static:     newStaticHandler(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if opts.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if s.opts.AllowAnyOrigin {
		r.Use(allowAnyOrigin)
	}

	r.Get("/", s.handleRoot)
	r.Get("/ui", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusTemporaryRedirect)
	})
	r.Handle("/ui/*", http.StripPrefix("/ui/", s.static))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/chat/ws", s.handleChatWS)
		r.Get("/perf/latency", s.handlePerfLatency)
	})

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"service": "simhelper",
		"status":  "running",
		"chat":    "/api/chat",
		"ui":      "/ui/",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ready",
		"brain":           s.opts.Info.Brain,
		"translator":      s.opts.Info.Translator,
		"memory_backend":  s.opts.Info.Memory,
		"knowledge_items": s.opts.Info.Knowledge,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, protocol.ErrorResponse{Error: "invalid request body"})
		return
	}
	req, err := protocol.ParseChatRequest(raw)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, protocol.ErrorResponse{Error: "invalid request body"})
		return
	}

	reply, err := s.dispatcher.Handle(r.Context(), req.Message, req.Lang)
	if err != nil {
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("chat request failed")
		}
		respondJSON(w, status, body)
		return
	}
	respondJSON(w, http.StatusOK, protocol.ChatResponse{Reply: reply.Text})
}

// handleChatWS serves the same exchange as POST /api/chat over one websocket:
// each text frame carries a ChatRequest and is answered in order.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(maxBodyBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		if msgType != websocket.TextMessage {
			continue
		}

		var out any
		req, err := protocol.ParseChatRequest(data)
		if err != nil {
			out = protocol.ErrorResponse{Error: "invalid request body"}
		} else if reply, err := s.dispatcher.Handle(ctx, req.Message, req.Lang); err != nil {
			_, out = errorResponse(err)
		} else {
			out = protocol.ChatResponse{Reply: reply.Text}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(out); err != nil {
			return
		}
	}
}

// errorResponse maps dispatch failures to a status and a body that never
// carries upstream detail.
func errorResponse(err error) (int, protocol.ErrorResponse) {
	var inErr *dispatch.InputError
	if errors.As(err, &inErr) {
		return http.StatusBadRequest, protocol.ErrorResponse{Error: "Empty message"}
	}
	var upErr *dispatch.UpstreamError
	if errors.As(err, &upErr) {
		code := "generation_failed"
		if upErr.Source == dispatch.SourceTranslation {
			code = "translation_failed"
		}
		return http.StatusBadGateway, protocol.ErrorResponse{Error: genericReply, Code: code}
	}
	return http.StatusInternalServerError, protocol.ErrorResponse{Error: genericReply, Code: "internal"}
}

func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
