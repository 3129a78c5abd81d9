package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/your-org/chat-fusion/internal/audit"
	"github.com/your-org/chat-fusion/internal/fusion"
	"github.com/your-org/chat-fusion/internal/metrics"
	"github.com/your-org/chat-fusion/internal/trace"
)

// ErrorReply is the fixed text returned with an error status when a
// request cannot be handled at all. Upstream provider failures never
// trigger it; those degrade into a normal reply.
const ErrorReply = "Sorry, something went wrong. Please try again."

// Server is the HTTP surface over the fusion orchestrator.
type Server struct {
	orch   *fusion.Orchestrator
	log    *zap.Logger
	audit  *audit.Logger
	rec    metrics.Recorder
	tracer oteltrace.Tracer
}

func NewServer(orch *fusion.Orchestrator, log *zap.Logger, auditLog *audit.Logger, rec metrics.Recorder, tracer oteltrace.Tracer) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if auditLog == nil {
		auditLog = audit.NewLogger("")
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Server{orch: orch, log: log, audit: auditLog, rec: rec, tracer: tracer}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.HandleFunc("/chat", s.handleChat)
	return mux
}

type chatRequest struct {
	Prompt string `json:"prompt"`
	Mode   string `json:"mode"`
	Model  string `json:"model"`
}

// handleChat always answers with a reply string: 200 with the fused
// reply, or 500 with the fixed error text when the request itself is
// unusable.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("chat handler panic", zap.Any("panic", rec))
			s.rec.ObserveRequest("unknown", "panic", time.Since(start))
			writeReply(w, http.StatusInternalServerError, ErrorReply)
		}
	}()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Warn("malformed chat request", zap.Error(err))
		s.rec.ObserveRequest("unknown", "bad_request", time.Since(start))
		_ = s.audit.Write(r.RemoteAddr, req.Mode, req.Model, "bad_request", time.Since(start), err)
		writeReply(w, http.StatusInternalServerError, ErrorReply)
		return
	}

	// normalized values keep client input out of metric labels
	freq := fusion.Request{
		Prompt: req.Prompt,
		Mode:   fusion.Mode(req.Mode),
		Model:  fusion.Model(req.Model),
	}.Normalized()
	mode, model := string(freq.Mode), string(freq.Model)

	ctx := r.Context()
	if s.tracer != nil {
		var span oteltrace.Span
		ctx, span = trace.StartRequestSpan(ctx, s.tracer, mode, model)
		defer span.End()
	}

	reply := s.orch.Reply(ctx, freq)
	duration := time.Since(start)

	s.rec.ObserveRequest(mode, "ok", duration)
	_ = s.audit.Write(r.RemoteAddr, mode, model, "ok", duration, nil)
	s.log.Debug("chat request served",
		zap.String("mode", mode),
		zap.String("model", model),
		zap.Duration("duration", duration))

	writeReply(w, http.StatusOK, reply)
}

func writeReply(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"reply": text})
}

// StartServer serves handler on addr until ctx is canceled.
func StartServer(ctx context.Context, addr string, handler http.Handler) error {
	if addr == "" {
		addr = ":8080"
	}
	s := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()
	return s.ListenAndServe()
}
