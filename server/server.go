package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pagegen/chatlog"
	"pagegen/generator"
	"pagegen/render"
	"pagegen/schema"
)

//go:embed templates/index.html
var templatesFS embed.FS

type Server struct {
	agent   *generator.Agent
	log     *chatlog.Log
	logger  *zap.Logger
	page    *template.Template
	timeout time.Duration
}

type Option func(*Server)

// WithTimeout bounds every generation call; zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

func WithLogger(l *zap.Logger) Option { return func(s *Server) { s.logger = l } }

func New(agent *generator.Agent, log *chatlog.Log, opts ...Option) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	if log == nil {
		return nil, errors.New("chat log required")
	}
	page, err := template.New("index.html").Funcs(template.FuncMap{
		"markdown": func(v any) (template.HTML, error) { return render.HTML(render.Markdown(v)) },
	}).ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	s := &Server{agent: agent, log: log, logger: zap.NewNop(), page: page}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /prompt", s.handlePrompt)
	mux.HandleFunc("POST /document", s.handleDocument)
	mux.HandleFunc("POST /element", s.handleElement)
	mux.HandleFunc("POST /elements", s.handleElements)
	mux.HandleFunc("/{$}", s.handleIndex)
	mux.HandleFunc("/{name}", s.handleIndex)
	return s.logMiddleware(mux)
}

// --- Handlers ---

type generateReq struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

type envelope struct {
	Success bool `json:"success"`
	Message any  `json:"message"`
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	s.log.Append(chatlog.RoleUser, req.Message)
	ctx, cancel := s.requestContext(r)
	defer cancel()
	answer, err := s.agent.Prompt(ctx, req.Message)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Append(chatlog.RoleAssistant, answer)
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: answer})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	s.log.Append(chatlog.RoleUser, req.Message)
	ctx, cancel := s.requestContext(r)
	defer cancel()
	doc, err := s.agent.Document(ctx, req.Message)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Append(chatlog.RoleAssistant, doc)
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: doc})
}

func (s *Server) handleElement(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	variant, err := schema.ParseVariant(req.Type)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Message: err.Error()})
		return
	}
	s.log.Append(chatlog.RoleUser, req.Message)
	ctx, cancel := s.requestContext(r)
	defer cancel()
	el, err := s.agent.Element(ctx, req.Message, variant)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Append(chatlog.RoleAssistant, el)
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: el})
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	s.log.Append(chatlog.RoleUser, req.Message)
	ctx, cancel := s.requestContext(r)
	defer cancel()
	els, err := s.agent.Elements(ctx, req.Message)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Append(chatlog.RoleAssistant, els)
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: els})
}

type indexData struct {
	Name    string
	Flash   string
	Entries []chatlog.Entry
}

// handleIndex shows the chat log. A POSTed form field "prompt" is sent to the model first.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data := indexData{Name: r.PathValue("name")}
	if r.Method == http.MethodPost {
		prompt := strings.TrimSpace(r.FormValue("prompt"))
		if prompt == "" {
			data.Flash = "A prompt is required!"
		} else {
			s.log.Append(chatlog.RoleUser, prompt)
			ctx, cancel := s.requestContext(r)
			answer, err := s.agent.Prompt(ctx, prompt)
			cancel()
			if err != nil {
				s.logger.Warn("index prompt failed", zap.Error(err))
				data.Flash = err.Error()
			} else {
				s.log.Append(chatlog.RoleAssistant, answer)
			}
		}
	}
	data.Entries = s.log.Snapshot()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("render index", zap.Error(err))
	}
}

// --- Helpers ---

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (generateReq, bool) {
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body: " + err.Error()})
		return req, false
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "a message is required"})
		return req, false
	}
	return req, true
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(r.Context(), s.timeout)
	}
	return context.WithCancel(r.Context())
}

// fail reports a generation failure. Every error from the agent is a server-side
// failure: the remote call failed, returned nothing, or returned an invalid payload.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr  *schema.ValidationError
		ext   *generator.ExternalCallError
		empty *generator.EmptyResultError
		kind  = "internal"
	)
	switch {
	case errors.As(err, &verr):
		kind = "validation"
	case errors.As(err, &ext):
		kind = "external_call"
	case errors.As(err, &empty):
		kind = "empty_result"
	}
	s.logger.Error("generation failed",
		zap.String("path", r.URL.Path),
		zap.String("kind", kind),
		zap.String("request_id", w.Header().Get(requestIDHeader)),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, envelope{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
