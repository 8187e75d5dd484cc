package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kaiwahq/kaiwa"
	"github.com/kaiwahq/kaiwa/core"
	"github.com/kaiwahq/kaiwa/logging"
	"github.com/kaiwahq/kaiwa/tool"
)

// Options configure the HTTP server.
type Options struct {
	// Sessions persists conversation turns for /v1/turn. Nil disables
	// history (every turn starts fresh).
	Sessions core.ConversationStore
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Server wraps a gin engine serving the pipeline API.
type Server struct {
	pipeline *kaiwa.Pipeline
	sessions core.ConversationStore
	logger   logging.Logger
	engine   *gin.Engine
}

// NewServer builds the router. The returned Server implements http.Handler.
func NewServer(pipeline *kaiwa.Pipeline, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		pipeline: pipeline,
		sessions: opts.Sessions,
		logger:   opts.Logger,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"status":  "error",
			"message": "Method not allowed.",
		})
	})

	v1 := engine.Group("/v1")
	v1.POST("/tools/execute", s.handleExecute)
	v1.POST("/tools/batch", s.handleBatch)
	v1.POST("/turn", s.handleTurn)

	s.engine = engine
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// statusFor maps an executor error kind onto an HTTP status code.
func statusFor(kind core.ErrorKind) int {
	switch kind {
	case core.ErrorKindNone:
		return http.StatusOK
	case core.ErrorKindNotFound:
		return http.StatusNotFound
	case core.ErrorKindDisabled:
		return http.StatusForbidden
	case core.ErrorKindInvalidArguments:
		return http.StatusBadRequest
	case core.ErrorKindTimeout:
		return http.StatusRequestTimeout
	case core.ErrorKindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// resultBody renders a ToolResult as the uniform response shape.
func resultBody(res core.ToolResult) gin.H {
	body := gin.H{
		"status":  res.Status,
		"message": res.Message,
	}
	if res.Data != nil {
		body["data"] = res.Data
	}
	if res.ErrorKind != core.ErrorKindNone {
		body["error"] = string(res.ErrorKind)
	}
	if len(res.Violations) > 0 {
		body["violations"] = res.Violations
	}
	return body
}

type executeRequest struct {
	ToolName  string         `json:"toolName" binding:"required"`
	ToolArgs  map[string]any `json:"toolArgs"`
	SessionID string         `json:"sessionId"`
	UserID    string         `json:"userId"`
}

func (s *Server) handleExecute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body.",
			"error":   string(core.ErrorKindInvalidArguments),
		})
		return
	}

	res := s.pipeline.Execute(c.Request.Context(), req.ToolName, req.ToolArgs, core.InvocationInfo{
		UserID:    req.UserID,
		SessionID: req.SessionID,
		IPAddress: c.ClientIP(),
	})
	c.JSON(statusFor(res.ErrorKind), resultBody(res))
}

type batchRequest struct {
	ToolCalls []tool.BatchCall `json:"toolCalls" binding:"required"`
	SessionID string           `json:"sessionId"`
	UserID    string           `json:"userId"`
}

func (s *Server) handleBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body.",
			"error":   string(core.ErrorKindInvalidArguments),
		})
		return
	}

	results := s.pipeline.ExecuteBatch(c.Request.Context(), req.ToolCalls, core.InvocationInfo{
		UserID:    req.UserID,
		SessionID: req.SessionID,
		IPAddress: c.ClientIP(),
	})

	bodies := make([]gin.H, len(results))
	for i, res := range results {
		bodies[i] = resultBody(res)
	}
	// Individual failures stay per-entry; the batch itself succeeded.
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Batch complete.",
		"results": bodies,
	})
}

type turnRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	Query     string `json:"query" binding:"required"`
	Locale    string `json:"locale"`
}

func (s *Server) handleTurn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body.",
			"error":   string(core.ErrorKindInvalidArguments),
		})
		return
	}

	ctx := c.Request.Context()
	var history []core.Turn
	if s.sessions != nil {
		turns, err := s.sessions.History(ctx, req.SessionID, 0)
		if err != nil {
			s.logger.Warn("httpapi.turn.history_failed", "session_id", req.SessionID, "error", err)
		} else {
			history = turns
		}
	}

	outcome, err := s.pipeline.Process(ctx, kaiwa.TurnInput{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Query:     req.Query,
		History:   history,
		Locale:    req.Locale,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Turn processing failed.",
			"error":   string(core.ErrorKindInternal),
		})
		return
	}

	if s.sessions != nil {
		if err := s.sessions.Append(ctx, req.SessionID, core.NewTextTurn(core.RoleUser, req.Query)); err != nil {
			s.logger.Warn("httpapi.turn.append_failed", "session_id", req.SessionID, "error", err)
		}
		if text := assistantText(outcome); text != "" {
			if err := s.sessions.Append(ctx, req.SessionID, core.NewTextTurn(core.RoleAssistant, text)); err != nil {
				s.logger.Warn("httpapi.turn.append_failed", "session_id", req.SessionID, "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Turn processed.",
		"data":    outcome,
	})
}

// assistantText flattens a claimed outcome's narratives and step messages
// into one assistant utterance for the session record, so later turns can
// resolve references against both sides of the exchange. Unclaimed turns
// produce no text here; their response is composed by the caller.
func assistantText(outcome *kaiwa.TurnOutcome) string {
	var parts []string
	for _, step := range outcome.StepResults {
		if step.Narrative != "" {
			parts = append(parts, step.Narrative)
		}
		if step.Result != nil && step.Result.Message != "" {
			parts = append(parts, step.Result.Message)
		}
	}
	return strings.Join(parts, " ")
}
