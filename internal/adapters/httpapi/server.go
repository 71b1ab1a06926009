// Package httpapi exposes the detection engine and the two chatbot
// subsystems over HTTP.
package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/cyberguard/phishing-engine/internal/chatbot"
	"github.com/cyberguard/phishing-engine/internal/core"
	"github.com/cyberguard/phishing-engine/internal/websearch"
)

// Server is the HTTP API surface.
type Server struct {
	app             *fiber.App
	engine          *core.Engine
	retriever       *chatbot.Retriever
	webchat         *websearch.Service
	listenAddr      string
	includeFeatures bool
	defaultTopK     int
	logger          *zap.Logger
}

// NewServer creates the HTTP API around the engine and chat subsystems.
func NewServer(
	engine *core.Engine,
	retriever *chatbot.Retriever,
	webchat *websearch.Service,
	logger *zap.Logger,
	listenAddr string,
	includeFeatures bool,
	defaultTopK int,
) *Server {
	s := &Server{
		engine:          engine,
		retriever:       retriever,
		webchat:         webchat,
		listenAddr:      listenAddr,
		includeFeatures: includeFeatures,
		defaultTopK:     defaultTopK,
		logger:          logger,
	}
	s.app = fiber.New(fiber.Config{
		AppName: "CyberGuard Assistant API",
	})
	s.routes()
	return s
}

// App exposes the fiber application for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Post("/api/phish/predict", s.handlePredict)
	s.app.Post("/api/phish/batch", s.handleBatchPredict)
	s.app.Post("/api/chat", s.handleChat)
	s.app.Post("/api/chat_web", s.handleChatWeb)
}

type predictRequest struct {
	Text            string `json:"text"`
	IncludeFeatures *bool  `json:"include_features"`
}

type batchPredictRequest struct {
	Texts           []string `json:"texts"`
	IncludeFeatures *bool    `json:"include_features"`
}

type chatRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

func (s *Server) handlePredict(c fiber.Ctx) error {
	var req predictRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text required"})
	}

	result, err := s.engine.Predict(c.Context(), req.Text)
	if err != nil {
		return s.engineError(c, err)
	}
	return c.JSON(s.shapeResult(result, req.IncludeFeatures))
}

func (s *Server) handleBatchPredict(c fiber.Ctx) error {
	var req batchPredictRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Texts) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "texts required"})
	}

	results, err := s.engine.BatchPredict(c.Context(), req.Texts)
	if err != nil {
		return s.engineError(c, err)
	}

	shaped := make([]*core.PredictionResult, len(results))
	for i, r := range results {
		shaped[i] = s.shapeResult(r, req.IncludeFeatures)
	}
	return c.JSON(fiber.Map{"results": shaped})
}

func (s *Server) handleChat(c fiber.Ctx) error {
	var req chatRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "question required"})
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}
	return c.JSON(fiber.Map{"results": s.retriever.Ask(req.Question, topK)})
}

func (s *Server) handleChatWeb(c fiber.Ctx) error {
	var req chatRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "question required"})
	}

	answer, err := s.webchat.Answer(c.Context(), req.Question)
	if err != nil {
		s.logger.Error("Web chat failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "web search failed"})
	}
	return c.JSON(answer)
}

// shapeResult applies the caller's include_features preference; the config
// default applies when the request leaves it unset.
func (s *Server) shapeResult(result *core.PredictionResult, includeFeatures *bool) *core.PredictionResult {
	include := s.includeFeatures
	if includeFeatures != nil {
		include = *includeFeatures
	}
	if include || result.Features == nil {
		return result
	}
	shaped := *result
	shaped.Features = nil
	return &shaped
}

// engineError maps the two caller-visible engine errors onto HTTP codes.
func (s *Server) engineError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, core.ErrModelUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		s.logger.Error("Prediction failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

// Start begins serving in the background.
func (s *Server) Start() error {
	s.logger.Info("HTTP API starting", zap.String("address", s.listenAddr))
	go func() {
		if err := s.app.Listen(s.listenAddr); err != nil {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	s.logger.Info("HTTP API stopping")
	return s.app.Shutdown()
}
