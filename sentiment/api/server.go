package api

import (
	"io"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/predict"
)

// Server exposes the trained classifier over HTTP: ad-hoc prediction plus
// read-only vocabulary inspection.
type Server struct {
	predictor *predict.Predictor
}

func NewServer(p *predict.Predictor) *Server {
	return &Server{predictor: p}
}

// Register mounts the API routes.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/predict", s.handlePredict)
	e.GET("/v1/vocab/prefix", s.handleVocabPrefix)
}

// PredictRequest is the body of POST /v1/predict.
type PredictRequest struct {
	Text string `json:"text"`
}

// PredictResponse wraps a prediction for one text.
type PredictResponse struct {
	Text       string             `json:"text"`
	Prediction predict.Prediction `json:"prediction"`
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handlePredict(c *echo.Context) error {
	if s.predictor == nil {
		return writeError(c, http.StatusInternalServerError, "no model loaded")
	}
	req, err := decodeJSON[PredictRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, "invalid JSON body: "+err.Error())
	}
	if req.Text == "" {
		return writeBadRequest(c, "text is required")
	}

	out, err := s.predictor.PredictText(c.Request().Context(), req.Text)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, PredictResponse{Text: req.Text, Prediction: *out})
}

func (s *Server) handleVocabPrefix(c *echo.Context) error {
	if s.predictor == nil {
		return writeError(c, http.StatusInternalServerError, "no model loaded")
	}
	prefix := c.QueryParam("q")
	if prefix == "" {
		return writeBadRequest(c, "query parameter q is required")
	}
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return writeBadRequest(c, "limit must be a positive integer")
		}
		limit = n
	}

	entries := s.predictor.Vocab().WithPrefix(prefix, limit)
	return c.JSON(http.StatusOK, map[string]any{
		"prefix":  prefix,
		"entries": entries,
	})
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, msg)
}

func writeError(c *echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{
		"error": map[string]string{"message": msg},
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
