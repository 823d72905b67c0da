package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vk/codephy/internal/config"
	"github.com/vk/codephy/internal/diag"
	"github.com/vk/codephy/internal/loader"
)

// ErrorResponse is returned for malformed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse reports the outcome of a validation.
type ValidationResponse struct {
	Valid  bool         `json:"valid"`
	Nodes  int          `json:"nodes"`
	Errors []diag.Entry `json:"errors,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestFormat reads ?format=, then the Content-Type, defaulting to JSON.
func requestFormat(c *gin.Context) (config.Format, bool) {
	if q := c.Query("format"); q != "" {
		return config.ParseFormat(q)
	}
	ct := c.ContentType()
	switch {
	case strings.Contains(ct, "yaml"):
		return config.YAML, true
	case strings.Contains(ct, "hcl"):
		return config.HCL, true
	}
	return config.JSON, true
}

// readDocument parses the request body. It writes the error response and
// returns nil on failure.
func (s *Server) readDocument(c *gin.Context) *config.Document {
	format, ok := requestFormat(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported format " + c.Query("format")})
		return nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
			return nil
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return nil
	}

	doc, _, err := loader.Parse(c.Request.Context(), format, "request."+string(format), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return nil
	}
	return doc
}

func (s *Server) handleValidate(c *gin.Context) {
	doc := s.readDocument(c)
	if doc == nil {
		return
	}
	g, errs := s.compiler.Validate(c.Request.Context(), doc)
	resp := ValidationResponse{Valid: len(errs) == 0, Nodes: g.Len(), Errors: errs.Entries()}
	if !resp.Valid {
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCompile(c *gin.Context) {
	doc := s.readDocument(c)
	if doc == nil {
		return
	}
	res, err := s.compiler.Compile(c.Request.Context(), doc)

	var errs diag.List
	switch {
	case err == nil:
		c.JSON(http.StatusOK, res.Summary(doc.Model))
	case errors.As(err, &errs):
		c.JSON(http.StatusUnprocessableEntity, ValidationResponse{Nodes: res.Graph.Len(), Errors: errs.Entries()})
	default:
		var le *diag.LoweringError
		if errors.As(err, &le) {
			status := http.StatusInternalServerError
			var ee *diag.ExpressionEvaluationError
			if errors.As(le, &ee) {
				status = http.StatusUnprocessableEntity
			}
			c.JSON(status, ValidationResponse{Nodes: res.Graph.Len(), Errors: diag.List{le}.Entries()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
