package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tsrecall/tsrecall/internal/embedding"
	"github.com/tsrecall/tsrecall/internal/service"
	"github.com/tsrecall/tsrecall/internal/store"
	"github.com/tsrecall/tsrecall/internal/timeseries"
	"github.com/tsrecall/tsrecall/internal/vectorindex"
)

//go:embed index.html
var indexHTML string

// UploadResponse is the response body for POST /upload.
type UploadResponse struct {
	Status     string `json:"status"`
	DocumentID string `json:"document_id"`
}

// SearchResponse is the response body for POST /search.
type SearchResponse struct {
	Results []store.Match `json:"results"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleRoot serves the web interface.
func (s *Server) handleRoot(c echo.Context) error {
	return c.HTML(http.StatusOK, indexHTML)
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleUpload stores an uploaded CSV time series with optional metadata
// and returns the generated document ID.
func (s *Server) handleUpload(c echo.Context) error {
	series, err := s.seriesFromUpload(c)
	if err != nil {
		return err
	}

	metadata, err := metadataFromForm(c)
	if err != nil {
		return err
	}

	id, err := s.svc.Ingest(c.Request().Context(), "", series, metadata)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, UploadResponse{Status: "success", DocumentID: id})
}

// handleSearch embeds an uploaded CSV query and returns the k nearest
// stored series. k comes from the query string or a form field of the
// same name and defaults to 5.
func (s *Server) handleSearch(c echo.Context) error {
	series, err := s.seriesFromUpload(c)
	if err != nil {
		return err
	}

	k := service.DefaultSearchK
	raw := c.QueryParam("k")
	if raw == "" {
		raw = c.FormValue("k")
	}
	if raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "k must be an integer")
		}
		k = parsed
	}

	matches, err := s.svc.Search(c.Request().Context(), series, k)
	if err != nil {
		return domainError(err)
	}
	s.metrics.searches.Inc()

	if matches == nil {
		matches = []store.Match{}
	}
	return c.JSON(http.StatusOK, SearchResponse{Results: matches})
}

// handleDocument returns a stored document by ID.
func (s *Server) handleDocument(c echo.Context) error {
	doc, err := s.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "document not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// seriesFromUpload parses the CSV file attached to the "file" form field.
func (s *Server) seriesFromUpload(c echo.Context) (timeseries.Series, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return timeseries.Series{}, echo.NewHTTPError(http.StatusBadRequest, "file field is required")
	}

	f, err := fh.Open()
	if err != nil {
		s.logger.Warn("opening upload", zap.Error(err))
		return timeseries.Series{}, echo.NewHTTPError(http.StatusBadRequest, "reading upload: "+err.Error())
	}
	defer f.Close()

	series, err := timeseries.ReadCSV(f)
	if err != nil {
		return timeseries.Series{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return series, nil
}

// metadataFromForm decodes the optional "metadata" form field as a JSON
// object. An absent or empty field yields nil metadata.
func metadataFromForm(c echo.Context) (map[string]any, error) {
	raw := c.FormValue("metadata")
	if raw == "" {
		return nil, nil
	}

	var metadata map[string]any
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "metadata must be a JSON object")
	}
	return metadata, nil
}

// domainError converts validation failures into 400 responses and leaves
// anything else to the default error handler.
func domainError(err error) error {
	switch {
	case errors.Is(err, embedding.ErrEmptySeries),
		errors.Is(err, store.ErrMissingEmbedding),
		errors.Is(err, vectorindex.ErrDimensionMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}
