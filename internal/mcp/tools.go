package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/tsrecall/tsrecall/internal/analytics"
	"github.com/tsrecall/tsrecall/internal/service"
	"github.com/tsrecall/tsrecall/internal/timeseries"
)

type addInput struct {
	ID       string         `json:"id,omitempty" jsonschema:"Document ID. A fresh UUID is generated when omitted."`
	Values   []float64      `json:"values" jsonschema:"required,Time series values in sample order. Multi-channel samples are interleaved."`
	Channels int            `json:"channels,omitempty" jsonschema:"Number of channels per sample (default: 1)"`
	Metadata map[string]any `json:"metadata,omitempty" jsonschema:"Arbitrary metadata stored with the series"`
}

type addOutput struct {
	DocumentID string `json:"document_id" jsonschema:"ID of the stored document"`
}

type searchInput struct {
	Values   []float64 `json:"values" jsonschema:"required,Query time series values in sample order"`
	Channels int       `json:"channels,omitempty" jsonschema:"Number of channels per sample (default: 1)"`
	K        int       `json:"k,omitempty" jsonschema:"Number of matches to return (default: 5)"`
}

type searchMatch struct {
	ID       string         `json:"id" jsonschema:"Document ID of the match"`
	Distance float64        `json:"distance" jsonschema:"Squared Euclidean distance between embeddings, lower is more similar"`
	Values   []float64      `json:"values" jsonschema:"Stored series values"`
	Channels int            `json:"channels" jsonschema:"Channels per sample of the stored series"`
	Metadata map[string]any `json:"metadata,omitempty" jsonschema:"Metadata stored with the match"`
}

type searchOutput struct {
	Results []searchMatch `json:"results" jsonschema:"Nearest stored series, closest first"`
	Count   int           `json:"count" jsonschema:"Number of matches returned"`
}

type getInput struct {
	ID string `json:"id" jsonschema:"required,Document ID to fetch"`
}

type getOutput struct {
	ID       string         `json:"id"`
	Values   []float64      `json:"values"`
	Channels int            `json:"channels"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type analyzeInput struct {
	Values     []float64 `json:"values" jsonschema:"required,Single-channel time series values"`
	WindowSize int       `json:"window_size,omitempty" jsonschema:"Rolling window for anomaly detection (default: 24)"`
	MaxPeriod  int       `json:"max_period,omitempty" jsonschema:"Longest period considered by seasonality detection (default: 168)"`
}

// registerTools wires the series tools onto the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "series_add",
		Description: "Store a time series with optional metadata and return its document ID. The series is embedded so later searches can find it by shape.",
	}, s.handleAdd)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "series_search",
		Description: "Find the stored time series most similar in shape to a query series. Similarity ignores amplitude and offset.",
	}, s.handleSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "series_get",
		Description: "Fetch a stored time series and its metadata by document ID.",
	}, s.handleGet)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "series_analyze",
		Description: "Analyze a time series for anomalies, seasonality, recurring patterns, and summary statistics.",
	}, s.handleAnalyze)
}

func (s *Server) handleAdd(ctx context.Context, req *mcp.CallToolRequest, args addInput) (*mcp.CallToolResult, addOutput, error) {
	series, err := seriesFromArgs(args.Values, args.Channels)
	if err != nil {
		return nil, addOutput{}, err
	}

	id, err := s.svc.Ingest(ctx, args.ID, series, args.Metadata)
	if err != nil {
		return nil, addOutput{}, err
	}
	s.logger.Debug("series_add", zap.String("id", id), zap.Int("samples", series.Len()))

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Stored series as document %s", id)},
		},
	}, addOutput{DocumentID: id}, nil
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, args searchInput) (*mcp.CallToolResult, searchOutput, error) {
	series, err := seriesFromArgs(args.Values, args.Channels)
	if err != nil {
		return nil, searchOutput{}, err
	}

	k := args.K
	if k == 0 {
		k = service.DefaultSearchK
	}

	matches, err := s.svc.Search(ctx, series, k)
	if err != nil {
		return nil, searchOutput{}, err
	}

	results := make([]searchMatch, 0, len(matches))
	for _, m := range matches {
		results = append(results, searchMatch{
			ID:       m.ID,
			Distance: m.Distance,
			Values:   m.Series.Values(),
			Channels: m.Series.Channels(),
			Metadata: m.Metadata,
		})
	}
	output := searchOutput{Results: results, Count: len(results)}

	text := fmt.Sprintf("Found %d similar series", output.Count)
	if output.Count == 0 {
		text = "No similar series found"
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, output, nil
}

func (s *Server) handleGet(ctx context.Context, req *mcp.CallToolRequest, args getInput) (*mcp.CallToolResult, getOutput, error) {
	if args.ID == "" {
		return nil, getOutput{}, fmt.Errorf("id is required")
	}

	doc, err := s.svc.Get(ctx, args.ID)
	if err != nil {
		return nil, getOutput{}, err
	}

	output := getOutput{
		ID:       doc.ID,
		Values:   doc.Series.Values(),
		Channels: doc.Series.Channels(),
		Metadata: doc.Metadata,
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Document %s holds %d samples", doc.ID, doc.Series.Len())},
		},
	}, output, nil
}

func (s *Server) handleAnalyze(ctx context.Context, req *mcp.CallToolRequest, args analyzeInput) (*mcp.CallToolResult, analytics.Report, error) {
	opts := analytics.Options{
		AnomalyWindow: args.WindowSize,
		MaxPeriod:     args.MaxPeriod,
	}
	report, err := s.svc.Analyze(ctx, args.Values, opts)
	if err != nil {
		return nil, analytics.Report{}, err
	}

	text := fmt.Sprintf("Found %d anomalies and %d recurring patterns", len(report.Anomalies), len(report.Patterns))
	if report.Seasonality.Period > 0 {
		text += fmt.Sprintf("; strongest period is %d samples", report.Seasonality.Period)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, *report, nil
}

// seriesFromArgs builds a series from flat values, defaulting to one channel.
func seriesFromArgs(values []float64, channels int) (timeseries.Series, error) {
	if channels == 0 {
		channels = 1
	}
	return timeseries.New(channels, values)
}
