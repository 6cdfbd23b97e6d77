package arize

import (
	"context"
	"net/http"
	"time"

	"github.com/spanlens/spanlens/pkg/table"
)

// ExportParams selects which spans to export.
type ExportParams struct {
	ProjectName string
	StartTime   time.Time
	EndTime     time.Time
	// Where is a composed filter predicate, empty for none. Values
	// interpolated into it must have passed the filter package's
	// validation.
	Where string
	// Columns optionally projects the export to specific columns.
	Columns []string
}

// SpanExporter exports spans for a project and time range as a
// columnar table.
type SpanExporter interface {
	ExportSpans(ctx context.Context, params ExportParams) (*table.Table, error)
}

type exportRequest struct {
	SpaceID     string   `json:"space_id"`
	ProjectName string   `json:"project_name"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Where       string   `json:"where,omitempty"`
	Columns     []string `json:"columns,omitempty"`
}

// ExportClient implements SpanExporter over the REST host's span
// export endpoint.
type ExportClient struct {
	rest    *RestClient
	spaceID string
}

// NewExportClient builds a span exporter sharing the REST client's
// transport and credentials.
func NewExportClient(rest *RestClient, spaceID string) *ExportClient {
	return &ExportClient{rest: rest, spaceID: spaceID}
}

// ExportSpans fetches the requested spans as a columnar table.
func (c *ExportClient) ExportSpans(ctx context.Context, params ExportParams) (*table.Table, error) {
	payload := exportRequest{
		SpaceID:     c.spaceID,
		ProjectName: params.ProjectName,
		StartTime:   params.StartTime.UTC().Format(time.RFC3339),
		EndTime:     params.EndTime.UTC().Format(time.RFC3339),
		Where:       params.Where,
		Columns:     params.Columns,
	}

	var out table.Table
	if err := c.rest.request(ctx, http.MethodPost, "/spans/export", nil, payload, &out); err != nil {
		return nil, err
	}
	if out.Columns == nil {
		out.Columns = []string{}
	}
	if out.Rows == nil {
		out.Rows = [][]any{}
	}
	return &out, nil
}
