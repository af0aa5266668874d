// Package agatehttp exposes a loaded agate.Table over HTTP: schema
// introspection, a POST aggregate endpoint, and a streaming row
// export. Unlike agateio's readers/writers, this is not grounded on
// the teacher's tabular loaders — it is new code written in the
// teacher's own gin-server idiom (internal/api/server.go's
// router/middleware/graceful-shutdown shape), applied to a read-only
// query surface instead of a search API.
package agatehttp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/wireservice/agate-go"
)

// Server serves one loaded Table over HTTP.
type Server struct {
	table  *agate.Table
	router *gin.Engine
	logger *slog.Logger

	Host string
	Port int
}

// NewServer builds a Server around an already-loaded Table, with
// Host/Port set to 0.0.0.0:8282, mirroring the teacher's config-driven
// host/port default (here hardcoded since agatehttp has no config file
// of its own). Start listens on whatever Host/Port hold; it does not
// substitute a default for zero values.
func NewServer(table *agate.Table) *Server {
	return &Server{table: table, Host: "0.0.0.0", Port: 8282, logger: slog.Default()}
}

func (s *Server) setupRoutes() {
	s.router.GET("/schema", s.handleSchema)
	s.router.POST("/aggregate", s.handleAggregate)
	s.router.GET("/rows/stream", s.handleRowsStream)
}

// Start runs the HTTP server until ctx is canceled, then shuts down
// gracefully, the same lifecycle as the teacher's Server.Start.
func (s *Server) Start(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	s.router = router
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	s.logger.Info("starting agatehttp server", "address", addr)

	httpServer := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down agatehttp server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// schemaColumn is the wire shape for GET /schema.
type schemaColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleSchema(c *gin.Context) {
	names := s.table.ColumnNames()
	types := s.table.ColumnTypes()
	columns := make([]schemaColumn, len(names))
	for i, name := range names {
		columns[i] = schemaColumn{Name: name, Type: types[i].Name()}
	}
	c.JSON(http.StatusOK, gin.H{
		"columns": columns,
		"rows":    s.table.Len(),
	})
}

// aggregateRequest names one aggregation to run over the whole table,
// per spec.md §4.4's Aggregation contract: "kind" selects the
// concrete Aggregation (Count, Sum, Mean, ...), "column" names its
// input column where applicable.
type aggregateRequest struct {
	Kind   string `json:"kind" binding:"required"`
	Column string `json:"column"`
}

func (s *Server) handleAggregate(c *gin.Context) {
	var req aggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agg, err := aggregationByKind(req.Kind, req.Column)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.table.Aggregate(c.Request.Context(), agg)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if agate.IsNull(result) {
		c.JSON(http.StatusOK, gin.H{"result": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": fmt.Sprintf("%v", result)})
}

// handleRowsStream streams every row as a Server-Sent Event instead of
// buffering the whole response body, the same "don't materialize
// everything before you have to" principle spec.md's bins operation
// applies to histogramming, now applied to the HTTP export path.
func (s *Server) handleRowsStream(c *gin.Context) {
	names := s.table.ColumnNames()
	types := s.table.ColumnTypes()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	rows := s.table.Rows()
	i := 0
	c.Stream(func(w io.Writer) bool {
		if i >= len(rows) {
			return false
		}
		row := rows[i]
		record := make(map[string]any, len(names))
		for j, name := range names {
			v := row.At(j)
			if agate.IsNull(v) {
				record[name] = nil
				continue
			}
			record[name] = types[j].CastToJSON(v)
		}
		sse.Encode(w, sse.Event{Event: "row", Data: record})
		i++
		return true
	})
}

// aggregationByKind mirrors cmd/agatecli's agg-spec parser, mapping a
// wire-level kind name onto a concrete Aggregation.
func aggregationByKind(kind, column string) (agate.Aggregation, error) {
	switch strings.ToLower(kind) {
	case "count":
		return agate.NewCount(), nil
	case "sum":
		return &agate.Sum{Column: column}, nil
	case "mean":
		return &agate.Mean{Column: column}, nil
	case "median":
		return &agate.Median{Column: column}, nil
	case "min":
		return &agate.Min{Column: column}, nil
	case "max":
		return &agate.Max{Column: column}, nil
	case "stdev":
		return &agate.StDev{Column: column}, nil
	case "mode":
		return &agate.Mode{Column: column}, nil
	default:
		return nil, fmt.Errorf("agatehttp: unknown aggregation kind %q", kind)
	}
}
