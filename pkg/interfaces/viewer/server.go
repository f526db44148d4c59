// Package viewer serves a read-only table view of the inventory file.
//
// Every request re-reads the backing file, so the Reload button simply
// re-submits the current filters. The viewer never writes the file.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/partkeep/partkeep/pkg/application/services"
	"github.com/partkeep/partkeep/pkg/domain/entities"
)

// Server is the read-only HTTP viewer.
type Server struct {
	svc    *services.InventoryService
	path   string
	log    *zap.Logger
	engine *gin.Engine
}

// New creates the viewer over the given service. dbPath is shown in the
// status line. A nil logger is replaced with a no-op logger.
func New(svc *services.InventoryService, dbPath string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{svc: svc, path: dbPath, log: log}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))
	engine.SetHTMLTemplate(template.Must(template.New("index").Parse(indexHTML)))
	engine.GET("/", s.index)
	engine.GET("/api/parts", s.apiParts)
	s.engine = engine
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("viewer listening",
		zap.String("addr", addr), zap.String("db", s.path))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("viewer: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// partRow is the rendered form of one table row, shared by the HTML and
// JSON surfaces.
type partRow struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Voltage  string `json:"voltage"`
	Current  string `json:"current"`
	Quantity int64  `json:"quantity"`
	Notes    string `json:"notes"`
}

// collect loads the file and applies the category and free-text filters.
// The free-text filter searches the same fields as the CLI search command.
// Rows come back sorted by (category, name, id).
func (s *Server) collect(category, query string) ([]partRow, error) {
	keywords := []string{}
	if q := strings.TrimSpace(query); q != "" {
		keywords = append(keywords, q)
	}

	items, err := s.svc.Search(keywords, "")
	if err != nil {
		return nil, err
	}
	if category != "" {
		items = lo.Filter(items, func(sp entities.StoredPart, _ int) bool {
			return strings.EqualFold(strings.TrimSpace(sp.Part.Category), category)
		})
	}

	sort.Slice(items, func(i, j int) bool {
		ci, cj := strings.ToLower(items[i].Part.Category), strings.ToLower(items[j].Part.Category)
		if ci != cj {
			return ci < cj
		}
		ni, nj := strings.ToLower(items[i].Part.Name), strings.ToLower(items[j].Part.Name)
		if ni != nj {
			return ni < nj
		}
		return items[i].ID < items[j].ID
	})

	return lo.Map(items, func(sp entities.StoredPart, _ int) partRow {
		return partRow{
			ID:       sp.ID,
			Category: sp.Part.Category,
			Name:     sp.Part.Name,
			Voltage:  sp.Part.Voltage.Format(),
			Current:  sp.Part.Current.Format(),
			Quantity: sp.Part.Quantity,
			Notes:    sp.Part.Notes,
		}
	}), nil
}

func (s *Server) index(c *gin.Context) {
	category := c.Query("cat")
	query := c.Query("q")

	rows, err := s.collect(category, query)
	if err != nil {
		c.String(http.StatusInternalServerError, "load error: %v", err)
		return
	}
	cats, err := s.svc.Categories()
	if err != nil {
		c.String(http.StatusInternalServerError, "load error: %v", err)
		return
	}
	total, err := s.svc.Count()
	if err != nil {
		c.String(http.StatusInternalServerError, "load error: %v", err)
		return
	}

	c.HTML(http.StatusOK, "index", gin.H{
		"Path":       s.path,
		"Categories": cats,
		"Selected":   category,
		"Query":      query,
		"Rows":       rows,
		"Shown":      len(rows),
		"Total":      total,
	})
}

func (s *Server) apiParts(c *gin.Context) {
	rows, err := s.collect(c.Query("cat"), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"parts": rows, "count": len(rows)})
}

// requestLogger writes one access log line per request.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}
