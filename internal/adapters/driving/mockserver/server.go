package mockserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driven/api"
	"github.com/custodia-labs/docassist-cli/internal/adapters/driven/completion"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/logger"
)

// DefaultAddr is the listen address used by the mock-server command.
const DefaultAddr = "127.0.0.1:7139"

// maxUploadBytes caps a single uploaded file.
const maxUploadBytes = 32 << 20

const shutdownTimeout = 5 * time.Second

// Config holds mock server behaviour.
type Config struct {
	// ReplyDelay is applied to every chat reply.
	ReplyDelay time.Duration

	// ProcessDelay is applied to every process-document call.
	ProcessDelay time.Duration
}

// storedFile is an upload held in memory.
type storedFile struct {
	doc     domain.Document
	content []byte
}

// Server is the mock document-assistant API.
type Server struct {
	cfg    Config
	engine *gin.Engine
	log    logger.Logger

	mu    sync.RWMutex
	files map[string]*storedFile
}

// New creates a mock server with its routes registered.
func New(cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:   cfg,
		log:   logger.For("mockserver"),
		files: make(map[string]*storedFile),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	engine.MaxMultipartMemory = maxUploadBytes

	engine.GET("/health", s.health)
	apiGroup := engine.Group("/api")
	apiGroup.POST("/"+api.ChatPath, s.chat)
	apiGroup.POST("/"+api.UploadPath, s.upload)
	apiGroup.POST("/"+api.ProcessPath, s.process)
	apiGroup.GET("/files", s.listFiles)
	apiGroup.GET("/files/:id", s.download)

	s.engine = engine
	return s
}

// Handler returns the HTTP handler, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Files returns the stored documents, oldest first.
func (s *Server) Files() []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.files))
	for _, f := range s.files {
		docs = append(docs, f.doc)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].UploadDate.Equal(docs[j].UploadDate) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UploadDate.Before(docs[j].UploadDate)
	})
	return docs
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) health(c *gin.Context) {
	s.mu.RLock()
	n := len(s.files)
	s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"status": "UP", "files": n})
}

func (s *Server) chat(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		abort(c, http.StatusBadRequest, errors.New("message is required"))
		return
	}

	if !s.wait(c, s.cfg.ReplyDelay) {
		return
	}
	c.JSON(http.StatusOK, completion.SimulatedReply(req.Message, req.DocumentIDs, time.Now()))
}

func (s *Server) upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("file field: %w", err))
		return
	}
	f, err := header.Open()
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	id := uuid.NewString()
	doc := domain.Document{
		ID:         id,
		Name:       header.Filename,
		Size:       int64(len(content)),
		MimeType:   header.Header.Get("Content-Type"),
		UploadDate: time.Now(),
		Status:     domain.StatusProcessing,
		URL:        fmt.Sprintf("%s/api/files/%s", baseURL(c), id),
	}

	s.mu.Lock()
	s.files[id] = &storedFile{doc: doc, content: content}
	s.mu.Unlock()

	s.log.Debug("stored %s (%d bytes)", doc.Name, doc.Size)
	c.JSON(http.StatusOK, doc)
}

func (s *Server) process(c *gin.Context) {
	var req api.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	if !s.wait(c, s.cfg.ProcessDelay) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.doc.URL == req.DocumentURL {
			f.doc.Status = domain.StatusReady
			c.Status(http.StatusNoContent)
			return
		}
	}
	abort(c, http.StatusNotFound, fmt.Errorf("no upload at %q", req.DocumentURL))
}

func (s *Server) listFiles(c *gin.Context) {
	c.JSON(http.StatusOK, s.Files())
}

func (s *Server) download(c *gin.Context) {
	s.mu.RLock()
	f, ok := s.files[c.Param("id")]
	s.mu.RUnlock()
	if !ok {
		abort(c, http.StatusNotFound, domain.ErrNotFound)
		return
	}
	c.Data(http.StatusOK, f.doc.MimeType, f.content)
}

// wait sleeps for d or until the client goes away.
func (s *Server) wait(c *gin.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-c.Request.Context().Done():
		c.Abort()
		return false
	}
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
