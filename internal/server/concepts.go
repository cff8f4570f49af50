package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/hwhelper/internal/store"
	"github.com/abhisek/hwhelper/internal/topics"
)

const recentConcepts = 50

type conceptRequest struct {
	DateStart string `json:"date_start"`
	DateEnd   string `json:"date_end"`
	Subject   string `json:"subject" binding:"required"`
	Topic     string `json:"topic" binding:"required"`
	Type      string `json:"type"`
	Notes     string `json:"notes"`
}

func conceptJSON(c store.Concept) gin.H {
	return gin.H{
		"id":         c.ID,
		"date_start": c.DateStart,
		"date_end":   c.DateEnd,
		"subject":    c.Subject,
		"topic":      c.Topic,
		"type":       c.Type,
		"notes":      c.Notes,
	}
}

// GET /api/concepts?from=&to=
func (s *Server) listConcepts(c *gin.Context) {
	if s.deps.Concepts == nil {
		fail(c, errUnavailable)
		return
	}
	var (
		list []store.Concept
		err  error
	)
	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		list, err = s.deps.Concepts.ListRange(c.Request.Context(), from, to)
	} else {
		list, err = s.deps.Concepts.Recent(c.Request.Context(), recentConcepts)
	}
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, cc := range list {
		out = append(out, conceptJSON(cc))
	}
	c.JSON(http.StatusOK, gin.H{"concepts": out})
}

// POST /api/concepts
func (s *Server) addConcept(c *gin.Context) {
	if s.deps.Concepts == nil {
		fail(c, errUnavailable)
		return
	}
	var req conceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.DateStart == "" {
		req.DateStart = time.Now().Format("2006-01-02")
	}
	id, err := s.deps.Concepts.Add(c.Request.Context(), store.Concept{
		DateStart: req.DateStart,
		DateEnd:   req.DateEnd,
		Subject:   req.Subject,
		Topic:     req.Topic,
		Type:      req.Type,
		Notes:     req.Notes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// DELETE /api/concepts/:id
func (s *Server) deleteConcept(c *gin.Context) {
	if s.deps.Concepts == nil {
		fail(c, errUnavailable)
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := s.deps.Concepts.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/concepts/export?from=&to=
func (s *Server) exportConcepts(c *gin.Context) {
	if s.deps.Concepts == nil || s.deps.Exporter == nil {
		fail(c, errUnavailable)
		return
	}
	list, err := s.deps.Concepts.ListRange(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	path, err := s.deps.Exporter.Concepts(list)
	if err != nil {
		fail(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

type newsletterRequest struct {
	Text string `json:"text" form:"text"`
}

// POST /api/newsletter
// Accepts JSON {text} or a multipart form with an "image" upload.
func (s *Server) ingestNewsletter(c *gin.Context) {
	if s.deps.Ingestor == nil {
		fail(c, errUnavailable)
		return
	}
	ctx := c.Request.Context()

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			text := c.PostForm("text")
			if strings.TrimSpace(text) == "" {
				badRequest(c, errors.New("image or text is required"))
				return
			}
			s.ingestText(c, text)
			return
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, err)
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			fail(c, err)
			return
		}
		res, text, err := s.deps.Ingestor.IngestImage(ctx, data, fh.Header.Get("Content-Type"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"text": text, "topics": res.Topics, "subjects": res.Subjects})
		return
	}

	var req newsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.ingestText(c, req.Text)
}

func (s *Server) ingestText(c *gin.Context, text string) {
	res, err := s.deps.Ingestor.Ingest(c.Request.Context(), text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": res.Topics, "subjects": res.Subjects})
}

// GET /api/topics/diagnose?subject=
func (s *Server) diagnoseTopics(c *gin.Context) {
	if s.deps.Topics == nil || s.deps.Resolver == nil {
		fail(c, errUnavailable)
		return
	}
	subject := c.DefaultQuery("subject", s.deps.Subject)
	rep, err := topics.Diagnose(c.Request.Context(), s.deps.Topics, s.deps.Resolver, subject)
	if err != nil {
		fail(c, err)
		return
	}
	working := make([]gin.H, 0, len(rep.Order))
	for _, t := range rep.Order {
		working = append(working, gin.H{"topic": t, "question_focus": rep.Working[t]})
	}
	errs := make([]gin.H, 0, len(rep.Errors))
	for _, e := range rep.Errors {
		errs = append(errs, gin.H{"topic": e.Topic, "error": e.Err.Error()})
	}
	missing := rep.Missing
	if missing == nil {
		missing = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"subject": rep.Subject,
		"working": working,
		"missing": missing,
		"errors":  errs,
	})
}
