package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/hwhelper/internal/export"
	"github.com/abhisek/hwhelper/internal/learning"
	"github.com/abhisek/hwhelper/internal/passage"
)

type learnRequest struct {
	Topic     string `json:"topic"`
	Text      string `json:"text"`
	Questions int    `json:"questions"`
	Summarize bool   `json:"summarize"`
}

// POST /api/learn
func (s *Server) learn(c *gin.Context) {
	if s.deps.Learning == nil {
		fail(c, errUnavailable)
		return
	}
	var req learnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.deps.Learning.Study(c.Request.Context(), req.Topic, req.Text, learning.StudyOptions{
		Questions: req.Questions,
		Summarize: req.Summarize,
	})
	if err != nil && res == nil {
		fail(c, err)
		return
	}
	body := gin.H{
		"session_id": res.SessionID,
		"passage_id": res.PassageID,
		"simplified": res.Simplified,
		"summary":    res.Summary,
		"questions":  res.Questions,
	}
	if err != nil {
		body["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

type wordRequest struct {
	Word string `json:"word"`
	Text string `json:"text"`
}

// POST /api/words
func (s *Server) explainWord(c *gin.Context) {
	if s.deps.Learning == nil {
		fail(c, errUnavailable)
		return
	}
	var req wordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.deps.Learning.ExplainWord(c.Request.Context(), req.Word, req.Text)
	if err != nil && res == nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"word":        res.Word,
		"explanation": res.Explanation,
		"passage_id":  res.PassageID,
		"saved":       res.PassageID != 0,
	})
}

// GET /api/sessions
func (s *Server) listSessions(c *gin.Context) {
	if s.deps.History == nil {
		fail(c, errUnavailable)
		return
	}
	sessions, err := s.deps.History.ListSessions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, gin.H{"id": sess.ID, "topic": sess.Topic, "created_at": sess.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

// GET /api/sessions/:id
func (s *Server) getSession(c *gin.Context) {
	if s.deps.History == nil {
		fail(c, errUnavailable)
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	sess, err := s.deps.History.GetSession(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	passages := make([]gin.H, 0, len(sess.Passages))
	for _, p := range sess.Passages {
		words := make([]gin.H, 0, len(p.Words))
		for _, w := range p.Words {
			words = append(words, gin.H{"word": w.Word, "explanation": w.Explanation})
		}
		passages = append(passages, gin.H{
			"id":         p.ID,
			"original":   p.OriginalText,
			"simplified": p.SimplifiedText,
			"summary":    p.Summary,
			"questions":  p.Questions,
			"words":      words,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         sess.ID,
		"topic":      sess.Topic,
		"created_at": sess.CreatedAt,
		"passages":   passages,
	})
}

// GET /api/sessions/:id/passages/:pid/export?format=txt|pdf
func (s *Server) exportPassage(c *gin.Context) {
	if s.deps.History == nil || s.deps.Exporter == nil {
		fail(c, errUnavailable)
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	pid, ok := intParam(c, "pid")
	if !ok {
		return
	}
	format := c.DefaultQuery("format", export.FormatText)
	if format != export.FormatText && format != export.FormatPDF {
		badRequest(c, fmt.Errorf("format must be %s or %s", export.FormatText, export.FormatPDF))
		return
	}

	sess, err := s.deps.History.GetSession(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	p, err := export.FindPassage(sess, pid)
	if err != nil {
		fail(c, err)
		return
	}
	path, err := s.deps.Exporter.Passage(sess, p, format)
	if err != nil {
		fail(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

// GET /api/passages
func (s *Server) listPassages(c *gin.Context) {
	if s.deps.Library == nil {
		fail(c, errUnavailable)
		return
	}
	names, err := s.deps.Library.List()
	if err != nil {
		fail(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"passages": names})
}

type passageRequest struct {
	Title string `json:"title" form:"title"`
	Text  string `json:"text" form:"text"`
}

// POST /api/passages
// Accepts JSON {title, text} or a multipart form with a "file" upload.
func (s *Server) addPassage(c *gin.Context) {
	if s.deps.Library == nil {
		fail(c, errUnavailable)
		return
	}
	var req passageRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				fail(c, err)
				return
			}
			defer f.Close()
			text, err := passage.ExtractText(fh.Filename, f)
			if err != nil {
				fail(c, err)
				return
			}
			if strings.TrimSpace(req.Text) == "" {
				req.Text = text
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	name, err := s.deps.Library.Save(req.Text, req.Title)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": name})
}

// GET /api/passages/random?save=true
func (s *Server) randomPassage(c *gin.Context) {
	if s.deps.Loader == nil {
		fail(c, errUnavailable)
		return
	}
	loaded, err := s.deps.Loader.Random(c.Request.Context(), c.Query("save") == "true")
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"text":       loaded.Text,
		"source":     loaded.Source,
		"title":      loaded.Title,
		"passage_id": loaded.PassageID,
	})
}
