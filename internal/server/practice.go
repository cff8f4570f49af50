package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/hwhelper/internal/practice"
)

const defaultPracticeSize = 5

type practiceRequest struct {
	N int `json:"n"`
}

type practiceItem struct {
	Index    int      `json:"index"`
	Sentence string   `json:"sentence"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
	Topic    string   `json:"topic,omitempty"`
}

// POST /api/practice
func (s *Server) startPractice(c *gin.Context) {
	if s.deps.Practice == nil {
		fail(c, errUnavailable)
		return
	}
	var req practiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	if req.N <= 0 {
		req.N = defaultPracticeSize
	}
	set, err := s.deps.Practice.Start(c.Request.Context(), req.N)
	if err != nil {
		fail(c, err)
		return
	}
	s.keepRun(set)

	items := make([]practiceItem, 0, len(set.Items))
	for i, it := range set.Items {
		items = append(items, practiceItem{
			Index:    i,
			Sentence: it.Sentence,
			Prompt:   it.Question.Prompt,
			Options:  it.Question.Options,
			Topic:    it.Question.Topic,
		})
	}
	c.JSON(http.StatusOK, gin.H{"run_id": set.RunID, "items": items})
}

type checkRequest struct {
	RunID  string `json:"run_id" binding:"required"`
	Index  int    `json:"index"`
	Choice string `json:"choice" binding:"required"`
}

// POST /api/practice/check
func (s *Server) checkPractice(c *gin.Context) {
	if s.deps.Practice == nil {
		fail(c, errUnavailable)
		return
	}
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	run, ok := s.run(req.RunID)
	if !ok {
		respondError(c, http.StatusNotFound, "not_found", fmt.Errorf("practice run %q not found", req.RunID))
		return
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	set := run.set
	if req.Index < 0 || req.Index >= len(set.Items) {
		badRequest(c, fmt.Errorf("index %d out of range", req.Index))
		return
	}
	fb, err := s.deps.Practice.Check(c.Request.Context(), set, req.Index, req.Choice)
	if err != nil {
		fail(c, err)
		return
	}
	body := gin.H{
		"correct":     fb.Correct,
		"message":     fb.Message,
		"chosen":      fb.Chosen,
		"explanation": fb.Explanation,
	}
	if fb.Correct {
		body["answer"] = fb.Answer
	}
	if done(set) {
		body["summary"] = practice.Summarize(set)
	}
	c.JSON(http.StatusOK, body)
}

func done(set *practice.Set) bool {
	for _, it := range set.Items {
		if !it.Answered {
			return false
		}
	}
	return true
}

// GET /api/hints/:term
func (s *Server) getHint(c *gin.Context) {
	if s.deps.Hints == nil {
		fail(c, errUnavailable)
		return
	}
	term := strings.ToLower(strings.TrimSpace(c.Param("term")))
	hint := s.deps.Hints.Hint(term)
	if hint == "" {
		respondError(c, http.StatusNotFound, "not_found", fmt.Errorf("no hint for %q", term))
		return
	}
	c.JSON(http.StatusOK, gin.H{"term": term, "hint": hint})
}
