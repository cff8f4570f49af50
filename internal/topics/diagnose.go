package topics

import (
	"context"
	"errors"

	"github.com/abhisek/hwhelper/internal/resolver"
	"github.com/abhisek/hwhelper/internal/store"
)

// TopicError pairs a topic with the error its lookup produced.
type TopicError struct {
	Topic string
	Err   error
}

// Report is the result of Diagnose.
type Report struct {
	Subject string
	Working map[string]string // topic → question focus
	Order   []string          // working topics in check order
	Missing []string
	Errors  []TopicError
}

// Diagnose resolves the question focus of every active topic of subject
// and sorts the topics into working, missing and failed.
func Diagnose(ctx context.Context, repo store.TopicRepo, r *resolver.Resolver, subject string) (*Report, error) {
	active, err := repo.List(ctx, store.TopicFilter{Subject: subject, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	rep := &Report{Subject: subject, Working: map[string]string{}}
	for _, t := range active {
		focus, err := r.QuestionFocus(ctx, subject, t.Name)
		switch {
		case errors.Is(err, resolver.ErrNotFound), err == nil && focus == "":
			rep.Missing = append(rep.Missing, t.Name)
		case err != nil:
			rep.Errors = append(rep.Errors, TopicError{Topic: t.Name, Err: err})
		default:
			rep.Working[t.Name] = focus
			rep.Order = append(rep.Order, t.Name)
		}
	}
	return rep, nil
}
