package newsletter

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/hwhelper/internal/logger"
	"github.com/abhisek/hwhelper/internal/store"
	"github.com/abhisek/hwhelper/internal/topics"
)

// Result reports what one newsletter changed.
type Result struct {
	Topics   []Topic
	Subjects []string // subjects whose hints documents were written
	Synced   int      // topics rows written
	Logged   int      // concepts rows added; repeats of a logged day are skipped
}

// Ingestor applies parsed newsletters to the hints documents, the topics
// table and the concepts log.
type Ingestor struct {
	syncer   *topics.Syncer
	concepts store.ConceptRepo
	ocr      OCR
	now      func() time.Time
	log      *logger.Logger
}

// NewIngestor creates an Ingestor. ocr may be nil when only text input is
// used.
func NewIngestor(syncer *topics.Syncer, concepts store.ConceptRepo, ocr OCR, log *logger.Logger) *Ingestor {
	if log == nil {
		log = logger.Nop()
	}
	return &Ingestor{syncer: syncer, concepts: concepts, ocr: ocr, now: time.Now, log: log.Named("newsletter")}
}

// Ingest parses text, marks every topic active in the hints documents,
// syncs the touched subjects into the topics table and logs a concepts
// row per topic not already logged for that date and subject.
func (in *Ingestor) Ingest(ctx context.Context, text string) (*Result, error) {
	res := &Result{Topics: Parse(text, in.now())}
	if len(res.Topics) == 0 {
		in.log.Info("no topics found in newsletter")
		return res, nil
	}

	seen := make([]topics.Seen, 0, len(res.Topics))
	for _, t := range res.Topics {
		seen = append(seen, topics.Seen{Subject: t.Subject, Topic: t.Topic, Date: t.Date})
	}
	subjects, err := in.syncer.UpdateTopics(seen)
	if err != nil {
		return res, fmt.Errorf("update hints: %w", err)
	}
	res.Subjects = subjects

	for _, subj := range subjects {
		n, err := in.syncer.YAMLToDB(ctx, subj)
		if err != nil {
			return res, fmt.Errorf("sync %s: %w", subj, err)
		}
		res.Synced += n
	}

	for _, t := range res.Topics {
		logged, err := in.concepts.Exists(ctx, t.Date, t.Subject, t.Topic)
		if err != nil {
			return res, fmt.Errorf("check concept %s: %w", t.Topic, err)
		}
		if logged {
			in.log.Debug("concept already logged", "topic", t.Topic, "date", t.Date)
			continue
		}
		if _, err := in.concepts.Add(ctx, store.Concept{
			DateStart: t.Date,
			Subject:   t.Subject,
			Topic:     t.Topic,
			Type:      t.Subject,
		}); err != nil {
			return res, fmt.Errorf("log concept %s: %w", t.Topic, err)
		}
		res.Logged++
	}
	in.log.Info("ingested newsletter", "topics", len(res.Topics), "logged", res.Logged, "subjects", subjects)
	return res, nil
}

// IngestImage OCRs a newsletter image and ingests the text.
func (in *Ingestor) IngestImage(ctx context.Context, image []byte, mimeType string) (*Result, string, error) {
	if in.ocr == nil {
		return nil, "", fmt.Errorf("ocr is not configured")
	}
	text, err := in.ocr.Text(ctx, image, mimeType)
	if err != nil {
		return nil, "", fmt.Errorf("ocr: %w", err)
	}
	res, err := in.Ingest(ctx, text)
	return res, text, err
}
