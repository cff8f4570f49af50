package newsletter

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/abhisek/hwhelper/internal/logger"
)

// OCR reads the text of a newsletter photo or scan.
type OCR interface {
	Text(ctx context.Context, image []byte, mimeType string) (string, error)
}

const ocrTimeout = 60 * time.Second

// VisionOCR is an OCR backed by Google Cloud Vision document text
// detection.
type VisionOCR struct {
	client *vision.ImageAnnotatorClient
	log    *logger.Logger
}

// NewVisionOCR creates a Vision client using credentials from the
// environment.
func NewVisionOCR(ctx context.Context, log *logger.Logger) (*VisionOCR, error) {
	if log == nil {
		log = logger.Nop()
	}
	client, err := vision.NewImageAnnotatorClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &VisionOCR{client: client, log: log.Named("ocr")}, nil
}

// ClientOptionsFromEnv reads GOOGLE_APPLICATION_CREDENTIALS_JSON, then
// GOOGLE_APPLICATION_CREDENTIALS. Either may hold inline JSON or a file
// path. With neither set the client falls back to application default
// credentials.
func ClientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

// Text runs DOCUMENT_TEXT_DETECTION on image and returns the full text
// with line breaks kept, since the parser works line by line.
func (v *VisionOCR) Text(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, ocrTimeout)
	defer cancel()

	req := &visionpb.BatchAnnotateImagesRequest{Requests: []*visionpb.AnnotateImageRequest{{
		Image:    &visionpb.Image{Content: image},
		Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
	}}}
	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", nil
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}
	if r0.FullTextAnnotation == nil {
		return "", nil
	}
	text := strings.ReplaceAll(r0.FullTextAnnotation.Text, "\u00a0", " ")
	v.log.Debug("ocr complete", "mime", mimeType, "chars", len(text))
	return strings.TrimSpace(text), nil
}

// Close releases the Vision client.
func (v *VisionOCR) Close() error {
	return v.client.Close()
}
