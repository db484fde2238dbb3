package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// ErrNoConverter is returned when PDF export is requested without a converter
var ErrNoConverter = errors.New("pdf export is not configured")

// Formats
const (
	FormatHTML  = "html"
	FormatPDF   = "pdf"
	FormatLaTeX = "latex"
)

// Error wraps a failed export step
type Error struct {
	Op    string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export %s failed: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Document is the input of an export
type Document struct {
	UserID   uuid.UUID
	ResumeID uuid.UUID
	Title    string
	Content  *types.ResumeContent
	Display  types.DisplayConfig
}

// Result is an exported PDF. URL and Key are set only when the PDF was uploaded.
type Result struct {
	PDF      []byte
	Filename string
	Key      string
	URL      string
}

// Service renders documents in export mode and converts them to PDF
type Service struct {
	converter Converter
	uploader  Uploader
	expiry    time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates an export service. uploader may be nil to skip uploads.
func NewService(converter Converter, uploader Uploader, expiry time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &Service{
		converter: converter,
		uploader:  uploader,
		expiry:    expiry,
		logger:    logger,
		now:       time.Now,
	}
}

// PDF renders doc and converts it. When an uploader is configured the file is stored
// and a presigned URL is returned alongside the bytes.
func (s *Service) PDF(ctx context.Context, doc Document) (res *Result, err error) {
	start := s.now()
	defer func() {
		metrics.ObserveExport(FormatPDF, s.now().Sub(start).Seconds(), err)
	}()

	if s.converter == nil {
		return nil, ErrNoConverter
	}

	out, err := rendering.Render(doc.Content, doc.Display, rendering.Options{Mode: rendering.ModeExport, Title: doc.Title})
	if err != nil {
		return nil, err
	}

	data, err := s.converter.HTMLToPDF(ctx, out.HTML)
	if err != nil {
		return nil, &Error{Op: "convert", Cause: err}
	}

	res = &Result{PDF: data, Filename: Filename(doc.Title, FormatPDF)}
	if s.uploader == nil {
		return res, nil
	}

	key := objectKey(doc.UserID, doc.ResumeID, start)
	if err := s.uploader.Upload(ctx, key, data, "application/pdf"); err != nil {
		s.logger.Warn("pdf upload failed, returning bytes only",
			zap.String("key", key), zap.Error(err))
		return res, nil
	}
	url, err := s.uploader.PresignedURL(ctx, key, s.expiry)
	if err != nil {
		s.logger.Warn("presign failed", zap.String("key", key), zap.Error(err))
		return res, nil
	}
	res.Key = key
	res.URL = url
	return res, nil
}

// Variant is one rendering of content in a template
type Variant struct {
	Template types.TemplateName
	Data     []byte
}

// RenderAll renders content in every catalog template concurrently, in catalog order.
// format is html, pdf or latex; pdf requires a converter.
func (s *Service) RenderAll(ctx context.Context, content *types.ResumeContent, display types.DisplayConfig, title, format string) ([]Variant, error) {
	catalog := rendering.ListTemplates()
	variants := make([]Variant, len(catalog))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, info := range catalog {
		g.Go(func() error {
			d := display
			d.Template = info.Name
			data, err := s.Render(ctx, content, d, title, format)
			if err != nil {
				return fmt.Errorf("%s: %w", info.Name, err)
			}
			variants[i] = Variant{Template: info.Name, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return variants, nil
}

// Render produces one document in format
func (s *Service) Render(ctx context.Context, content *types.ResumeContent, display types.DisplayConfig, title, format string) ([]byte, error) {
	switch format {
	case FormatHTML, "":
		out, err := rendering.Render(content, display, rendering.Options{Mode: rendering.ModeExport, Title: title})
		if err != nil {
			return nil, err
		}
		return []byte(out.HTML), nil
	case FormatLaTeX:
		tex, err := rendering.RenderLaTeX(content, display)
		if err != nil {
			return nil, err
		}
		return []byte(tex), nil
	case FormatPDF:
		res, err := s.PDF(ctx, Document{Title: title, Content: content, Display: display})
		if err != nil {
			return nil, err
		}
		return res.PDF, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func objectKey(userID, resumeID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s/%d.pdf", userID, resumeID, at.UnixMilli())
}
