package insight

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// NoClinicalData is the scan result when the model returns no text.
const NoClinicalData = "No clinical data detected in image."

const scanPrompt = "Identify any clinical information in this image: medication labels, chart data, or visual symptoms. Be extremely clinical and precise."

var ErrEmptyImage = goerr.New("image is empty")

// Describer answers a free-text prompt about an image.
type Describer interface {
	DescribeImage(ctx context.Context, image []byte, prompt string) (string, error)
}

// Scanner reads clinical information off photographed labels, charts, and
// visible symptoms.
type Scanner struct {
	d Describer
}

func NewScanner(d Describer) (*Scanner, error) {
	if d == nil {
		return nil, goerr.New("describer is required")
	}
	return &Scanner{d: d}, nil
}

// Scan returns the clinical text found in image, or NoClinicalData when the
// model has nothing to report.
func (s *Scanner) Scan(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", goerr.Wrap(ErrEmptyImage, "scan")
	}

	text, err := s.d.DescribeImage(ctx, image, scanPrompt)
	if err != nil {
		return "", goerr.Wrap(errors.Join(ErrGeneration, err), "scan image", goerr.V("bytes", len(image)))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return NoClinicalData, nil
	}
	return text, nil
}

// AppendScan adds a scan result to note content as a "[Clinical Scan]"
// paragraph.
func AppendScan(content, scan string) string {
	line := "[Clinical Scan]: " + scan
	if content == "" {
		return line
	}
	return content + "\n\n" + line
}
