package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/spf13/pflag"

	"github.com/medsentinel/encounter-log/internal/insight"
)

var errAnalyzerDisabled = goerr.New("insight analysis is disabled: set --gemini-project or MEDSENTINEL_GEMINI_PROJECT")

// Gemini holds configuration for the Gemini LLM client.
type Gemini struct {
	projectID string
	location  string
}

// Flags registers the Gemini flags on fs.
func (g *Gemini) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&g.projectID, "gemini-project", "", "Google Cloud project ID for Gemini (default: $MEDSENTINEL_GEMINI_PROJECT)")
	fs.StringVar(&g.location, "gemini-location", "", "Google Cloud location for Gemini (default: $MEDSENTINEL_GEMINI_LOCATION or us-central1)")
}

func (g *Gemini) project() string {
	if g.projectID != "" {
		return g.projectID
	}
	return os.Getenv("MEDSENTINEL_GEMINI_PROJECT")
}

func (g *Gemini) region() string {
	if g.location != "" {
		return g.location
	}
	if env := os.Getenv("MEDSENTINEL_GEMINI_LOCATION"); env != "" {
		return env
	}
	return "us-central1"
}

// Configure creates a Gemini client. Returns nil if no project is configured.
func (g *Gemini) Configure(ctx context.Context) (gollem.LLMClient, error) {
	projectID := g.project()
	if projectID == "" {
		return nil, nil
	}

	client, err := gemini.New(ctx, projectID, g.region())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client",
			goerr.V("project", projectID), goerr.V("location", g.region()))
	}
	return client, nil
}

func (a *app) generator(ctx context.Context) (*insight.GollemGenerator, error) {
	client, err := a.gemini.Configure(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errAnalyzerDisabled
	}
	a.logger.Info("using Gemini", "project", a.gemini.project(), "location", a.gemini.region())
	return insight.NewGollemGenerator(client), nil
}

func (a *app) newAnalyzer(ctx context.Context) (*insight.Analyzer, error) {
	gen, err := a.generator(ctx)
	if err != nil {
		return nil, err
	}
	return insight.NewAnalyzer(gen)
}

// scanInto reads the image at path, scans it, and appends the result to
// content.
func (a *app) scanInto(ctx context.Context, content, path string) (string, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "read image", goerr.V("path", path))
	}
	gen, err := a.generator(ctx)
	if err != nil {
		return "", err
	}
	scanner, err := insight.NewScanner(gen)
	if err != nil {
		return "", err
	}
	scan, err := scanner.Scan(ctx, image)
	if err != nil {
		return "", err
	}
	a.logger.Debug("scanned image", "path", path, "bytes", len(image))
	return insight.AppendScan(content, scan), nil
}
