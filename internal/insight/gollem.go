package insight

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// GollemGenerator generates JSON insights through a gollem LLM client.
type GollemGenerator struct {
	client gollem.LLMClient
}

// NewGollemGenerator wraps client as a Generator.
func NewGollemGenerator(client gollem.LLMClient) *GollemGenerator {
	return &GollemGenerator{client: client}
}

func (g *GollemGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	session, err := g.client.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(responseSchema()),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 {
		return "", nil
	}
	return resp.Texts[0], nil
}

// DescribeImage asks the model a free-text question about an image. The
// format is detected from the image bytes.
func (g *GollemGenerator) DescribeImage(ctx context.Context, image []byte, prompt string) (string, error) {
	img, err := gollem.NewImage(image)
	if err != nil {
		return "", goerr.Wrap(err, "unsupported image", goerr.V("bytes", len(image)))
	}

	session, err := g.client.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, img, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	return strings.Join(resp.Texts, ""), nil
}

func stringList(desc string, required bool) *gollem.Parameter {
	return &gollem.Parameter{
		Type:        gollem.TypeArray,
		Description: desc,
		Required:    required,
		Items:       &gollem.Parameter{Type: gollem.TypeString},
	}
}

// responseSchema mirrors model.Insight.
func responseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ClinicalInsight",
		Description: "Structured analysis of a clinical encounter note",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"summary": {
				Type:        gollem.TypeString,
				Description: "Concise clinical summary of the encounter",
				Required:    true,
			},
			"risks": {
				Type:        gollem.TypeArray,
				Description: "Clinical risks identified in the note",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"severity": {
							Type:        gollem.TypeString,
							Description: "Clinical severity of the risk",
							Enum:        []string{"low", "medium", "high"},
							Required:    true,
						},
						"description": {
							Type:        gollem.TypeString,
							Description: "What the risk is and why it matters",
							Required:    true,
						},
					},
				},
			},
			"structuredData": {
				Type:        gollem.TypeObject,
				Description: "Entities extracted from the note",
				Required:    true,
				Properties: map[string]*gollem.Parameter{
					"medications": stringList("Medication names with dose where stated", false),
					"diagnoses":   stringList("Diagnosis names", false),
					"vitals": {
						Type:        gollem.TypeArray,
						Description: "Vital signs as name/value pairs",
						Items: &gollem.Parameter{
							Type: gollem.TypeObject,
							Properties: map[string]*gollem.Parameter{
								"name":  {Type: gollem.TypeString, Required: true},
								"value": {Type: gollem.TypeString, Required: true},
							},
						},
					},
				},
			},
			"checklist": stringList("Suggested follow-up actions, in order", true),
		},
	}
}
