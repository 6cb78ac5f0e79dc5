package insight

import (
	"context"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"

	"github.com/medsentinel/encounter-log/internal/model"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func mockClient(texts ...string) (*mock.LLMClientMock, *mock.SessionMock) {
	session := &mock.SessionMock{
		GenerateFunc: func(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
			return &gollem.Response{Texts: texts}, nil
		},
	}
	client := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return session, nil
		},
	}
	return client, session
}

func TestGollemGenerate(t *testing.T) {
	client, session := mockClient(`{"summary":"s"}`)
	g := NewGollemGenerator(client)

	text, err := g.Generate(context.Background(), "prompt")
	gt.NoError(t, err).Required()
	gt.Value(t, text).Equal(`{"summary":"s"}`)

	calls := session.GenerateCalls()
	gt.Array(t, calls).Length(1).Required()
	gt.Value(t, calls[0].Input[0]).Equal(gollem.Input(gollem.Text("prompt")))
}

func TestGollemDescribeImage(t *testing.T) {
	ctx := context.Background()

	t.Run("sends image then prompt", func(t *testing.T) {
		client, session := mockClient("Chart: ", "HR 112")
		g := NewGollemGenerator(client)

		text, err := g.DescribeImage(ctx, pngHeader, scanPrompt)
		gt.NoError(t, err).Required()
		gt.Value(t, text).Equal("Chart: HR 112")

		calls := session.GenerateCalls()
		gt.Array(t, calls).Length(1).Required()
		gt.Array(t, calls[0].Input).Length(2).Required()
		img, ok := calls[0].Input[0].(gollem.Image)
		gt.Bool(t, ok).True()
		gt.Value(t, img.MimeType()).Equal("image/png")
		gt.Value(t, calls[0].Input[1]).Equal(gollem.Input(gollem.Text(scanPrompt)))
	})

	t.Run("unsupported format", func(t *testing.T) {
		client, session := mockClient("unused")
		g := NewGollemGenerator(client)

		_, err := g.DescribeImage(ctx, []byte("definitely not an image"), scanPrompt)
		gt.Error(t, err)
		gt.Array(t, session.GenerateCalls()).Length(0)
	})

	t.Run("scanner falls back on no text", func(t *testing.T) {
		client, _ := mockClient()
		s, err := NewScanner(NewGollemGenerator(client))
		gt.NoError(t, err).Required()

		text, err := s.Scan(ctx, pngHeader)
		gt.NoError(t, err).Required()
		gt.Value(t, text).Equal(NoClinicalData)
	})
}

func TestResponseSchemaMatchesValidator(t *testing.T) {
	schema := responseSchema()

	risk := schema.Properties["risks"].Items
	severity := risk.Properties["severity"]
	gt.Array(t, severity.Enum).Length(3)
	for _, s := range severity.Enum {
		gt.Bool(t, model.ValidSeverities[s]).True()
	}

	vital := schema.Properties["structuredData"].Properties["vitals"].Items
	gt.Bool(t, vital.Properties["name"].Required).True()
	gt.Bool(t, vital.Properties["value"].Required).True()

	for _, key := range []string{"summary", "risks", "structuredData", "checklist"} {
		gt.Bool(t, schema.Properties[key].Required).True()
	}
}
