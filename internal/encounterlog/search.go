package encounterlog

import (
	"context"
	"strings"

	"github.com/medsentinel/encounter-log/internal/model"
)

// SearchParams holds parameters for searching encounters.
type SearchParams struct {
	Query      string
	SubjectRef string
	Limit      int
}

// Search returns encounters whose content, author, or insight text contains
// the query (case-insensitive), newest first. An empty query matches all.
func (l *Log) Search(ctx context.Context, p SearchParams) []model.Encounter {
	limit := p.Limit
	if limit <= 0 {
		limit = l.capacity
	}
	q := strings.ToLower(strings.TrimSpace(p.Query))

	results := []model.Encounter{}
	for _, e := range l.ListAll(ctx) {
		if p.SubjectRef != "" && e.SubjectRef != p.SubjectRef {
			continue
		}
		if q != "" && !matches(e, q) {
			continue
		}
		results = append(results, e)
		if len(results) == limit {
			break
		}
	}
	return results
}

func matches(e model.Encounter, q string) bool {
	fields := []string{e.Content, e.Author}
	if in := e.Insights; in != nil {
		fields = append(fields, in.Summary)
		fields = append(fields, in.StructuredData.Medications...)
		fields = append(fields, in.StructuredData.Diagnoses...)
		for _, r := range in.Risks {
			fields = append(fields, r.Description)
		}
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
