package encounterlog

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/medsentinel/encounter-log/internal/model"
)

// Import upserts records from an export, which lists newest first. Records
// are applied oldest first so the resulting order matches the export.
// Returns the number of records applied before the first failure.
func (l *Log) Import(ctx context.Context, records []model.Encounter) (int, error) {
	imported := 0
	for i := len(records) - 1; i >= 0; i-- {
		if err := l.Upsert(ctx, records[i]); err != nil {
			return imported, goerr.Wrap(err, "import", goerr.V("id", records[i].ID))
		}
		imported++
	}
	return imported, nil
}
