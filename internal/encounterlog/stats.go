package encounterlog

import (
	"context"
)

// Stats summarizes the log.
type Stats struct {
	Key       string `json:"key"`
	Count     int    `json:"count"`
	Capacity  int    `json:"capacity"`
	BlobBytes int    `json:"blob_bytes"`
	Subjects  int    `json:"subjects"`
	Analyzed  int    `json:"analyzed"`
}

// Stats returns counts for the current list. BlobBytes is the size of the
// stored value, malformed or not. A medium failure is logged and yields
// zero counts.
func (l *Log) Stats(ctx context.Context) Stats {
	st := Stats{Key: l.key, Capacity: l.capacity}

	l.mu.Lock()
	data, ok, err := l.medium.Get(ctx, l.key)
	l.mu.Unlock()
	if err != nil {
		l.logger.Warn("failed to read encounter log for stats", "key", l.key, "error", err)
		return st
	}
	if !ok {
		return st
	}

	list := l.decode(data)
	st.Count = len(list)
	st.BlobBytes = len(data)

	subjects := map[string]bool{}
	for _, e := range list {
		subjects[e.SubjectRef] = true
		if e.Insights != nil {
			st.Analyzed++
		}
	}
	st.Subjects = len(subjects)
	return st
}
