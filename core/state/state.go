package state

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"dropbox-comments/core/reconcile"
	"dropbox-comments/core/utils"
)

// timeLayout matches the on-disk format of last_polled: seconds precision with
// a numeric offset ("+00:00" for UTC).
const timeLayout = "2006-01-02T15:04:05-07:00"

// ProcessedState is the durable record of completed work.
type ProcessedState struct {
	// ProcessedIDs holds every event id already handled.
	ProcessedIDs map[string]struct{}

	// FileRowCache maps a file name to the row it was last matched to.
	FileRowCache map[string]reconcile.FileRowBinding

	// LastPolled is the time of the last completed poll, nil if never polled.
	LastPolled *time.Time
}

// New returns an empty state.
func New() *ProcessedState {
	return &ProcessedState{
		ProcessedIDs: make(map[string]struct{}),
		FileRowCache: make(map[string]reconcile.FileRowBinding),
	}
}

// Has reports whether id was already processed.
func (s *ProcessedState) Has(id string) bool {
	_, ok := s.ProcessedIDs[id]
	return ok
}

// MarkProcessed records id as processed.
func (s *ProcessedState) MarkProcessed(id string) {
	s.ProcessedIDs[id] = struct{}{}
}

// SortedIDs returns the processed ids in ascending order.
func (s *ProcessedState) SortedIDs() []string {
	ids := make([]string, 0, len(s.ProcessedIDs))
	for id := range s.ProcessedIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Touch sets LastPolled to t truncated to seconds, in UTC.
func (s *ProcessedState) Touch(t time.Time) {
	polled := t.UTC().Truncate(time.Second)
	s.LastPolled = &polled
}

// Clone returns a deep copy.
func (s *ProcessedState) Clone() *ProcessedState {
	out := New()
	for id := range s.ProcessedIDs {
		out.ProcessedIDs[id] = struct{}{}
	}
	for name, binding := range s.FileRowCache {
		out.FileRowCache[name] = binding
	}
	if s.LastPolled != nil {
		polled := *s.LastPolled
		out.LastPolled = &polled
	}
	return out
}

// stateFile is the on-disk layout. Field order is alphabetical so the output
// is stable.
type stateFile struct {
	FileRowCache map[string]reconcile.FileRowBinding `json:"file_row_cache"`
	LastPolled   *string                             `json:"last_polled"`
	ProcessedIDs []string                            `json:"processed_comment_ids"`
}

// Marshal encodes the state as indented JSON followed by a newline.
func (s *ProcessedState) Marshal() ([]byte, error) {
	file := stateFile{
		FileRowCache: s.FileRowCache,
		ProcessedIDs: s.SortedIDs(),
	}
	if file.FileRowCache == nil {
		file.FileRowCache = map[string]reconcile.FileRowBinding{}
	}
	if s.LastPolled != nil {
		polled := s.LastPolled.Format(timeLayout)
		file.LastPolled = &polled
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a state file. Unknown keys are ignored, missing keys
// default to empty values, and malformed entries are skipped.
func Unmarshal(data []byte) (*ProcessedState, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	st := New()

	if msg, ok := raw["processed_comment_ids"]; ok {
		var ids []any
		if err := json.Unmarshal(msg, &ids); err == nil {
			for _, id := range ids {
				if str, ok := id.(string); ok {
					st.ProcessedIDs[str] = struct{}{}
				}
			}
		}
	}

	if msg, ok := raw["file_row_cache"]; ok {
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(msg, &entries); err == nil {
			for name, entry := range entries {
				var fields map[string]any
				if err := json.Unmarshal(entry, &fields); err != nil {
					continue
				}
				row := utils.ToInt(fields["row_number"])
				if row <= 0 {
					continue
				}
				st.FileRowCache[name] = reconcile.FileRowBinding{
					RowNumber: row,
					Title:     utils.ToString(fields["title"]),
				}
			}
		}
	}

	if msg, ok := raw["last_polled"]; ok {
		var polled *string
		if err := json.Unmarshal(msg, &polled); err == nil && polled != nil {
			if t, err := time.Parse(time.RFC3339, *polled); err == nil {
				st.LastPolled = &t
			}
		}
	}

	return st, nil
}
