package router

import (
	"encoding/json"
	"fmt"

	"github.com/hudulabs/hudumcp/internal/errortypes"
	"github.com/hudulabs/hudumcp/internal/truncate"
)

// Content is a single block in a tool reply.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the final reply shape returned to the calling host: one text
// content block holding the pretty-printed JSON of the response data.
type Result struct {
	Content []Content `json:"content"`
}

// Text returns the reply's text payload.
func (r *Result) Text() string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

// buildEnvelope wraps possibly-truncated response data into the reply
// shape. When truncation fired and the data carries a summary field, a
// bracketed warning noting the original size is appended to the summary so
// the model sees the cut without parsing truncation metadata.
func buildEnvelope(tr truncate.Result) (*Result, error) {
	data := tr.Data

	if tr.Truncated {
		if m, ok := data.(map[string]interface{}); ok {
			if summary, ok := m["summary"].(string); ok && summary != "" {
				m["summary"] = fmt.Sprintf("%s [Warning: response truncated from %d KB to fit context limits]",
					summary, tr.OriginalSize/1024)
			}
		}
	}

	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, errortypes.InternalError(err, "failed to serialize response data")
	}

	return &Result{
		Content: []Content{{Type: "text", Text: string(text)}},
	}, nil
}
