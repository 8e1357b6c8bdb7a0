package artifacts

import (
	"encoding/json"
	"fmt"
)

const (
	source     = "ProfitScout"
	disclaimer = "Educational only; not investment advice."
)

// Envelope is the uniform response shape for a resolved artifact
type Envelope struct {
	Dataset     string      `json:"dataset"`
	ID          string      `json:"id"`
	AsOf        string      `json:"as_of"`
	SummaryMD   *string     `json:"summary_md"`
	Metrics     interface{} `json:"metrics,omitempty"`
	ArtifactURL string      `json:"artifact_url"`
	Source      string      `json:"source"`
	Disclaimer  string      `json:"disclaimer"`
}

// BuildEnvelope turns a resolved artifact's raw bytes into the response shape.
//
// Narrative extensions carry the content verbatim in summary_md. Structured
// content is decoded; a decode failure degrades to narrative text instead of
// failing the request. A decoded mapping has its narrative field (analysis,
// then summary_md) promoted into summary_md with the remainder as metrics;
// any other decoded value becomes metrics as-is.
func BuildEnvelope(dataset, id string, resolved Candidate, content []byte, artifactURL string) Envelope {
	// as_of comes from the embedded date when present, else the object's
	// modification time, expressed as a UTC midnight instant.
	asOfDate := resolved.Date
	if asOfDate == "" {
		asOfDate = resolved.Updated.UTC().Format("2006-01-02")
	}

	env := Envelope{
		Dataset:     dataset,
		ID:          id,
		AsOf:        fmt.Sprintf("%sT00:00:00Z", asOfDate),
		ArtifactURL: artifactURL,
		Source:      source,
		Disclaimer:  disclaimer,
	}

	text := string(content)

	switch resolved.Ext {
	case ".md", ".txt":
		env.SummaryMD = &text

	case ".json":
		var decoded interface{}
		if err := json.Unmarshal(content, &decoded); err != nil {
			// Unparseable structured content is served as narrative text
			env.SummaryMD = &text
			return env
		}

		if mapping, ok := decoded.(map[string]interface{}); ok {
			if analysis, ok := mapping["analysis"].(string); ok {
				env.SummaryMD = &analysis
				delete(mapping, "analysis")
			}
			if summary, ok := mapping["summary_md"].(string); ok {
				env.SummaryMD = &summary
				delete(mapping, "summary_md")
			}
			env.Metrics = mapping
		} else {
			// Arrays and scalars become metrics wholesale
			env.Metrics = decoded
		}
	}

	return env
}
