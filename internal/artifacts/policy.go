package artifacts

// extensionPolicy maps a dataset name to its acceptable file extensions,
// most preferred first. Narrative-first datasets list .md before .json.
var extensionPolicy = map[string][]string{
	"recommendations":           {".md", ".json"},
	"business-summaries":        {".md", ".json"},
	"technicals":                {".json"},
	"technicals-analysis":       {".json"},
	"news-analysis":             {".json"},
	"earnings-call-transcripts": {".md", ".txt"},
	"transcript-analysis":       {".md", ".json"},
	"mda-analysis":              {".md", ".json"},
	"financials-analysis":       {".md", ".json"},
	"fundamentals-analysis":     {".md", ".json"},
	"financial-statements":      {".json"},
	"key-metrics":               {".json"},
	"ratios":                    {".json"},
	"headline-news":             {".json"},
	"prices":                    {".json"},
	"price-chart-json":          {".json"},
	"sec-business":              {".md", ".txt"},
	"sec-mda":                   {".md", ".txt"},
	"sec-risk":                  {".md", ".txt"},
}

// defaultExtensions is the preference order for datasets without an explicit policy
var defaultExtensions = []string{".json", ".md", ".txt"}

// ExtensionsFor returns the ordered list of acceptable extensions for a dataset.
// Always returns a non-empty list.
func ExtensionsFor(dataset string) []string {
	if exts, ok := extensionPolicy[dataset]; ok {
		return exts
	}
	return defaultExtensions
}
