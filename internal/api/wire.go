package api

import "encoding/json"

// Wire shapes for the three backend contracts, exactly as observed. Nothing
// outside this package sees them; normalize.go converts to internal types at
// the boundary.

// =============================================================================
// GENERATE
// =============================================================================

type generateRequestWire struct {
	Topic          string  `json:"topic"`
	Tone           string  `json:"tone"`
	ExpertiseLevel string  `json:"expertise_level"`
	Variants       int     `json:"variants"`
	MaxLength      int     `json:"max_length,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
}

// resultFieldsWire are the content fields of a generation response. The
// server emits them either at the top level, nested under "result", or both;
// the normalizer checks both locations per field.
type resultFieldsWire struct {
	Narrative      *narrativeWire     `json:"narrative"`
	Images         []imageWire        `json:"images"`
	Visualizations *visualizationWire `json:"visualizations"`
	Data           *sourceWire        `json:"data"`
}

type generateResponseWire struct {
	Success        bool   `json:"success"`
	Error          string `json:"error"`
	Topic          string `json:"topic"`
	ExpertiseLevel string `json:"expertise_level"`

	resultFieldsWire
	Result *resultFieldsWire `json:"result"`
}

type narrativeWire struct {
	Narrative      string `json:"narrative"`
	Bullets        string `json:"bullets"`
	Prompt         string `json:"prompt"`
	Model          string `json:"model"`
	ExpertiseLevel string `json:"expertise_level"`
	CreatedAt      string `json:"created_at"`
}

type imageWire struct {
	URL          string `json:"url"`
	Style        string `json:"style"`
	Prompt       string `json:"prompt"`
	FilePath     string `json:"file_path"`
	ModelVersion string `json:"model_version"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	TopicID      string `json:"topic_id"`
}

// =============================================================================
// VISUALIZATIONS
// =============================================================================

type visualizationWire struct {
	Timeline    *plotlyFigureWire `json:"timeline"`
	CategoryBar *plotlyFigureWire `json:"category_bar"`
	ConceptMap  *conceptMapWire   `json:"concept_map"`
	Error       string            `json:"error"`
}

// plotlyFigureWire is the data/layout pair the backend encodes its figures
// as. Trace axes hold numbers or strings depending on the chart; decoding
// keeps both.
type plotlyFigureWire struct {
	Data   []plotlyTraceWire `json:"data"`
	Layout plotlyLayoutWire  `json:"layout"`
}

type plotlyTraceWire struct {
	Name string   `json:"name"`
	X    []any    `json:"x"`
	Y    []any    `json:"y"`
	Text []string `json:"text"`
}

// plotlyLayoutWire keeps only the title; the layout is otherwise styling we
// re-derive locally. Title arrives as a bare string or as {"text": ...}.
type plotlyLayoutWire struct {
	Title any `json:"title"`
}

type conceptMapWire struct {
	Title string `json:"title"`
	Nodes []struct {
		ID    string `json:"id"`
		Group int    `json:"group"`
	} `json:"nodes"`
	Links []struct {
		Source string  `json:"source"`
		Target string  `json:"target"`
		Value  float64 `json:"value"`
	} `json:"links"`
}

// =============================================================================
// SOURCES
// =============================================================================

type sourceWire struct {
	Wikipedia *struct {
		Summary string `json:"summary"`
		URL     string `json:"url"`
	} `json:"wikipedia"`
	DBpedia *struct {
		Abstract    string   `json:"abstract"`
		Categories  []string `json:"categories"`
		ResourceURI string   `json:"resource_uri"`
	} `json:"dbpedia"`
	News []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Publisher   string `json:"publisher"`
		PublishedAt string `json:"published_at"`
		Description string `json:"description"`
		Source      string `json:"source"`
	} `json:"news"`
}

// =============================================================================
// CONVERSATION
// =============================================================================

type conversationRequestWire struct {
	Topic               string             `json:"topic"`
	Question            string             `json:"question"`
	ConversationHistory []conversationTurn `json:"conversation_history"`
	Tone                string             `json:"tone"`
	Temperature         float64            `json:"temperature"`
}

type conversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type conversationResponseWire struct {
	Success    bool     `json:"success"`
	Error      string   `json:"error"`
	Response   string   `json:"response"`
	References []string `json:"references"`
}

// =============================================================================
// STATUS & RELATED
// =============================================================================

// statusResponseWire accepts both observed status shapes: a flat
// `status: "ok"` string with an `apis` array, and a keyed
// `status: {<service>: {available}}` map with a separate `overall` field.
type statusResponseWire struct {
	Success bool            `json:"success"`
	Status  json.RawMessage `json:"status"`
	Overall string          `json:"overall"`
	Version string          `json:"version"`
	APIs    []apiStatusWire `json:"apis"`
}

type apiStatusWire struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // ok, error, missing, unknown
	Message string `json:"message"`
}

type serviceStatusWire struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type relatedResponseWire struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error"`
	Topic         string   `json:"topic"`
	RelatedTopics []string `json:"related_topics"`
}
