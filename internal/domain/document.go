package domain

// Metadata holds the normalized legal metadata attached to a document.
// Sections and Acts are stored in normalized form (see internal/normalize);
// comparisons against filters use the normalized tokens only. The raw forms
// may additionally be kept for display.
type Metadata struct {
	DocumentType string
	SourceName   string
	Sections     []string
	Acts         []string
	Topics       []string

	// RelevanceMarker is an optional pre-annotated relevance score used only
	// by the evaluation judge (precedence rule 3). Zero means unset.
	RelevanceMarker float64
}

// HasSection reports whether the normalized section token is present.
func (m Metadata) HasSection(token string) bool { return contains(m.Sections, token) }

// HasAct reports whether the normalized act token is present.
func (m Metadata) HasAct(token string) bool { return contains(m.Acts, token) }

// HasTopic reports whether the topic is present.
func (m Metadata) HasTopic(topic string) bool { return contains(m.Topics, topic) }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Document is a corpus entry. The ID derives from a stable source identifier,
// never from the page content.
type Document struct {
	id       string
	content  string
	metadata Metadata
}

// NewDocument creates a document.
func NewDocument(id, content string, metadata Metadata) Document {
	return Document{id: id, content: content, metadata: metadata}
}

// ID returns the stable document identifier.
func (d Document) ID() string { return d.id }

// Content returns the document text.
func (d Document) Content() string { return d.content }

// Metadata returns the normalized metadata.
func (d Document) Metadata() Metadata { return d.metadata }
