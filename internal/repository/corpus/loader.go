// Package corpus loads the document corpus snapshot consumed by the
// retrieval indexes. Documents arrive as JSON; missing legal metadata is
// extracted from the text so that every document carries normalized
// sections, acts, and topics.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/domain"
	"github.com/nyaya-cloud/nyaya/internal/normalize"
)

// documentDTO is the snapshot wire format of one document.
type documentDTO struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	Content      string   `json:"content"`
	DocumentType string   `json:"document_type"`
	Sections     []string `json:"sections"`
	Acts         []string `json:"acts"`
	Topics       []string `json:"topics"`
	Relevance    float64  `json:"relevance,omitempty"`
}

// Loader reads corpus snapshots.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a corpus loader.
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the snapshot at path. Returns domain.ErrEmptyCorpus when the
// snapshot holds no documents: total corpus absence is the one condition
// this subsystem surfaces as a hard error.
func (l *Loader) Load(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corpus snapshot %s: %w", path, err)
	}

	var dtos []documentDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("parse corpus snapshot: %w", err)
	}
	if len(dtos) == 0 {
		return nil, fmt.Errorf("corpus snapshot %s: %w", path, domain.ErrEmptyCorpus)
	}

	docs := make([]domain.Document, 0, len(dtos))
	for i, dto := range dtos {
		doc, err := l.toDocument(i, dto)
		if err != nil {
			l.logger.Warn("Skipping corpus entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("corpus snapshot %s has no usable documents: %w", path, domain.ErrEmptyCorpus)
	}

	l.logger.Info("Loaded corpus snapshot",
		zap.String("path", path), zap.Int("documents", len(docs)))
	return docs, nil
}

// GetAll implements the document lookup contract over a loaded snapshot.
type Snapshot struct {
	docs []domain.Document
}

// NewSnapshot wraps loaded documents.
func NewSnapshot(docs []domain.Document) *Snapshot { return &Snapshot{docs: docs} }

// GetAll returns the full corpus.
func (s *Snapshot) GetAll() []domain.Document { return s.docs }

func (l *Loader) toDocument(index int, dto documentDTO) (domain.Document, error) {
	if dto.Content == "" {
		return domain.Document{}, fmt.Errorf("empty content")
	}

	// The id derives from the stable source identifier, never the content.
	id := dto.ID
	if id == "" {
		if dto.Source == "" {
			return domain.Document{}, fmt.Errorf("no id and no source")
		}
		id = fmt.Sprintf("%s:%d", normalize.Token(dto.Source), index)
	}

	docType := dto.DocumentType
	if docType == "" {
		docType = identifyDocumentType(dto.Source, dto.Content)
	}

	sections := dto.Sections
	if len(sections) == 0 {
		sections = extractSections(dto.Content)
	}

	acts := dto.Acts
	if len(acts) == 0 {
		acts = extractActs(dto.Content)
	}

	topics := dto.Topics
	if len(topics) == 0 {
		topics = extractTopics(dto.Content)
	}

	meta := domain.Metadata{
		DocumentType:    normalize.Token(docType),
		SourceName:      dto.Source,
		Sections:        normalize.Sections(sections),
		Acts:            normalize.Tokens(acts),
		Topics:          normalize.Tokens(topics),
		RelevanceMarker: dto.Relevance,
	}
	return domain.NewDocument(id, dto.Content, meta), nil
}

var sectionPattern = regexp.MustCompile(`(?i)section\s+(\d+[A-Z]*)`)

func extractSections(text string) []string {
	matches := sectionPattern.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// actPatterns maps recognizable act references to canonical names.
var actPatterns = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`(?i)indian penal code`), "Indian Penal Code"},
	{regexp.MustCompile(`(?i)code of criminal procedure`), "Code of Criminal Procedure"},
	{regexp.MustCompile(`(?i)criminal procedure code`), "Criminal Procedure Code"},
	{regexp.MustCompile(`(?i)constitution of india`), "Constitution of India"},
	{regexp.MustCompile(`(?i)hindu marriage act`), "Hindu Marriage Act"},
	{regexp.MustCompile(`(?i)evidence act`), "Evidence Act"},
}

func extractActs(text string) []string {
	var out []string
	for _, p := range actPatterns {
		if p.re.MatchString(text) {
			out = append(out, p.name)
		}
	}
	return out
}

// topicKeywords tags documents with coarse legal topics.
var topicKeywords = map[string][]string{
	"criminal":       {"murder", "theft", "assault", "criminal", "police", "fir"},
	"civil":          {"contract", "property", "damages", "civil", "suit"},
	"constitutional": {"fundamental rights", "directive principles", "constitution"},
	"family":         {"marriage", "divorce", "custody", "maintenance"},
	"corporate":      {"company", "shares", "directors", "corporate"},
}

func extractTopics(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, topic := range []string{"criminal", "civil", "constitutional", "family", "corporate"} {
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(lower, kw) {
				out = append(out, topic)
				break
			}
		}
	}
	return out
}

func identifyDocumentType(source, text string) string {
	sourceLower := strings.ToLower(source)
	textLower := strings.ToLower(text)

	switch {
	case strings.Contains(sourceLower, "constitution"):
		return "constitution"
	case strings.Contains(sourceLower, "ipc"), strings.Contains(textLower, "penal code"):
		return "criminal_code"
	case strings.Contains(sourceLower, "crpc"), strings.Contains(textLower, "criminal procedure"):
		return "procedure_code"
	case strings.Contains(sourceLower, "evidence"):
		return "evidence_act"
	case strings.Contains(textLower, "judgment"), strings.Contains(textLower, "petitioner"):
		return "case_law"
	default:
		return "legal_document"
	}
}
