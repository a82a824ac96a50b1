// Package ingest flattens scraped scheme and guide JSON payloads into
// document records for the index builder. Record ids are derived
// deterministically from their content keys so rebuilds are stable.
package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"fundfaq/internal/domain"
)

// SchemePayload is one scraped fund scheme page.
type SchemePayload struct {
	SchemeName string            `json:"scheme_name"`
	SourceURL  string            `json:"source_url"`
	Metadata   map[string]string `json:"metadata"`
	Attributes map[string]any    `json:"attributes"`
	Documents  []SchemeDocument  `json:"documents"`
}

// SchemeDocument is a linked document on a scheme page.
type SchemeDocument struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// GuidePayload is one scraped investor guide page.
type GuidePayload struct {
	GuideKey  string        `json:"guide_key"`
	SourceURL string        `json:"source_url"`
	Methods   []GuideMethod `json:"methods"`
}

// GuideMethod is one how-to section of a guide.
type GuideMethod struct {
	Label string   `json:"label"`
	Steps []string `json:"steps"`
}

// LoadDir reads every *.json payload under the scheme and guide
// directories and flattens them into records. Either directory may be
// missing; at least one record must result.
func LoadDir(schemesDir, guidesDir string) ([]domain.Record, error) {
	var records []domain.Record
	schemePaths, _ := filepath.Glob(filepath.Join(schemesDir, "*.json"))
	for _, p := range schemePaths {
		var payload SchemePayload
		if err := readJSON(p, &payload); err != nil {
			return nil, err
		}
		records = append(records, SchemeRecords(payload)...)
	}
	guidePaths, _ := filepath.Glob(filepath.Join(guidesDir, "*.json"))
	for _, p := range guidePaths {
		var payload GuidePayload
		if err := readJSON(p, &payload); err != nil {
			return nil, err
		}
		records = append(records, GuideRecords(payload)...)
	}
	if len(records) == 0 {
		return nil, errors.Errorf("no records produced from %s and %s", schemesDir, guidesDir)
	}
	return records, nil
}

// SchemeRecords flattens one scheme payload: an overview sentence, one
// fact per attribute, and one record per linked document. Attribute
// values may carry their own source URL, which then overrides the
// scheme page URL for that fact.
func SchemeRecords(p SchemePayload) []domain.Record {
	var records []domain.Record
	scheme := p.SchemeName

	records = append(records, domain.Record{
		ID: deriveID("scheme", scheme, "overview"),
		Text: fmt.Sprintf("%s is a %s scheme in the %s category offered by %s. Data source: %s",
			scheme, p.Metadata["category"], p.Metadata["sub_category"], p.Metadata["fund_house"], p.SourceURL),
		SourceURL: p.SourceURL,
		FundName:  scheme,
		Kind:      domain.KindSchemeFact,
	})

	for _, field := range sortedKeys(p.Attributes) {
		description, url := attributeValue(p.Attributes[field], p.SourceURL)
		if description == "" {
			continue
		}
		records = append(records, domain.Record{
			ID:        deriveID("scheme", scheme, "attr", field),
			Text:      fmt.Sprintf("%s - %s: %s. Source: %s", scheme, prettyField(field), description, url),
			SourceURL: url,
			FundName:  scheme,
			Kind:      domain.KindSchemeFact,
		})
	}

	for _, doc := range p.Documents {
		url := doc.URL
		if url == "" {
			url = p.SourceURL
		}
		records = append(records, domain.Record{
			ID:        deriveID("scheme", scheme, "doc", doc.Type, doc.URL),
			Text:      fmt.Sprintf("%s has a %s document at %s.", scheme, doc.Type, doc.URL),
			SourceURL: url,
			FundName:  scheme,
			Kind:      domain.KindSchemeFact,
		})
	}
	return records
}

// GuideRecords flattens one guide payload into one record per method.
func GuideRecords(p GuidePayload) []domain.Record {
	var records []domain.Record
	for _, m := range p.Methods {
		steps := strings.Join(m.Steps, " ")
		records = append(records, domain.Record{
			ID:        deriveID("guide", p.GuideKey, m.Label),
			Text:      fmt.Sprintf("%s: %s Source: %s", m.Label, steps, p.SourceURL),
			SourceURL: p.SourceURL,
			Kind:      domain.KindGuide,
		})
	}
	return records
}

// attributeValue extracts the display text and source URL of one
// attribute. Values are either plain scalars or objects of the form
// {display, value, source_url}.
func attributeValue(value any, fallbackURL string) (string, string) {
	switch v := value.(type) {
	case map[string]any:
		description := stringify(v["display"])
		if inner, ok := v["value"].(string); ok {
			description = inner
		}
		if description == "" {
			description = stringify(v["value"])
		}
		url := fallbackURL
		if s, ok := v["source_url"].(string); ok && s != "" {
			url = s
		}
		return description, url
	default:
		return stringify(v), fallbackURL
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func prettyField(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Stable record order keeps rebuilds deterministic.
	sort.Strings(keys)
	return keys
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

func deriveID(parts ...string) string {
	h := sha1.Sum([]byte(strings.Join(parts, "/")))
	return hex.EncodeToString(h[:8])
}
