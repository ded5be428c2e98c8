package loaders

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
	"github.com/atlara-labs/docchat-cli/internal/logger"
)

// Alternative key names accepted for the source identifier and the
// text body of a dataset record.
var (
	sourceKeys = []string{"url", "source", "file"}
	textKeys   = []string{"raw_text", "content", "text"}
)

// ParseDatasetFile reads and parses the dataset file at path.
func ParseDatasetFile(path string) ([]domain.CorpusRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return ParseDataset(raw)
}

// ParseDataset parses dataset bytes into corpus records. Three shapes
// are accepted:
//
//   - a JSON object mapping source identifier to text (or to an object
//     carrying the text),
//   - a JSON array of record objects,
//   - newline-delimited JSON, one record object per line.
//
// Record objects use the first present of url/source/file as the
// source and the first present of raw_text/content/text as the body.
// Records with neither are skipped with a warning.
func ParseDataset(raw []byte) ([]domain.CorpusRecord, error) {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(raw, utf8BOM), " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '{':
		// A lone record object is distinguished from the map shape by
		// its text key.
		if rec, ok := recordFromObject(trimmed); ok {
			return []domain.CorpusRecord{rec}, nil
		}
		if records, err := parseObjectDataset(trimmed); err == nil {
			return records, nil
		}
		// One record object per line also starts with '{'.
		return parseLinesDataset(trimmed)
	case '[':
		return parseArrayDataset(trimmed)
	default:
		return nil, fmt.Errorf("%w: dataset is not JSON", domain.ErrInvalidInput)
	}
}

// parseObjectDataset handles the map shape: source identifier keys,
// with either a text string or a record object as the value.
func parseObjectDataset(raw []byte) ([]domain.CorpusRecord, error) {
	var bySource map[string]json.RawMessage
	if err := json.Unmarshal(raw, &bySource); err != nil {
		return nil, fmt.Errorf("parsing dataset object: %w", err)
	}

	sources := make([]string, 0, len(bySource))
	for source := range bySource {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	records := make([]domain.CorpusRecord, 0, len(bySource))
	for _, source := range sources {
		value := bySource[source]

		var text string
		if err := json.Unmarshal(value, &text); err == nil {
			records = append(records, domain.CorpusRecord{Source: source, RawText: text})
			continue
		}

		rec, ok := recordFromObject(value)
		if !ok {
			logger.Warn("dataset entry %q has no text, skipping", source)
			continue
		}
		if rec.Source == "" {
			rec.Source = source
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseArrayDataset(raw []byte) ([]domain.CorpusRecord, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parsing dataset array: %w", err)
	}

	records := make([]domain.CorpusRecord, 0, len(items))
	for i, item := range items {
		rec, ok := recordFromObject(item)
		if !ok {
			logger.Warn("dataset entry %d is missing source or text, skipping", i)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseLinesDataset(raw []byte) ([]domain.CorpusRecord, error) {
	var records []domain.CorpusRecord

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		rec, ok := recordFromObject(text)
		if !ok {
			logger.Warn("dataset line %d is not a usable record, skipping", line)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset lines: %w", err)
	}
	return records, nil
}

// WriteDatasetFile writes documents to path as the object-map dataset
// shape (source identifier to text). An existing file at path is
// renamed with a timestamp suffix first, never overwritten.
func WriteDatasetFile(path string, docs []domain.SourceDocument) error {
	bySource := make(map[string]string, len(docs))
	for _, doc := range docs {
		bySource[doc.SourceID] = doc.Text
	}

	raw, err := json.MarshalIndent(bySource, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		backup := fmt.Sprintf("%s.%s", path, time.Now().UTC().Format("20060102T150405"))
		if err := os.Rename(path, backup); err != nil {
			return fmt.Errorf("backing up existing dataset: %w", err)
		}
		logger.Info("existing dataset moved to %s", backup)
	}

	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	return nil
}

// recordFromObject extracts a corpus record from a JSON object using
// the accepted key fallbacks. Returns false when no text is present
// or the value is not an object.
func recordFromObject(raw []byte) (domain.CorpusRecord, bool) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return domain.CorpusRecord{}, false
	}

	rec := domain.CorpusRecord{}
	for _, key := range sourceKeys {
		if s, ok := obj[key].(string); ok && s != "" {
			rec.Source = s
			break
		}
	}
	for _, key := range textKeys {
		if s, ok := obj[key].(string); ok && s != "" {
			rec.RawText = s
			break
		}
	}
	if title, ok := obj["title"].(string); ok {
		rec.Title = title
	}

	if rec.RawText == "" || rec.Source == "" {
		return domain.CorpusRecord{}, false
	}
	return rec, true
}
