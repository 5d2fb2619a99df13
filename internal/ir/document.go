package ir

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Document is the root of a report document tree: an object carrying an
// ordered "chapters" array plus whatever metadata the producer attached.
// Unknown keys survive a load/save round trip untouched.
type Document map[string]any

// Parse decodes a document from JSON bytes.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return doc, nil
}

// Load reads and decodes a document file.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return Parse(data)
}

// Save writes the document as indented JSON, creating parent directories.
func Save(doc Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating document directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Chapters returns the document's chapter objects in order, skipping
// anything in the chapters array that is not an object.
func (d Document) Chapters() []Block {
	arr, ok := AsArray(d["chapters"])
	if !ok {
		return nil
	}
	chapters := make([]Block, 0, len(arr))
	for _, v := range arr {
		if m, ok := AsObject(v); ok {
			chapters = append(chapters, Block(m))
		}
	}
	return chapters
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneObject(d))
}
