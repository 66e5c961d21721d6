// Package form defines the canonical serialization format for formdeck
// documents.
//
// A document is a titled component tree. The JSON format is the single
// wire format used for files, API responses and storage backends; the
// types carry BSON tags so the MongoDB store persists the same shape.
//
//	{
//	  "schema": 1,
//	  "title": "Signup",
//	  "body": [
//	    {"id": "...", "kind": "group", "children": [...]}
//	  ]
//	}
//
// Round-trip fidelity is a requirement: read → edit → write → re-read
// preserves IDs, child order and properties.
package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/formdeck/formdeck/pkg/tree"
)

// SchemaVersion is the current document schema.
const SchemaVersion = 1

// Validation errors returned by [Document.Validate].
var (
	// ErrSchemaVersion is returned when the document was written by an
	// unknown (newer) schema.
	ErrSchemaVersion = errors.New("unsupported schema version")

	// ErrEmptyNodeID is returned when a node has no ID.
	ErrEmptyNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned when two nodes share an ID. IDs are
	// unique across the whole tree, not per sibling list.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownKind is returned for a kind outside the widget palette.
	ErrUnknownKind = errors.New("unknown widget kind")

	// ErrChildrenOnLeaf is returned when a non-container node carries
	// children.
	ErrChildrenOnLeaf = errors.New("children on non-container node")
)

var knownKinds = map[tree.Kind]bool{
	tree.KindText: true, tree.KindInput: true, tree.KindTextarea: true,
	tree.KindSelect: true, tree.KindCheckbox: true, tree.KindButton: true,
	tree.KindForm: true, tree.KindGroup: true, tree.KindRow: true,
}

// Document is a complete formdeck document.
type Document struct {
	Schema    int       `json:"schema" bson:"schema"`
	ID        string    `json:"id,omitempty" bson:"id,omitempty"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	Body      tree.Tree `json:"body" bson:"body"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// New creates an empty document with the current schema version.
func New(title string) *Document {
	return &Document{Schema: SchemaVersion, Title: title}
}

// Validate checks the structural invariants every consumer relies on:
// supported schema, non-empty globally-unique IDs, known kinds, and
// children only under containers.
func (d *Document) Validate() error {
	if d.Schema > SchemaVersion {
		return fmt.Errorf("%w: %d", ErrSchemaVersion, d.Schema)
	}
	seen := make(map[string]bool)
	var walkErr error
	d.Body.Walk(func(n *tree.Node, _ tree.Location) bool {
		switch {
		case n.ID == "":
			walkErr = ErrEmptyNodeID
		case seen[n.ID]:
			walkErr = fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		case !knownKinds[n.Kind]:
			walkErr = fmt.Errorf("%w: %q on node %s", ErrUnknownKind, n.Kind, n.ID)
		case len(n.Children) > 0 && !n.Kind.IsContainer():
			walkErr = fmt.Errorf("%w: %s (%s)", ErrChildrenOnLeaf, n.ID, n.Kind)
		}
		seen[n.ID] = true
		return walkErr == nil
	})
	return walkErr
}

// Marshal converts a document to indented JSON bytes.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a JSON document.
func Unmarshal(data []byte) (*Document, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a document as JSON to w.
func Write(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON document from r and validates it.
func Read(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if d.Schema == 0 {
		d.Schema = SchemaVersion
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// WriteFile writes a document to a JSON file with 0644 permissions.
func WriteFile(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(d, f)
}

// ReadFile reads and validates a document from a JSON file.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
