// Package igvconfig merges generated tracks into an igv-webapp template
// document and writes the result as the `igvwebConfig` script consumed by
// the web application.
package igvconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/spf13/afero"
)

// Prefix precedes the JSON document in the generated script.
const Prefix = "var igvwebConfig = "

// ErrTemplateSchema is matched by every *SchemaError.
var ErrTemplateSchema = errors.New("template schema mismatch")

// SchemaError reports a template that lacks the igvConfig/tracks shape.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("template %s: %s", e.Path, e.Reason)
}

// Is lets errors.Is match ErrTemplateSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrTemplateSchema
}

// Track is one igv.js track entry. Field order is the serialized key order.
type Track struct {
	SourceType  string `json:"sourceType"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Genome      string `json:"genome"`
	Format      string `json:"format"`
	Type        string `json:"type"`
}

// Document is a parsed template. Numbers are kept verbatim and objects keep
// their key order.
type Document struct {
	root *object
}

// Load reads and decodes the template at path.
func Load(fsys afero.Fs, path string) (*Document, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", path, err)
	}
	return doc, nil
}

// Decode parses a single JSON object from r.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	root, err := decodeRoot(dec)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// ParseScript decodes a generated `var igvwebConfig = ...` script.
func ParseScript(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	payload, ok := bytes.CutPrefix(data, []byte(Prefix))
	if !ok {
		return nil, fmt.Errorf("script does not start with %q", Prefix)
	}
	return Decode(bytes.NewReader(payload))
}

func (d *Document) igvConfig() (*object, []any, error) {
	v, _ := d.root.get("igvConfig")
	cfg, ok := v.(*object)
	if !ok {
		return nil, nil, &SchemaError{Path: "igvConfig", Reason: "missing or not an object"}
	}
	v, _ = cfg.get("tracks")
	tracks, ok := v.([]any)
	if !ok {
		return nil, nil, &SchemaError{Path: "igvConfig.tracks", Reason: "missing or not an array"}
	}
	return cfg, tracks, nil
}

// Merge sets igvConfig.genome and appends tracks, in order, to
// igvConfig.tracks. The document is left untouched on error.
func (d *Document) Merge(genome string, tracks []Track) error {
	cfg, existing, err := d.igvConfig()
	if err != nil {
		return err
	}

	cfg.set("genome", genome)
	for _, t := range tracks {
		existing = append(existing, t)
	}
	cfg.set("tracks", existing)
	return nil
}

// Genome returns igvConfig.genome when it is a string.
func (d *Document) Genome() string {
	cfg, _, err := d.igvConfig()
	if err != nil {
		return ""
	}
	v, _ := cfg.get("genome")
	g, _ := v.(string)
	return g
}

// TrackCount returns the length of igvConfig.tracks, or -1 when absent.
func (d *Document) TrackCount() int {
	_, tracks, err := d.igvConfig()
	if err != nil {
		return -1
	}
	return len(tracks)
}

// Encode writes the script form of the document. The output is pure ASCII
// and carries no trailing newline.
func (d *Document) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d.root); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	payload := asciiOnly(strings.TrimSuffix(buf.String(), "\n"))
	if _, err := io.WriteString(w, Prefix+payload); err != nil {
		return err
	}
	return nil
}

// WriteFile replaces the file at path with the script form of the document.
func (d *Document) WriteFile(fsys afero.Fs, path string) error {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// asciiOnly escapes every non-ASCII rune as \uXXXX. The input is encoder
// output, so non-ASCII runes only occur inside string literals.
func asciiOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, r1, r2)
			continue
		}
		fmt.Fprintf(&b, `\u%04x`, r)
	}
	return b.String()
}
