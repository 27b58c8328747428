package keyseal

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// KeyFile is the one-time document handed to the assignment creator after the
// ledger confirms the creation transaction. It packages the private key with
// enough metadata to locate it later; the service never retains a copy.
type KeyFile struct {
	AssignmentID uint      `json:"assignmentId"`
	ModuleID     uint      `json:"moduleId"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	PrivateKey   string    `json:"privateKey"`
}

const keyFileSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["assignmentId", "moduleId", "title", "createdAt", "privateKey"],
  "properties": {
    "assignmentId": {"type": "integer", "minimum": 1},
    "moduleId": {"type": "integer", "minimum": 1},
    "title": {"type": "string"},
    "createdAt": {"type": "string", "format": "date-time"},
    "privateKey": {"type": "string", "minLength": 1}
  }
}`

var compiledKeyFileSchema = jsonschema.MustCompileString("keyfile.json", keyFileSchema)

// Encode serializes the key file as indented JSON, the shape users paste or
// download as a .json artifact.
func (f KeyFile) Encode() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// Filename derives a stable download name from the title and creation date,
// e.g. "graph_theory_hw_2026-03-01_private_key.json".
func (f KeyFile) Filename() string {
	slug := slugify(f.Title)
	if slug == "" {
		slug = fmt.Sprintf("assignment_%d", f.AssignmentID)
	}

	return fmt.Sprintf("%s_%s_private_key.json", slug, f.CreatedAt.Format("2006-01-02"))
}

// DecodeKeyFile parses and schema-validates a key file previously produced by
// Encode. Validation failures are reported before any parse of the key
// material is attempted.
func DecodeKeyFile(data []byte) (KeyFile, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return KeyFile{}, fmt.Errorf("key file is not valid JSON: %w", err)
	}

	if err := compiledKeyFileSchema.Validate(raw); err != nil {
		return KeyFile{}, fmt.Errorf("key file does not match the expected shape: %w", err)
	}

	var file KeyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return KeyFile{}, fmt.Errorf("failed to decode key file: %w", err)
	}

	return file, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "_")
	return strings.Trim(slug, "_")
}
