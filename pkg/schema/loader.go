package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Fields map[string]fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Rules        []string `json:"rules,omitempty" yaml:"rules,omitempty"`
	Min          *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max          *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	DP           int      `json:"dp,omitempty" yaml:"dp,omitempty"`
	DefaultValue any      `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// Parse decodes a schema document. JSON is attempted first, then YAML. The
// document either nests field entries under a top-level "fields" key or is a
// bare mapping of field names to entries.
func Parse(data []byte, source string) (*FormSchema, error) {
	if strings.TrimSpace(source) == "" {
		source = "schema"
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("schema: file %s is empty", source)
	}

	raw, err := decodeFields(data)
	if err != nil {
		return nil, fmt.Errorf("schema: parse %s: %w", source, err)
	}

	fields := make(map[string]FieldSchema, len(raw))
	for name, entry := range raw {
		field, err := entry.toFieldSchema()
		if err != nil {
			return nil, fmt.Errorf("schema: parse %s: field %q: %w", source, name, err)
		}
		fields[name] = field
	}

	out, err := New(fields)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, source)
	}
	return out, nil
}

// LoadFile reads and parses the schema document at path.
func LoadFile(path string) (*FormSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads and parses the schema document at path within fsys.
func LoadFS(fsys fs.FS, path string) (*FormSchema, error) {
	if fsys == nil {
		return nil, fmt.Errorf("schema: filesystem is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// MarshalYAML encodes s as a YAML document with entries nested under
// "fields", the form Parse reads back.
func MarshalYAML(s *FormSchema) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("schema: schema is nil")
	}
	doc := documentFile{Fields: make(map[string]fieldFile, s.Len())}
	for name, field := range s.Fields() {
		entry := fieldFile{
			Rules: field.Rules,
			Min:   field.Min,
			Max:   field.Max,
			DP:    field.DP,
		}
		if field.HasDefault() {
			entry.DefaultValue = field.Default()
		}
		doc.Fields[name] = entry
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("schema: encode yaml: %w", err)
	}
	return out, nil
}

func decodeFields(data []byte) (map[string]fieldFile, error) {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		if len(doc.Fields) > 0 {
			return doc.Fields, nil
		}
		var bare map[string]fieldFile
		if err := json.Unmarshal(data, &bare); err == nil {
			return bare, nil
		}
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		if len(doc.Fields) > 0 {
			return doc.Fields, nil
		}
		var bare map[string]fieldFile
		if err := yaml.Unmarshal(data, &bare); err == nil {
			return bare, nil
		}
	}

	return nil, fmt.Errorf("invalid JSON or YAML")
}

func (f fieldFile) toFieldSchema() (FieldSchema, error) {
	out := FieldSchema{
		Rules: f.Rules,
		Min:   f.Min,
		Max:   f.Max,
		DP:    f.DP,
	}
	if f.DefaultValue != nil {
		value, err := scalarString(f.DefaultValue)
		if err != nil {
			return FieldSchema{}, err
		}
		out.DefaultValue = &value
	}
	return out, nil
}

func scalarString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("defaultValue must be a string, number or bool, got %T", value)
	}
}
