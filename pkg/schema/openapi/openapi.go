package openapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formcheck/pkg/rules"
	"github.com/goliatone/go-formcheck/pkg/schema"
)

// Extension keys read from property schemas.
const (
	RulesExtensionKey = "x-formcheck-rules"
	DPExtensionKey    = "x-formcheck-dp"
)

// ErrOperationNotFound is returned when the document has no matching operation.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// FromOperation derives a FormSchema from the request body of the operation
// identified by operationID. Only top-level scalar properties of an object
// body become fields.
func FromOperation(ctx context.Context, raw []byte, operationID string) (*schema.FormSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	op := findOperation(doc, strings.TrimSpace(operationID))
	if op == nil {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestSchema(op.RequestBody)
	if body == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	fields := make(map[string]schema.FieldSchema, len(body.Properties))
	for name, ref := range body.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		field, ok := convertProperty(ref.Value, isRequired)
		if !ok {
			continue
		}
		fields[name] = field
	}

	out, err := schema.New(fields)
	if err != nil {
		return nil, fmt.Errorf("openapi: operation %q: %w", operationID, err)
	}
	return out, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil || operationID == "" {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func convertProperty(src *openapi3.Schema, required bool) (schema.FieldSchema, bool) {
	var field schema.FieldSchema
	if required {
		field.Rules = append(field.Rules, rules.RuleRequired)
	}

	switch {
	case src.Type.Is(openapi3.TypeInteger):
		field.Rules = append(field.Rules, rules.RuleNumber)
	case src.Type.Is(openapi3.TypeNumber):
		field.Rules = append(field.Rules, rules.RuleFloat)
		if src.MultipleOf != nil {
			field.DP = decimalPlaces(*src.MultipleOf)
		}
	case src.Type.Is(openapi3.TypeString):
		switch src.Format {
		case "date":
			field.Rules = append(field.Rules, rules.RuleDate)
		case "time", "partial-time":
			field.Rules = append(field.Rules, rules.RuleTime)
		}
	case src.Type.Is(openapi3.TypeBoolean):
	default:
		return schema.FieldSchema{}, false
	}

	if src.Min != nil {
		field.Min = schema.Float(*src.Min)
	}
	if src.Max != nil {
		field.Max = schema.Float(*src.Max)
	}
	if src.Default != nil {
		if value, ok := defaultString(src.Default); ok {
			field.DefaultValue = &value
		}
	}
	field.Rules = append(field.Rules, extensionRules(src.Extensions)...)
	if dp, ok := extensionDP(src.Extensions); ok {
		field.DP = dp
	}
	return field, true
}

func decimalPlaces(step float64) int {
	if step <= 0 || step >= 1 {
		return 0
	}
	for dp := 1; dp <= 10; dp++ {
		scaled := step * math.Pow10(dp)
		if math.Abs(scaled-math.Round(scaled)) < 1e-9 {
			return dp
		}
	}
	return 0
}

func extensionRules(ext map[string]any) []string {
	raw, ok := ext[RulesExtensionKey]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if name, ok := item.(string); ok && strings.TrimSpace(name) != "" {
			out = append(out, strings.TrimSpace(name))
		}
	}
	return out
}

func extensionDP(ext map[string]any) (int, bool) {
	raw, ok := ext[DPExtensionKey]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		if v >= 0 && v == math.Trunc(v) {
			return int(v), true
		}
	case int:
		if v >= 0 {
			return v, true
		}
	}
	return 0, false
}

func defaultString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}
