package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/cargo.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// Errors converts the issues into one *FieldError per offending key,
// sorted by key.
func (r *ValidationResult) Errors() []*FieldError {
	var errs []*FieldError
	for _, issue := range r.Issues {
		errs = append(errs, issue.fieldErrors()...)
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Key < errs[j].Key })
	return errs
}

// ValidationIssue represents a single validation error from the schema.
type ValidationIssue struct {
	Path    []string // Instance location, e.g. ["bin", "0", "name"]
	Message string   // Human-readable error message
	Keyword string   // Schema keyword that failed
	Missing []string // Keys absent from Path, for "required"
}

func (i ValidationIssue) fieldErrors() []*FieldError {
	if i.Keyword == "required" {
		errs := make([]*FieldError, 0, len(i.Missing))
		for _, m := range i.Missing {
			errs = append(errs, &FieldError{Key: dottedKey(append(append([]string(nil), i.Path...), m)), Err: ErrFieldAbsent})
		}
		return errs
	}
	err := ErrFieldValue
	if i.Keyword == "type" {
		err = ErrFieldType
	}
	return []*FieldError{{Key: dottedKey(i.Path), Err: err, Detail: i.Message}}
}

// dottedKey renders an instance location the way TOML users write keys.
func dottedKey(path []string) string {
	var b strings.Builder
	for _, seg := range path {
		if _, err := strconv.Atoi(seg); err == nil {
			b.WriteString("[" + seg + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("cargo.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("cargo.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate validates raw TOML bytes against the Cargo manifest schema.
// The error return is for syntax or schema compilation failures.
// Validation issues are returned in the ValidationResult.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw map[string]interface{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}

	// Convert TOML values to JSON-compatible types and round-trip through
	// JSON so the validator sees json.Number values.
	jsonData, err := json.Marshal(normalizeTOML(raw))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &ValidationResult{
		Valid:  false,
		Issues: extractIssues(validationErr),
	}, nil
}

// ValidateFile reads a file and validates it against the Cargo schema.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(data)
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

// collectValidationIssues recursively walks the error tree to find leaf errors
// with specific property information.
func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectValidationIssues(cause, issues)
		}
		return
	}
	if ve.ErrorKind == nil {
		return
	}

	keyword := ""
	if kwPath := ve.ErrorKind.KeywordPath(); len(kwPath) > 0 {
		keyword = kwPath[len(kwPath)-1]
	}
	// Container keywords carry no property information of their own.
	if keyword == "allOf" || keyword == "$ref" || keyword == "" {
		return
	}

	issue := ValidationIssue{
		Path:    append([]string(nil), ve.InstanceLocation...),
		Message: ve.ErrorKind.LocalizedString(printer),
		Keyword: keyword,
	}
	if req, ok := ve.ErrorKind.(*kind.Required); ok {
		issue.Missing = append([]string(nil), req.Missing...)
	}
	*issues = append(*issues, issue)
}

// deduplicateIssues removes duplicate issues (same path + keyword + message).
func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := strings.Join(issue.Path, "/") + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}

// normalizeTOML recursively converts TOML-decoded values to JSON-compatible
// types. Arrays of tables decode as []map[string]interface{} and datetimes
// as time.Time; both are rewritten.
func normalizeTOML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalizeTOML(v)
		}
		return m
	case []map[string]interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeTOML(v)
		}
		return a
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeTOML(v)
		}
		return a
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return val
	}
}
