package jsonschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	validator "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrRecursiveType is returned for types that contain themselves.
var ErrRecursiveType = errors.New("jsonschema: recursive type")

// Schema is the subset of JSON Schema used for generated payload types.
type Schema struct {
	Type                 string             `json:"type,omitempty"`
	Description          string             `json:"description,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	MinLength            *int               `json:"minLength,omitempty"`
	MinItems             *int               `json:"minItems,omitempty"`
}

// GenerateJSONSchema builds the schema of T.
func GenerateJSONSchema[T any]() (*Schema, error) {
	g := generator{visiting: make(map[reflect.Type]bool)}
	return g.schema(reflect.TypeFor[T]())
}

type generator struct {
	visiting map[reflect.Type]bool
}

func (g generator) schema(t reflect.Type) (*Schema, error) {
	switch t.Kind() {
	case reflect.Pointer:
		return g.schema(t.Elem())
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Slice, reflect.Array:
		items, err := g.schema(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		values, err := g.schema(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: values}, nil
	case reflect.Struct:
		return g.object(t)
	default:
		return &Schema{}, nil
	}
}

func (g generator) object(t reflect.Type) (*Schema, error) {
	if g.visiting[t] {
		return nil, fmt.Errorf("%w: %s", ErrRecursiveType, t)
	}
	g.visiting[t] = true
	defer delete(g.visiting, t)

	s := &Schema{Type: "object", Properties: make(map[string]*Schema)}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonName(field)
		if skip {
			continue
		}

		fs, err := g.schema(field.Type)
		if err != nil {
			return nil, err
		}
		requiredByTag, err := applyTag(field, fs)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t.Name(), field.Name, err)
		}
		s.Properties[name] = fs
		if requiredByTag || (field.Type.Kind() != reflect.Pointer && !omitEmpty) {
			s.Required = append(s.Required, name)
		}
	}
	return s, nil
}

func jsonName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, strings.Contains(opts, "omitempty"), false
}

// applyTag reads the jsonschema struct tag into s and reports whether the
// field is explicitly required.
func applyTag(field reflect.StructField, s *Schema) (bool, error) {
	tag := field.Tag.Get("jsonschema")
	if tag == "" {
		return false, nil
	}

	required := false
	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		if !hasValue {
			if key == "required" {
				required = true
			}
			continue
		}
		switch key {
		case "description":
			s.Description = value
		case "enum":
			v, err := enumValue(field.Type, value)
			if err != nil {
				return false, err
			}
			s.Enum = append(s.Enum, v)
		case "minLength", "minItems":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return false, fmt.Errorf("invalid %s %q", key, value)
			}
			if key == "minLength" {
				s.MinLength = &n
			} else {
				s.MinItems = &n
			}
		}
	}
	return required, nil
}

func enumValue(t reflect.Type, value string) (any, error) {
	switch t.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseInt(value, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(value, 64)
	case reflect.Bool:
		return strconv.ParseBool(value)
	default:
		return nil, fmt.Errorf("enum unsupported for %s", t)
	}
}

// JSON returns the schema document, indented with two spaces when indent is
// true.
func (s *Schema) JSON(indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(s, "", "  ")
	}
	return json.Marshal(s)
}

// String returns the compact schema document.
func (s *Schema) String() string {
	b, err := s.JSON(false)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

// Validator checks decoded JSON values against a compiled schema.
type Validator struct {
	compiled *validator.Schema
}

// Compile turns s into a Validator.
func (s *Schema) Compile() (*Validator, error) {
	doc, err := s.JSON(false)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := validator.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{compiled: compiled}, nil
}

// Validate checks a value produced by encoding/json (maps, slices, float64,
// string, bool, nil).
func (v *Validator) Validate(doc any) error {
	return v.compiled.Validate(doc)
}

// MustCompile generates and compiles the schema of T, panicking on failure.
// It is meant for package-level validators of static payload types.
func MustCompile[T any]() *Validator {
	s, err := GenerateJSONSchema[T]()
	if err != nil {
		panic(err)
	}
	v, err := s.Compile()
	if err != nil {
		panic(err)
	}
	return v
}
