package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

type kind int

const (
	kindString kind = iota
	kindInteger
	kindStringList
)

func (k kind) String() string {
	switch k {
	case kindInteger:
		return "an integer"
	case kindStringList:
		return "an array of strings"
	default:
		return "a string"
	}
}

type field struct {
	name     string
	kind     kind
	required bool
}

// schema lists the known fields in the order failures are reported.
var schema = []field{
	{name: "isbn", kind: kindString, required: true},
	{name: "title", kind: kindString, required: true},
	{name: "authors", kind: kindStringList, required: true},
	{name: "number_of_pages", kind: kindInteger},
	{name: "countries", kind: kindStringList},
	{name: "release_date", kind: kindString},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Decode validates body against the book schema and returns the decoded
// record. Any failure is a *ValidationError listing every offending field.
// Unknown fields are ignored.
func Decode(body []byte) (Book, error) {
	if err := Check(body); err != nil {
		return Book{}, err
	}

	var b Book
	if err := json.Unmarshal(body, &b); err != nil {
		verr := &ValidationError{}
		verr.add("", ReasonInvalidJSON, err.Error())
		return Book{}, verr
	}

	if err := Validate(b); err != nil {
		return Book{}, err
	}
	return b.Normalize(), nil
}

// Check verifies the raw structure of body: a JSON object whose known fields
// carry the expected types and whose required fields are present.
func Check(body []byte) error {
	verr := &ValidationError{}

	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		verr.add("", ReasonInvalidJSON, "request body is not valid JSON")
		return verr
	}

	var raw map[string]json.RawMessage
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &raw) != nil {
		verr.add("", ReasonNotObject, "request body must be a JSON object")
		return verr
	}

	for _, f := range schema {
		val, ok := raw[f.name]
		if !ok || isNull(val) {
			if f.required {
				verr.add(f.name, ReasonMissing, f.name+" is required")
			}
			continue
		}
		if !f.kind.matches(val) {
			verr.add(f.name, ReasonTypeMismatch, f.name+" must be "+f.kind.String())
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Validate applies the declarative field rules to an already decoded record.
func Validate(b Book) error {
	err := validate.Struct(b)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		verr := &ValidationError{}
		verr.add("", ReasonNotObject, err.Error())
		return verr
	}

	verr := &ValidationError{}
	for _, fe := range errs {
		name := fe.Field()
		switch fe.Tag() {
		case "required", "notblank":
			verr.add(name, ReasonEmpty, name+" must not be blank")
		default:
			verr.add(name, fe.Tag(), name+" failed "+fe.Tag()+" rule")
		}
	}
	return verr
}

func isNull(val json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(val), []byte("null"))
}

func (k kind) matches(val json.RawMessage) bool {
	dec := json.NewDecoder(bytes.NewReader(val))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return false
	}

	switch k {
	case kindString:
		_, ok := v.(string)
		return ok
	case kindInteger:
		n, ok := v.(json.Number)
		if !ok {
			return false
		}
		_, err := n.Int64()
		return err == nil
	case kindStringList:
		seq, ok := v.([]any)
		if !ok {
			return false
		}
		for _, item := range seq {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	}
	return false
}
