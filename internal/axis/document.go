package axis

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// #region document-types

// strictString only accepts YAML/JSON string scalars, so a numeric label is
// reported instead of being silently converted.
type strictString string

func (s *strictString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!str" {
		return fmt.Errorf("line %d: expected a string, got %s", node.Line, node.ShortTag())
	}
	*s = strictString(node.Value)
	return nil
}

type anchorDocument struct {
	Value *float64     `yaml:"value" validate:"required,gte=0,lte=1"`
	Label strictString `yaml:"label" validate:"required"`
}

type axisDocument struct {
	ID          strictString     `yaml:"id" validate:"required"`
	Name        strictString     `yaml:"name" validate:"required"`
	Description strictString     `yaml:"description" validate:"required"`
	Type        string           `yaml:"type" validate:"required,oneof=continuous categorical"`
	Anchors     []anchorDocument `yaml:"anchors" validate:"omitempty,dive"`
	Categories  []strictString   `yaml:"categories" validate:"omitempty,dive,required"`
}

func (d axisDocument) toAxis() Axis {
	a := Axis{
		ID:          string(d.ID),
		Name:        string(d.Name),
		Description: string(d.Description),
		Kind:        Kind(d.Type),
	}
	switch a.Kind {
	case Continuous:
		a.Anchors = make([]Anchor, len(d.Anchors))
		for i, an := range d.Anchors {
			a.Anchors[i] = Anchor{Value: *an.Value, Label: string(an.Label)}
		}
	case Categorical:
		a.Categories = make([]string, len(d.Categories))
		for i, c := range d.Categories {
			a.Categories[i] = string(c)
		}
	}
	return a
}

func documentFromAxis(a Axis) axisDocument {
	d := axisDocument{
		ID:          strictString(a.ID),
		Name:        strictString(a.Name),
		Description: strictString(a.Description),
		Type:        string(a.Kind),
	}
	for i := range a.Anchors {
		d.Anchors = append(d.Anchors, anchorDocument{Value: &a.Anchors[i].Value, Label: strictString(a.Anchors[i].Label)})
	}
	for _, c := range a.Categories {
		d.Categories = append(d.Categories, strictString(c))
	}
	return d
}

// #endregion document-types

// #region validator

var axisValidate = newAxisValidator()

func newAxisValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateAxisKind, axisDocument{})
	return v
}

// validateAxisKind enforces the per-variant minimum counts.
func validateAxisKind(sl validator.StructLevel) {
	doc := sl.Current().Interface().(axisDocument)
	switch Kind(doc.Type) {
	case Continuous:
		if len(doc.Anchors) < 2 {
			sl.ReportError(doc.Anchors, "anchors", "Anchors", "min_anchors", "2")
		}
	case Categorical:
		if len(doc.Categories) < 2 {
			sl.ReportError(doc.Categories, "categories", "Categories", "min_categories", "2")
		}
	}
}

func validateDocument(d axisDocument) error {
	err := axisValidate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return errors.New(describeFieldError(verrs[0]))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("missing required field %q", field)
	case "oneof":
		return fmt.Sprintf("field %q must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("field %q must be within [0, 1], got %v", field, fe.Value())
	case "min_anchors":
		return "continuous axis must have at least 2 anchors"
	case "min_categories":
		return "categorical axis must have at least 2 categories"
	default:
		return fmt.Sprintf("field %q failed %q", field, fe.Tag())
	}
}

// #endregion validator

// #region parse

// ParseDocument decodes and validates a JSON or YAML axis document. The document
// is either a list of axes or an object with an "axes" list.
func ParseDocument(data []byte) ([]Axis, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", ErrInvalidAxisDefinition, err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidAxisDefinition)
	}

	list := root.Content[0]
	if list.Kind == yaml.MappingNode {
		list = mappingValue(list, "axes")
		if list == nil {
			return nil, fmt.Errorf("%w: document object has no \"axes\" field", ErrInvalidAxisDefinition)
		}
	}
	if list.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: expected a list of axes", ErrInvalidAxisDefinition)
	}

	axes := make([]Axis, 0, len(list.Content))
	seen := make(map[string]int, len(list.Content))
	for i, item := range list.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: axis %d: must be an object", ErrInvalidAxisDefinition, i)
		}
		var doc axisDocument
		if err := item.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: axis %d: %v", ErrInvalidAxisDefinition, i, err)
		}
		if err := validateDocument(doc); err != nil {
			return nil, fmt.Errorf("%w: axis %d (%s): %v", ErrInvalidAxisDefinition, i, doc.ID, err)
		}
		if prev, dup := seen[string(doc.ID)]; dup {
			return nil, fmt.Errorf("%w: axis %d: id %q already used by axis %d", ErrInvalidAxisDefinition, i, doc.ID, prev)
		}
		seen[string(doc.ID)] = i
		axes = append(axes, doc.toAxis())
	}
	return axes, nil
}

// LoadDocument reads and parses an axis document from disk.
func LoadDocument(path string) ([]Axis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read axis document %s: %w", path, err)
	}
	axes, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("axis document %s: %w", path, err)
	}
	return axes, nil
}

// Validate checks a programmatically built axis against the document rules.
func (a Axis) Validate() error {
	if err := validateDocument(documentFromAxis(a)); err != nil {
		return fmt.Errorf("%w: axis %s: %v", ErrInvalidAxisDefinition, a.ID, err)
	}
	return nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// #endregion parse
