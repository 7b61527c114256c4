// Package manifest reads YAML declarations of container registries.
//
// A manifest lists the slots of one container type in order, with their
// required types and optional defaults:
//
//	package: app
//	container: Services
//	strategy: implicit
//	slots:
//	  - name: store
//	    type: "*Store"
//	    default: { construct: "*Store" }
//	  - name: notify
//	    type: callable
//	    goType: "func(string) error"
//
// Slots may also be written as an ordered mapping from name to type:
//
//	slots:
//	  store: "*Store"
//	  clock: { type: Clock, default: { produce: NewClock } }
//
// Type, producer and instance names are resolved against a Catalog at
// runtime (see Spec.Definition) or emitted as Go expressions by cmd/odic.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"os"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// TypeCallable is the manifest spelling of di.Callable.
	TypeCallable = "callable"

	// TypeDeferred is the manifest spelling of di.Deferred.
	TypeDeferred = "deferred"
)

// ErrInvalidSpec wraps every validation failure returned by Parse and Validate.
var ErrInvalidSpec = errors.New("manifest: invalid spec")

// Spec is one container declaration.
type Spec struct {
	// Package is the Go package of generated code. Only cmd/odic needs it.
	Package string `yaml:"package" validate:"omitempty,goident"`

	// Container names the container type, e.g. "Services".
	Container string `yaml:"container" validate:"required,goident"`

	// Strategy is "explicit" or "implicit".
	Strategy string `yaml:"strategy" validate:"required,oneof=explicit implicit"`

	Slots Slots `yaml:"slots" validate:"required,min=1,unique=Name,dive"`
}

// SlotSpec declares one slot.
type SlotSpec struct {
	Name string `yaml:"name" validate:"required"`

	// Type is a Go type expression ("*Store", "store.Repo"), "callable" or
	// "deferred".
	Type string `yaml:"type" validate:"required"`

	// Method overrides the generated accessor name.
	Method string `yaml:"method,omitempty" validate:"omitempty,goident"`

	// GoType overrides the generated accessor result type. Sentinel slots
	// default to any.
	GoType string `yaml:"goType,omitempty"`

	Default *DefaultSpec `yaml:"default,omitempty" validate:"omitempty"`
}

// DefaultSpec names exactly one of a type to construct, a producer to call
// or an instance to store.
type DefaultSpec struct {
	Construct string `yaml:"construct,omitempty"`
	Produce   string `yaml:"produce,omitempty"`
	Instance  string `yaml:"instance,omitempty"`
}

// Slots keeps slot declaration order. It decodes from a YAML sequence of
// slot mappings or from a mapping of name to type (or to a slot mapping).
type Slots []SlotSpec

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Slots) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []SlotSpec
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil

	case yaml.MappingNode:
		out := make([]SlotSpec, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]

			var slot SlotSpec
			switch value.Kind {
			case yaml.ScalarNode:
				slot.Type = value.Value
			case yaml.MappingNode:
				if err := value.Decode(&slot); err != nil {
					return err
				}
			default:
				return fmt.Errorf("manifest: line %d: slot %q must be a type or a mapping", value.Line, key.Value)
			}
			if slot.Name != "" && slot.Name != key.Value {
				return fmt.Errorf("manifest: line %d: slot %q declares a different name %q", value.Line, key.Value, slot.Name)
			}
			slot.Name = key.Value
			out = append(out, slot)
		}
		*s = out
		return nil
	}
	return fmt.Errorf("manifest: line %d: slots must be a sequence or a mapping", node.Line)
}

// IsCallable reports whether the slot type is the callable sentinel.
func (s SlotSpec) IsCallable() bool { return s.Type == TypeCallable }

// IsDeferred reports whether the slot type is the deferred sentinel.
func (s SlotSpec) IsDeferred() bool { return s.Type == TypeDeferred }

// MethodName returns Method, or the slot name in exported camel case
// ("http_client" -> "HttpClient").
func (s SlotSpec) MethodName() string {
	if s.Method != "" {
		return s.Method
	}
	var b strings.Builder
	upper := true
	for _, r := range s.Name {
		if r == '_' || r == '-' || r == '.' || r == ' ' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// AccessorType returns the Go type an accessor for the slot returns.
func (s SlotSpec) AccessorType() string {
	if s.GoType != "" {
		return s.GoType
	}
	if s.IsCallable() || s.IsDeferred() {
		return "any"
	}
	return s.Type
}

// Load reads and parses the manifest at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a manifest. Unknown fields are rejected.
func Parse(data []byte) (*Spec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks required fields, identifiers, the strategy, unique slot
// names, that method names do not collide and that every default names
// exactly one source.
func (s *Spec) Validate() error {
	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fe.Namespace()+" failed "+fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalidSpec, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}

	methods := make(map[string]string, len(s.Slots))
	for _, slot := range s.Slots {
		method := slot.MethodName()
		if !token.IsIdentifier(method) {
			return fmt.Errorf("%w: slot %q has no valid accessor name (got %q)", ErrInvalidSpec, slot.Name, method)
		}
		if other, ok := methods[method]; ok {
			return fmt.Errorf("%w: slots %q and %q share accessor %s", ErrInvalidSpec, other, slot.Name, method)
		}
		methods[method] = slot.Name

		if slot.Default == nil {
			continue
		}
		set := 0
		for _, v := range []string{slot.Default.Construct, slot.Default.Produce, slot.Default.Instance} {
			if strings.TrimSpace(v) != "" {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("%w: default of slot %q must set exactly one of construct, produce, instance", ErrInvalidSpec, slot.Name)
		}
		if slot.Default.Construct == TypeCallable || slot.Default.Construct == TypeDeferred {
			return fmt.Errorf("%w: default of slot %q cannot construct %s", ErrInvalidSpec, slot.Name, slot.Default.Construct)
		}
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	})
	return v
}
