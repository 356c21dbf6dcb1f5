// internal/form/definition.go
//
// Forms subsystem: YAML definition loader.
//
// Context
//   Each form is declared in YAML.  The file defines the form’s identifier,
//   title, fields with their validation rules and error text, and any
//   post-submit actions.  Components embed their default definitions and
//   register them at start-up; an operator may drop overrides under
//   “<root>/components/<comp>/forms/”.  The widget, validator, renderer, and
//   actions all fetch definitions from one registry by ID.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → FieldDef / ActionDef.
//   •  ParseFormDef decodes and structurally validates one document.
//   •  LoadFormDef and RegisterForms read files from disk.
//   •  GetFormDef offers read-only access to a parsed form by ID.
//
// Style
//   Full sentences, two spaces after periods, Oxford commas.  Helper comments
//   use short noun phrases.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
//
// ID is namespaced by component, e.g. “contact/contact”.  Fields render and
// validate in declaration order.  Actions run after a fully valid submit.
type FormDef struct {
	ID      string      `yaml:"id"`      // Component-scoped identifier.
	Title   string      `yaml:"title"`   // Header shown above the form.
	Fields  []FieldDef  `yaml:"fields"`  // Inputs in display order.
	Actions []ActionDef `yaml:"actions"` // Post-submit actions.  May be empty.
}

// FieldDef describes a single input control.  Validation metadata lives
// inline so the renderer and validator agree on one rule table.
type FieldDef struct {
	Name        string `yaml:"name"`        // Submission key.  Required.
	Label       string `yaml:"label"`       // Label text, e.g. “First Name*”.
	Summary     string `yaml:"summary"`     // Confirmation label.  Defaults to Label minus “*”.
	Type        string `yaml:"type"`        // text, email, or textarea.
	Placeholder string `yaml:"placeholder"` // Optional placeholder text.
	Required    bool   `yaml:"required"`    // Empty input fails.
	MinLength   int    `yaml:"minlength"`   // Characters, 0 means unset.
	MaxLength   int    `yaml:"maxlength"`   // Characters, 0 means unset.
	Pattern     string `yaml:"pattern"`     // Regex the whole value must match.
	ErrorMsg    string `yaml:"error"`       // Message for any rule failure.
}

// ActionDef configures an automated action executed after validation.
// Provider-specific keys are kept inline so new kinds need no schema churn.
type ActionDef struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:",inline"`
}

// SummaryLabel returns the label used on the confirmation view.
func (f *FieldDef) SummaryLabel() string {
	if f.Summary != "" {
		return f.Summary
	}
	return strings.TrimSpace(strings.TrimSuffix(f.Label, "*"))
}

// Field returns the named field definition or nil.
func (fd *FormDef) Field(name string) *FieldDef {
	for i := range fd.Fields {
		if fd.Fields[i].Name == name {
			return &fd.Fields[i]
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*FormDef)
)

// GetFormDef returns a parsed FormDef by composite ID (“component/form”).
// The boolean is false when the ID is unknown.
func GetFormDef(id string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fd, ok := registry[id]
	return fd, ok
}

// Register inserts or overrides the form in the registry and exposes it as a
// template widget.  Caller must pass a FormDef that went through
// ParseFormDef.
func Register(fd *FormDef) {
	registryMu.Lock()
	registry[fd.ID] = fd
	registryMu.Unlock()
	injectWidgetRegistration(fd)
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// ParseFormDef decodes one YAML document and validates its structure.  src
// names the document in error messages.  It never touches the registry.
func ParseFormDef(raw []byte, src string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", src, err)
	}
	if err := validateFormDef(&fd, src); err != nil {
		return nil, err
	}
	return &fd, nil
}

// LoadFormDef reads and parses one YAML file.
func LoadFormDef(path string) (*FormDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}
	return ParseFormDef(raw, path)
}

// RegisterForms walks “<base>/components” under each base directory and
// registers every “*.yaml” found below a “forms” directory.  Later
// directories override earlier ones, so pass defaults first.  A missing
// components directory is not an error.
func RegisterForms(baseDirs []string) (int, error) {
	if len(baseDirs) == 0 {
		return 0, errors.New("RegisterForms: no base directories provided")
	}

	n := 0
	for _, base := range baseDirs {
		root := filepath.Join(base, "components")
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
				return nil
			}
			if filepath.Base(filepath.Dir(path)) != "forms" {
				return nil
			}

			fd, err := LoadFormDef(path)
			if err != nil {
				return err // fail fast so issues surface loudly.
			}
			Register(fd)
			n++
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return n, err
		}
	}
	return n, nil
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

var (
	knownFieldTypes = map[string]bool{"text": true, "email": true, "textarea": true}
	knownActions    = map[string]bool{"notify": true}
)

// validateFormDef enforces structural rules that YAML tags cannot express.
func validateFormDef(fd *FormDef, src string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", src)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", src)
	}

	seen := make(map[string]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, src); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", src, f.Name)
		}
		seen[f.Name] = struct{}{}
	}

	for _, ac := range fd.Actions {
		if !knownActions[ac.Type] {
			return fmt.Errorf("form %s: unknown action type '%s'", src, ac.Type)
		}
	}
	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *FieldDef, src string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", src)
	}
	if reservedNames[f.Name] {
		return fmt.Errorf("form %s: field name '%s' is reserved", src, f.Name)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", src, f.Name)
	}
	if !knownFieldTypes[f.Type] {
		return fmt.Errorf("form %s: field '%s' has unsupported type %q", src, f.Name, f.Type)
	}
	if f.Pattern != "" {
		if _, err := regexp.Compile(f.Pattern); err != nil {
			return fmt.Errorf("form %s: field '%s' invalid regex pattern: %v", src, f.Name, err)
		}
	}
	if f.MinLength < 0 || f.MaxLength < 0 {
		return fmt.Errorf("form %s: field '%s' minlength/maxlength cannot be negative", src, f.Name)
	}
	if f.MaxLength > 0 && f.MinLength > f.MaxLength {
		return fmt.Errorf("form %s: field '%s' minlength greater than maxlength", src, f.Name)
	}
	return nil
}
