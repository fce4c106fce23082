package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML shape of a deployment catalog.
//
//	name: clinic
//	thresholds:
//	  mild_max: 4
//	  moderate_max: 6
//	parameters:
//	  - id: hunger
//	    label: Hunger Patterns
//	    descriptors:
//	      vishama: {label: Irregular, text: "...", weight: 1}
//	      tikshna: {...}
//	      manda:   {...}
//	      sama:    {...}
type File struct {
	Name       string          `yaml:"name" validate:"required"`
	Thresholds ThresholdsFile  `yaml:"thresholds" validate:"required"`
	Parameters []ParameterFile `yaml:"parameters" validate:"required,min=1,dive"`
}

// ThresholdsFile holds severity band limits.
type ThresholdsFile struct {
	MildMax     int `yaml:"mild_max" validate:"gte=1"`
	ModerateMax int `yaml:"moderate_max" validate:"gtfield=MildMax"`
}

// ParameterFile is one parameter entry.
type ParameterFile struct {
	ID          string                    `yaml:"id" validate:"required"`
	Label       string                    `yaml:"label" validate:"required"`
	Description string                    `yaml:"description"`
	Descriptors map[string]DescriptorFile `yaml:"descriptors" validate:"required,len=4,dive,keys,oneof=vishama tikshna manda sama,endkeys"`
}

// DescriptorFile is one (parameter, category) cell.
type DescriptorFile struct {
	Label  string `yaml:"label"`
	Text   string `yaml:"text" validate:"required"`
	Weight int    `yaml:"weight" validate:"gte=0"`
}

var fileValidate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := fileValidate.Struct(f); err != nil {
		return nil, fmt.Errorf("validating catalog: %s", describeValidation(err))
	}
	return f.toCatalog()
}

// Load reads a YAML catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Resolve returns the built-in catalog named by ref, or loads ref as a
// file path when it is not a built-in name.
func Resolve(ref string) (*Catalog, error) {
	switch ref {
	case "", NameDefault, NameClassic:
		return Builtin(ref)
	}
	return Load(ref)
}

func (f File) toCatalog() (*Catalog, error) {
	params := make([]Parameter, 0, len(f.Parameters))
	for _, pf := range f.Parameters {
		p := Parameter{
			ID:          pf.ID,
			Label:       pf.Label,
			Description: pf.Description,
			Descriptors: make(map[domain.Category]Descriptor, len(pf.Descriptors)),
		}
		for key, df := range pf.Descriptors {
			cat, err := domain.ParseCategory(key)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", pf.ID, err)
			}
			label := df.Label
			if label == "" {
				label = cat.ShortLabel()
			}
			p.Descriptors[cat] = Descriptor{Label: label, Text: df.Text, Weight: df.Weight}
		}
		params = append(params, p)
	}
	return New(f.Name, params, Thresholds{
		MildMax:     f.Thresholds.MildMax,
		ModerateMax: f.Thresholds.ModerateMax,
	})
}

// describeValidation flattens validator errors into one readable line.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// ToFile converts a catalog back to its YAML shape.
func ToFile(c *Catalog) File {
	f := File{
		Name: c.Name,
		Thresholds: ThresholdsFile{
			MildMax:     c.Thresholds.MildMax,
			ModerateMax: c.Thresholds.ModerateMax,
		},
	}
	for _, p := range c.Parameters {
		pf := ParameterFile{
			ID:          p.ID,
			Label:       p.Label,
			Description: p.Description,
			Descriptors: make(map[string]DescriptorFile, len(p.Descriptors)),
		}
		for cat, d := range p.Descriptors {
			pf.Descriptors[string(cat)] = DescriptorFile{Label: d.Label, Text: d.Text, Weight: d.Weight}
		}
		f.Parameters = append(f.Parameters, pf)
	}
	return f
}

// Marshal renders a catalog as YAML.
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(ToFile(c))
}
