package feature

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads the "flags" section of a catalog document:
//
//	flags:
//	  - name: qr_codes
//	    enabled: true
//	  - name: wizard
//	    enabled: true
//	    targeting:
//	      plans: [pro, agency]
//	      percentage: 25
func LoadYAML(r io.Reader) ([]*Flag, error) {
	var doc struct {
		Flags []*Flag `yaml:"flags"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidFlag, err)
	}

	seen := make(map[string]struct{}, len(doc.Flags))
	for i, f := range doc.Flags {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("flags[%d]: %w", i, err)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("flags[%d]: %w: %s", i, ErrFlagExists, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return doc.Flags, nil
}
