package limits

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Source loads the plan catalog.
type Source interface {
	Load(ctx context.Context) ([]Plan, error)
}

type memorySource []Plan

// NewInMemSource returns a Source serving copies of plans.
func NewInMemSource(plans ...Plan) Source {
	out := make(memorySource, len(plans))
	for i, p := range plans {
		out[i] = p.clone()
	}
	return out
}

func (s memorySource) Load(context.Context) ([]Plan, error) {
	out := make([]Plan, len(s))
	for i, p := range s {
		out[i] = p.clone()
	}
	return out, nil
}

// YAMLSource reads the "plans" section of a catalog document.
type YAMLSource struct {
	r io.Reader
}

func NewYAMLSource(r io.Reader) *YAMLSource {
	return &YAMLSource{r: r}
}

func (s *YAMLSource) Load(context.Context) ([]Plan, error) {
	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.NewDecoder(s.r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	return doc.Plans, nil
}
