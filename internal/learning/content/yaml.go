// Package content reads course curricula authored outside the service.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/coachdesk-backend/internal/domain/learning"
)

// SeedCourse is one course in a curriculum file. Publish asks the importer to take the
// created draft live once it is stored.
type SeedCourse struct {
	learning.CourseContent `yaml:",inline"`
	Publish                bool `yaml:"publish"`
}

type Catalog struct {
	Courses []SeedCourse `yaml:"courses"`
}

// ParseYAML decodes a catalog. Unknown keys are rejected so a typo in a task field
// does not silently drop data. Module and task order default to their position.
func ParseYAML(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("catalog is empty")
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var cat Catalog
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(cat.Courses) == 0 {
		return nil, errors.New("catalog has no courses")
	}
	for i := range cat.Courses {
		c := &cat.Courses[i]
		c.Title = strings.TrimSpace(c.Title)
		if c.Title == "" {
			return nil, fmt.Errorf("courses[%d]: title is required", i)
		}
		if c.Modules == nil {
			c.Modules = []learning.Module{}
		}
		for mi := range c.Modules {
			m := &c.Modules[mi]
			if m.Order == 0 {
				m.Order = mi
			}
			if m.Tasks == nil {
				m.Tasks = []learning.Task{}
			}
			for ti := range m.Tasks {
				t := &m.Tasks[ti]
				t.Type = learning.TaskType(strings.ToLower(strings.TrimSpace(string(t.Type))))
				if t.Order == 0 {
					t.Order = ti
				}
			}
		}
	}
	return &cat, nil
}
