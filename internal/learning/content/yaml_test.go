package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/coachdesk-backend/internal/domain/learning"
)

const sampleCatalog = `
courses:
  - title: "  Intro to Coaching  "
    description: First steps
    publish: true
    modules:
      - title: Foundations
        tasks:
          - title: Welcome video
            type: Video
            minutes_to_complete: 5
          - title: Reading list
            type: reading
      - title: Practice
        order: 7
        tasks:
          - title: Check-in quiz
            type: quiz
  - title: Outline only
`

func intPtr(n int) *int { return &n }

func TestParseYAML(t *testing.T) {
	cat, err := ParseYAML(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	want := &Catalog{Courses: []SeedCourse{
		{
			Publish: true,
			CourseContent: learning.CourseContent{
				Title:       "Intro to Coaching",
				Description: "First steps",
				Modules: []learning.Module{
					{
						Title: "Foundations",
						Order: 0,
						Tasks: []learning.Task{
							{Title: "Welcome video", Type: learning.TaskVideo, MinutesToComplete: intPtr(5), Order: 0},
							{Title: "Reading list", Type: learning.TaskReading, Order: 1},
						},
					},
					{
						Title: "Practice",
						Order: 7,
						Tasks: []learning.Task{{Title: "Check-in quiz", Type: learning.TaskQuiz, Order: 0}},
					},
				},
			},
		},
		{CourseContent: learning.CourseContent{Title: "Outline only", Modules: []learning.Module{}}},
	}}
	if diff := cmp.Diff(want, cat); diff != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
	}
	if !cat.Courses[0].Readiness().Ready || cat.Courses[1].Readiness().Ready {
		t.Fatalf("readiness: got %+v / %+v", cat.Courses[0].Readiness(), cat.Courses[1].Readiness())
	}
}

func TestParseYAMLRejects(t *testing.T) {
	cases := map[string]string{
		"empty":       "  \n",
		"no courses":  "courses: []\n",
		"no title":    "courses:\n  - description: x\n",
		"unknown key": "courses:\n  - title: x\n    modules:\n      - title: m\n        taks: []\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseYAML(strings.NewReader(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseYAMLExampleCatalog(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "catalog.yaml"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	cat, err := ParseYAML(f)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if len(cat.Courses) != 2 {
		t.Fatalf("courses: want=2 got=%d", len(cat.Courses))
	}
	got := []learning.Readiness{cat.Courses[0].Readiness(), cat.Courses[1].Readiness()}
	want := []learning.Readiness{{Modules: 2, Tasks: 4, Ready: true}, {Modules: 0, Tasks: 0, Ready: false}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("readiness mismatch (-want +got):\n%s", diff)
	}
	if !cat.Courses[0].Publish || cat.Courses[1].Publish {
		t.Fatalf("publish flags: %+v", cat.Courses)
	}
}
