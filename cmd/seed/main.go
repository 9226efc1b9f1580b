package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/coachdesk-backend/internal/app"
	"github.com/yungbote/coachdesk-backend/internal/learning/content"
)

func main() {
	file := flag.String("file", "", "curriculum catalog (YAML)")
	dryRun := flag.Bool("dry-run", false, "parse and report without writing")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -file catalog.yaml [-dry-run] (see internal/learning/content/testdata/catalog.yaml)")
		os.Exit(2)
	}
	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open catalog: %v\n", err)
		os.Exit(1)
	}
	cat, err := content.ParseYAML(f)
	_ = f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse catalog: %v\n", err)
		os.Exit(1)
	}
	if *dryRun {
		for _, c := range cat.Courses {
			r := c.Readiness()
			fmt.Printf("%s: modules=%d tasks=%d ready=%t publish=%t\n", c.Title, r.Modules, r.Tasks, r.Ready, c.Publish)
		}
		return
	}

	ctx := context.Background()
	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	failed := 0
	for _, c := range cat.Courses {
		v, err := a.Services.Lifecycle.CreateCourse(ctx, c.CourseContent)
		if err != nil {
			a.Log.Error("Seed course failed", "title", c.Title, "error", err)
			failed++
			continue
		}
		if c.Publish {
			if _, err := a.Services.Lifecycle.Publish(ctx, v.ID); err != nil {
				a.Log.Error("Seed publish failed", "title", c.Title, "version_id", v.ID, "error", err)
				failed++
				continue
			}
		}
		a.Log.Info("Seeded course", "title", c.Title, "base_id", v.BaseID, "version_id", v.ID, "published", c.Publish)
	}
	if failed > 0 {
		a.Close()
		os.Exit(1)
	}
}
