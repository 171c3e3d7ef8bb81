package main

import (
	"fmt"
	"time"

	"github.com/scopecrawl/scopecrawl"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	if c.Delete {
		return c.delete(deps)
	}
	if c.ID != "" {
		return c.show(deps)
	}

	filter := scopecrawl.RunFilter{Limit: c.Limit}
	if c.Seed != "" {
		filter.Seed = &c.Seed
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scopecrawl.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'scopecrawl crawl' to start one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d recorded  %d failed  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Recorded, r.Failed, r.Seed)
	}
	return nil
}

func (c *RunsCmd) delete(deps *Dependencies) error {
	if c.ID == "" {
		err := scopecrawl.Errorf(scopecrawl.EINVALID, "--delete needs a run ID")
		fmt.Fprintf(deps.Stderr, "error: %s\n", scopecrawl.ErrorMessage(err))
		return err
	}
	if err := deps.Runs.DeleteRun(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scopecrawl.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.ID)
	return nil
}

func (c *RunsCmd) show(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scopecrawl.ErrorMessage(err))
		return err
	}

	visits, err := deps.Runs.FindVisits(deps.Ctx, run.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scopecrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run %s\n", run.ID)
	fmt.Fprintf(deps.Stdout, "  seed:     %s\n", run.Seed)
	fmt.Fprintf(deps.Stdout, "  primary:  %s\n", run.Primary)
	fmt.Fprintf(deps.Stdout, "  started:  %s\n", run.StartedAt.Local().Format(time.DateTime))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(deps.Stdout, "  duration: %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
	}
	fmt.Fprintf(deps.Stdout, "  recorded: %d\n  failed:   %d\n", run.Recorded, run.Failed)

	for _, v := range visits {
		line := fmt.Sprintf("  %-8s %s", v.Status, v.URL)
		if v.Error != "" {
			line += "  (" + v.Error + ")"
		}
		fmt.Fprintln(deps.Stdout, line)
	}
	return nil
}
