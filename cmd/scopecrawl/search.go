package main

import (
	"fmt"
	"strings"

	"github.com/scopecrawl/scopecrawl"
	"github.com/scopecrawl/scopecrawl/fs"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	store := deps.Records
	if store == nil {
		store = fs.NewRecordStore(c.Input)
	}

	records, err := store.LoadRecords(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scopecrawl.ErrorMessage(err))
		return err
	}

	matches := scopecrawl.SearchRecords(records, c.Query)
	if len(matches) == 0 {
		err := scopecrawl.Errorf(scopecrawl.ENOTFOUND, "no records match %q", c.Query)
		fmt.Fprintf(deps.Stderr, "error: %s\n", scopecrawl.ErrorMessage(err))
		return err
	}

	for _, r := range matches {
		fmt.Fprintln(deps.Stdout, r.Title)
		if c.Lines {
			for _, line := range matchingLines(r.Content, c.Query) {
				fmt.Fprintf(deps.Stdout, "  %s\n", line)
			}
		}
	}
	return nil
}

// matchingLines returns the distinct lines of content containing query, ignoring case.
func matchingLines(content, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	seen := make(map[string]struct{})
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(strings.ToLower(line), query) {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	return lines
}
