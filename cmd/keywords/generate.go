package main

import (
	"errors"
	"fmt"

	"seokeys/internal/keywords"
)

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	res, err := deps.Pipeline.Generate(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keywords.Message(keywords.ErrorKindOf(err)))
		return err
	}
	return render(deps.Stdout, res, c.Format)
}

// Run executes the lookup command.
func (c *LookupCmd) Run(deps *Dependencies) error {
	res, err := deps.Pipeline.Lookup(deps.Ctx, c.URL)
	if errors.Is(err, keywords.ErrNotCached) {
		fmt.Fprintf(deps.Stderr, "No cached keywords for %s. Use 'keywords generate' first.\n", c.URL)
		return err
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keywords.Message(keywords.ErrorKindOf(err)))
		return err
	}
	return render(deps.Stdout, res, c.Format)
}
