package cli

import (
	"context"

	"github.com/pkg/browser"

	"github.com/matzehuels/btg/pkg/errors"
	"github.com/matzehuels/btg/pkg/pipeline"
)

// openFunc hands a written file to a viewer.
type openFunc func(path string) error

// opener returns c.open, or the desktop's default handler for the file type.
func (c *CLI) opener() openFunc {
	if c.open != nil {
		return c.open
	}
	return func(path string) error {
		browser.Stdout = c.Err
		browser.Stderr = c.Err
		return browser.OpenFile(path)
	}
}

// view opens the first rendered file of a finished run. Runs that wrote
// only DOT or JSON have nothing to show. A viewer failure is reported as
// an error; the written files stay in place.
func (c *CLI) view(ctx context.Context, result *pipeline.Result) error {
	if result.Viewable == "" {
		loggerFromContext(ctx).Debug("nothing rendered to view")
		return nil
	}
	printInfo(c.Out, "Opening %s", result.Viewable)
	if err := c.opener()(result.Viewable); err != nil {
		printError(c.Out, "Could not open viewer")
		return errors.Wrap(errors.ErrCodeView, err, "open %s", result.Viewable)
	}
	return nil
}
