package main

import (
	"context"

	"github.com/charmbracelet/log"

	"pkt.systems/jcat"
	"pkt.systems/jcat/internal/source"
)

// run validates every argument before printing anything, then prints each
// source in order. A consumer that stops reading (a pager that was quit)
// ends the run without an error.
func run(ctx context.Context, s streams, opts *jcat.Options, args []string) error {
	logger := log.FromContext(ctx)

	p, err := jcat.New(opts)
	if err != nil {
		return err
	}

	sources, err := source.Resolve(s.Fs, args)
	if err != nil {
		return err
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Debug("printing", "source", src.Name(), "width", opts.Width, "format", opts.Format, "color", p.Colored())
		if err := printSource(p, s, src); err != nil {
			if jcat.IsBrokenPipe(err) {
				logger.Debug("output closed, stopping", "source", src.Name())
				return nil
			}
			return err
		}
	}
	return nil
}

// printSource keeps the file open only while it is printed.
func printSource(p *jcat.Printer, s streams, src source.Source) error {
	rc, err := src.Open(s.Fs, s.In)
	if err != nil {
		return err
	}
	defer rc.Close()
	return p.Print(s.Out, src.Name(), rc)
}
