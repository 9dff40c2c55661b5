package main

import (
	"context"
	"fmt"

	"knewkarma/internal/runner"
	"knewkarma/pkg/export"
	"knewkarma/pkg/normalize"
	"knewkarma/pkg/ui"
)

// result is what one action produced
type result struct {
	records []normalize.Record
	single  bool
}

func one(r normalize.Record) result {
	return result{records: []normalize.Record{r}, single: true}
}

func many[T normalize.Record](items []T) result {
	return result{records: normalize.Records(items)}
}

// single adapts a call that returns one record
func single[T normalize.Record](item *T, err error) (result, error) {
	if err != nil {
		return result{}, err
	}
	return one(*item), nil
}

// list adapts a call that returns a listing
func list[T normalize.Record](items []T, err error) (result, error) {
	if err != nil {
		return result{}, err
	}
	return many(items), nil
}

// wikiPage lets wiki page names be rendered and exported like other records
type wikiPage string

func (wikiPage) Kind() normalize.Kind { return "wiki_page" }

func (p wikiPage) Fields() []normalize.Field {
	return []normalize.Field{{Name: "page", Value: string(p)}}
}

func wikiPages(names []string) result {
	pages := make([]wikiPage, len(names))
	for i, n := range names {
		pages[i] = wikiPage(n)
	}
	return many(pages)
}

// emit renders res and exports it when export formats are configured
func (a *app) emit(mode, action, target string, res result) error {
	if target != "" {
		ui.PrintInfo(mode, target)
	}
	ui.Render(res.records, res.single)

	if a.exporter == nil || len(res.records) == 0 {
		return nil
	}
	written, err := a.exporter.Export(export.Dataset{
		Mode:    mode,
		Action:  action,
		Target:  target,
		Records: res.records,
		Single:  res.single,
	}, a.cfg.Output.ExportFormats)
	for _, w := range written {
		ui.PrintSuccess(fmt.Sprintf("Exported %s (%d bytes)", w.Path, w.Size))
	}
	return err
}

// runTargets fetches every target as an independent job and emits the results
// in argument order. A failing target is reported without stopping the
// others.
func (a *app) runTargets(ctx context.Context, mode, action string, targets []string, fetch func(ctx context.Context, target string) (result, error)) error {
	jobs := make([]runner.Job[result], len(targets))
	for i, target := range targets {
		jobs[i] = runner.Job[result]{
			Name: mode + ":" + target,
			Run: func(ctx context.Context) (result, error) {
				return fetch(ctx, target)
			},
		}
	}

	var (
		failed   int
		firstErr error
	)
	for _, r := range runner.RunAll(ctx, a.cfg.Concurrency.Workers, jobs, a.log) {
		target := targets[r.Job.Index]
		err := r.Err
		if err == nil {
			err = a.emit(mode, action, target, r.Value)
		}
		if err != nil {
			ui.PrintError(fmt.Sprintf("%s %s failed", mode, target), err)
			if firstErr == nil {
				firstErr = err
			}
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d %s targets failed: %w", failed, len(targets), mode, firstErr)
	}
	return nil
}
