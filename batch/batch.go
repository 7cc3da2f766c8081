package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tsawler/docmark"
	"github.com/tsawler/docmark/model"
)

// Mode selects the per-file operation of a batch run.
type Mode int

const (
	// ModeMarkdown converts each package to a markdown file plus its
	// extracted images.
	ModeMarkdown Mode = iota

	// ModePackage builds a package from each markdown file.
	ModePackage

	// ModeStrip rewrites each package with all images removed.
	ModeStrip
)

// Result reports the outcome of one input.
type Result struct {
	Input    string
	Output   string
	Warnings []model.Warning
	Err      error
}

// Process runs the configured operation over every input with a
// bounded worker pool. Results come back in input order. A canceled
// context marks the remaining inputs failed without starting them.
func Process(ctx context.Context, cfg Config, mode Mode, inputs []string) []Result {
	cfg.applyDefaults()

	results := make([]Result, len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = processOne(ctx, cfg, mode, inputs[i])
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func processOne(ctx context.Context, cfg Config, mode Mode, input string) Result {
	if err := ctx.Err(); err != nil {
		return Result{Input: input, Err: err}
	}

	switch mode {
	case ModeMarkdown:
		return toMarkdown(cfg, input)
	case ModePackage:
		return toPackage(cfg, input)
	case ModeStrip:
		return strip(cfg, input)
	default:
		return Result{Input: input, Err: fmt.Errorf("unknown batch mode %d", mode)}
	}
}

func toMarkdown(cfg Config, input string) Result {
	res := Result{Input: input}

	md, images, warnings, err := docmark.Open(input).Markdown()
	res.Warnings = warnings
	if err != nil {
		res.Err = err
		return res
	}

	res.Output = filepath.Join(cfg.OutputDir, replaceExt(input, ".md"))
	if err := writeFile(res.Output, []byte(md)); err != nil {
		res.Err = err
		return res
	}

	for target, a := range images {
		name := filepath.Join(cfg.OutputDir, cfg.ImageDir, filepath.Base(target))
		if err := writeFile(name, a.Data); err != nil {
			res.Err = err
			return res
		}
	}
	return res
}

func toPackage(cfg Config, input string) Result {
	res := Result{Input: input}

	source, err := os.ReadFile(input)
	if err != nil {
		res.Err = fmt.Errorf("reading %s: %w", input, err)
		return res
	}

	b := docmark.FromMarkdown(string(source)).ImagesDir(filepath.Dir(input))
	if cfg.FetchRemote {
		b = b.FetchRemote(cfg.FetchTimeout)
	}
	if cfg.Captions {
		b = b.Captions()
	}

	data, warnings, err := b.Package()
	res.Warnings = warnings
	if err != nil {
		res.Err = err
		return res
	}

	res.Output = filepath.Join(cfg.OutputDir, replaceExt(input, ".docx"))
	res.Err = writeFile(res.Output, data)
	return res
}

func strip(cfg Config, input string) Result {
	res := Result{Input: input}

	data, _, err := docmark.Open(input).StripImages()
	if err != nil {
		res.Err = err
		return res
	}

	base := replaceExt(input, "")
	res.Output = filepath.Join(cfg.OutputDir, base+"_noimages.docx")
	res.Err = writeFile(res.Output, data)
	return res
}

// replaceExt swaps the extension of an input's base name, keeping the
// output name deterministic regardless of input directory.
func replaceExt(input, ext string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

// writeFile writes through a temp file in the target directory and
// renames it into place, so readers never observe a partial file.
func writeFile(name string, data []byte) error {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(name)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming into %s: %w", name, err)
	}
	return nil
}
