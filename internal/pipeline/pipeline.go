package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/ppiankov/boycotts/internal/cache"
	"github.com/ppiankov/boycotts/internal/extract"
	"github.com/ppiankov/boycotts/internal/model"
	"github.com/ppiankov/boycotts/internal/transform"
	"github.com/rs/zerolog/log"
)

// Extractor turns a line sequence into boycott records
type Extractor interface {
	Extract(lines []string) []model.Boycott
}

// Pipeline orchestrates fetch, flatten, extract, transform and write
type Pipeline struct {
	fetcher   *Fetcher
	extractor Extractor
	writer    *Writer
	config    *model.Config
	now       func() time.Time
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	fetcher := NewFetcher(cfg.HTTP)
	if cfg.Cache.Enabled {
		fetcher.UseCache(cache.NewFromConfig(cfg.Cache), 0, cfg.Cache.Refresh)
	}
	if cfg.Robots.Check {
		fetcher.UseRobots(cfg.Robots.Enforce)
	}

	return &Pipeline{
		fetcher:   fetcher,
		extractor: extract.NewRecordExtractor(extract.OptionsFromConfig(cfg.Extract)),
		writer:    NewWriter(cfg.Output),
		config:    cfg,
		now:       time.Now,
	}
}

// Result contains everything one run produced
type Result struct {
	Lines         int
	Markers       int
	Archive       model.Archive
	EvilCompanies map[string]model.EvilCompany
	Meta          model.FetchMeta
}

// Run fetches the configured page, processes it and writes both files
func (p *Pipeline) Run(ctx context.Context) (*Result, Paths, error) {
	url := p.config.Source.URL
	log.Info().Str("url", url).Msg("Fetching boycott page...")

	page, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("fetch failed")
		return nil, Paths{}, err
	}
	log.Debug().
		Int("status", page.Meta.StatusCode).
		Str("content_type", page.Meta.ContentType).
		Str("final_url", page.Meta.FinalURL).
		Bool("from_cache", page.Meta.FromCache).
		Bool("truncated", page.Meta.Truncated).
		Int("bytes", len(page.HTML)).
		Msg("page fetched")

	return p.finish(page.HTML, url, page.Meta)
}

// RunFile processes a saved copy of the page instead of fetching it
func (p *Pipeline) RunFile(path, sourceURL string) (*Result, Paths, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = &UnexpectedError{Stage: "read", Err: fmt.Errorf("read %s: %w", path, err)}
		log.Error().Err(err).Str("path", path).Msg("read failed")
		return nil, Paths{}, err
	}
	log.Info().Str("path", path).Int("bytes", len(data)).Msg("Reading saved page...")

	return p.finish(data, sourceURL, model.FetchMeta{})
}

func (p *Pipeline) finish(html []byte, sourceURL string, meta model.FetchMeta) (*Result, Paths, error) {
	result, err := p.Process(html, sourceURL)
	if err != nil {
		log.Error().Err(err).Str("url", sourceURL).Msg("processing failed")
		return nil, Paths{}, err
	}
	result.Meta = meta

	paths, err := p.Write(result)
	if err != nil {
		log.Error().Err(err).Msg("write failed")
		return nil, Paths{}, err
	}

	return result, paths, nil
}

// Process flattens html, extracts the records and builds both documents.
// A panic in any stage is returned as *UnexpectedError carrying the stack.
func (p *Pipeline) Process(html []byte, sourceURL string) (result *Result, err error) {
	stage := "flatten"
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &UnexpectedError{Stage: stage, Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
		}
	}()

	lines, err := extract.Flatten(bytes.NewReader(html))
	if err != nil {
		return nil, &UnexpectedError{Stage: stage, Err: err}
	}
	log.Info().Int("lines", len(lines)).Msg("Processing lines of text...")

	stage = "extract"
	markers := len(extract.FindAnchors(lines))
	log.Info().Int("markers", markers).Msg(`Found "Category:" markers`)

	records := p.extractor.Extract(lines)
	if records == nil {
		records = []model.Boycott{}
	}
	log.Info().Int("entries", len(records)).Msg("Found boycott entries")

	stage = "transform"
	evil, collisions := transform.EvilCompanies(records)
	for _, c := range collisions {
		log.Warn().Str("key", c.Key).Str("previous", c.Previous).Str("current", c.Current).
			Msg("duplicate company key; keeping the later record")
	}

	return &Result{
		Lines:   len(lines),
		Markers: markers,
		Archive: model.Archive{
			Source:    p.config.Source.Name,
			URL:       sourceURL,
			ScrapedAt: p.now().UTC().Format(model.ScrapedAtFormat),
			Boycotts:  records,
		},
		EvilCompanies: evil,
	}, nil
}

// Write writes the archive and the evil-companies lookup
func (p *Pipeline) Write(result *Result) (Paths, error) {
	paths, err := p.writer.Write(result.Archive, result.EvilCompanies)
	if err != nil {
		return Paths{}, &UnexpectedError{Stage: "write", Err: err}
	}

	log.Info().Str("path", paths.Boycotts).Int("entries", len(result.Archive.Boycotts)).Msg("Saved boycotts")
	log.Info().Str("path", paths.EvilCompanies).Int("entries", len(result.EvilCompanies)).Msg("Saved evil companies")
	return paths, nil
}
