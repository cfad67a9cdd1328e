package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ppiankov/sc2bot/internal/infobox"
	"github.com/ppiankov/sc2bot/internal/model"
	"github.com/ppiankov/sc2bot/internal/worker"
)

// Pipeline resolves a search term to a wiki page and renders its infobox
type Pipeline struct {
	fetcher   *Fetcher
	extractor *infobox.Extractor
	baseURL   string
}

// NewPipeline creates a pipeline from configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	wiki := cfg.Wiki
	fetcher := NewFetcher(wiki.Timeout, wiki.UserAgent, wiki.MaxBodyBytes, wiki.HTTPProxy, wiki.HTTPSProxy).
		WithLimiter(worker.NewLimiter(wiki.RequestsPerSecond, wiki.Burst, 0))
	if wiki.RespectRobots {
		fetcher.WithRobots()
	}

	return &Pipeline{
		fetcher:   fetcher,
		extractor: infobox.NewExtractor(infobox.IconsFromConfig(cfg.Icons)),
		baseURL:   wiki.BaseURL,
	}
}

// PageURL returns the wiki address for a search term
func (p *Pipeline) PageURL(term string) string {
	base := p.baseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + url.PathEscape(PageTitle(term))
}

// Lookup fetches the page for term and extracts its infobox.
// A missing page is reported as ErrNotFound; a page without an infobox yields
// a result holding only the source reference.
func (p *Pipeline) Lookup(ctx context.Context, term string) (*model.ExtractionResult, error) {
	pageURL := p.PageURL(term)
	log.Debug().Str("term", term).Str("url", pageURL).Msg("looking up")

	page, err := p.fetcher.FetchWithRetry(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", term, err)
	}

	entries, err := infobox.EntriesFromHTML(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("extract %q: %w", term, err)
	}

	result := p.extractor.Extract(entries, page.FinalURL)
	return &result, nil
}

// PageTitle turns a free-form search term into a wiki page title,
// e.g. "siege  tank" -> "Siege_Tank". Existing capitals are kept.
func PageTitle(term string) string {
	words := strings.Fields(term)
	title := cases.Title(language.English, cases.NoLower).String(strings.Join(words, " "))
	return strings.ReplaceAll(title, " ", "_")
}
