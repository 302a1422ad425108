// Package siteseeker matches free-text queries against a catalog of food
// resource sites: it detects the query language, routes between structured
// lookup and open-ended chat, resolves a location, runs the proximity and
// facet pipeline, and formats the reply.
package siteseeker

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/nourishdc/siteseeker/catalog"
	"github.com/nourishdc/siteseeker/common/httpx"
	"github.com/nourishdc/siteseeker/common/logger"
	"github.com/nourishdc/siteseeker/config"
	"github.com/nourishdc/siteseeker/geocode"
	"github.com/nourishdc/siteseeker/intent"
	"github.com/nourishdc/siteseeker/lang"
	"github.com/nourishdc/siteseeker/llm"
	"github.com/nourishdc/siteseeker/metrics"
	"github.com/nourishdc/siteseeker/pipeline"
	"github.com/nourishdc/siteseeker/respond"
)

const Version = "1.0.0"

const defaultSystemPrompt = "You are a helpful assistant for a community food bank. " +
	"You help people find food resources and answer questions about food assistance."

// Engine wires the request pipeline. It is safe for concurrent use: all
// per-request state lives in locals, and the catalog is an immutable
// snapshot.
type Engine struct {
	cfg        *config.Config
	catalog    *catalog.Catalog
	gateway    *lang.Gateway
	classifier *intent.Classifier
	resolver   *geocode.Resolver
	responder  llm.Provider
	prompt     string
	now        func() time.Time
}

// NewEngine builds an engine from configuration. A failed catalog load
// degrades to an empty catalog rather than refusing to start; a missing
// responder key degrades open-ended chat to an apology.
func NewEngine(cfg *config.Config) (*Engine, error) {
	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		logger.Errorf("engine: catalog load failed, starting with empty catalog: %v", err)
		cat = catalog.New(nil)
	}

	responder, err := llm.NewProvider(cfg.Responder)
	if err != nil {
		return nil, err
	}

	client := httpx.NewFromConfig(&cfg.HTTPClient)
	geocoder := geocode.NewOpenCage(cfg.Geocoder, client)
	ttl := time.Duration(cfg.Geocoder.CacheTTLSeconds) * time.Second
	resolver := geocode.NewResolver(geocoder, cfg.Geocoder.CacheSize, ttl)

	alt, err := language.Parse(cfg.Language.Alternate)
	if err != nil {
		return nil, err
	}
	translator := lang.Chain{
		lang.NewStatic(alt, respond.SpanishNotices()),
		&lang.LLMTranslator{Provider: responder},
	}
	gateway, err := lang.NewGateway(cfg.Language, translator)
	if err != nil {
		return nil, err
	}

	prompt := cfg.Responder.SystemPrompt
	if prompt == "" {
		prompt = defaultSystemPrompt
	}

	return &Engine{
		cfg:        cfg,
		catalog:    cat,
		gateway:    gateway,
		classifier: intent.NewClassifier(),
		resolver:   resolver,
		responder:  responder,
		prompt:     prompt,
		now:        time.Now,
	}, nil
}

// Catalog exposes the site catalog, for reloads and health reporting.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Process answers one chat message. The returned text is always a
// well-formed, translated reply; err is non-nil only when a collaborator
// failed and the caller should report a server error alongside the text.
func (e *Engine) Process(ctx context.Context, message string, device *catalog.Coordinates) (string, error) {
	start := e.now()
	tag := e.gateway.Detect(message)

	if strings.TrimSpace(message) == "" {
		metrics.ObserveUnresolved()
		metrics.ObserveRequest(intent.Lookup.String(), start)
		return e.gateway.Gate(ctx, respond.NoticeLocationUnresolved, tag), nil
	}

	res := e.classifier.Classify(message)
	logger.Infof("engine: intent=%s facets=%d wants_count=%v lang=%s",
		res.Intent, len(res.Facets), res.WantsCount, tag)

	if res.Intent == intent.OpenEnded {
		reply, err := e.delegate(ctx, message, tag)
		metrics.ObserveRequest(intent.OpenEnded.String(), start)
		return reply, err
	}

	reply := e.lookup(ctx, message, device, res, tag)
	metrics.ObserveRequest(intent.Lookup.String(), start)
	return reply, nil
}

// lookup runs the structured pipeline. Location resolution happens before
// any catalog access, so an unresolved location never touches the catalog.
func (e *Engine) lookup(ctx context.Context, message string, device *catalog.Coordinates, res intent.Result, tag language.Tag) string {
	coords, err := e.resolver.ResolveQuery(ctx, message, device)
	if err != nil {
		metrics.ObserveUnresolved()
		return e.gateway.Gate(ctx, respond.NoticeLocationUnresolved, tag)
	}

	now := e.now()
	ranked, trace := pipeline.Run(e.catalog.Sites(), coords, res.Facets, res.WantsCount, now)
	for _, sc := range trace {
		metrics.ObserveStage(sc.Stage, sc.Survivors)
	}
	if len(ranked) == 0 {
		metrics.ObserveEmptyResults()
		return e.gateway.Gate(ctx, respond.NoticeNoResults, tag)
	}

	mode := respond.Single
	if res.WantsCount {
		mode = respond.TopN
	}
	return e.gateway.Gate(ctx, respond.Format(ranked, mode, now), tag)
}

// delegate forwards an open-ended query to the generative responder. The
// query is translated to the default language on the way in and the reply
// gated on the way out.
func (e *Engine) delegate(ctx context.Context, message string, tag language.Tag) (string, error) {
	if e.responder == nil {
		return e.gateway.Gate(ctx, respond.NoticeGenericError, tag), ErrResponderUnavailable
	}
	reply, err := e.responder.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: e.prompt},
		{Role: llm.RoleUser, Content: e.gateway.ToDefault(ctx, message, tag)},
	}, e.cfg.Responder.Temperature)
	if err != nil {
		metrics.ObserveCollaboratorFailure("responder")
		logger.Errorf("engine: responder call failed: %v", err)
		return e.gateway.Gate(ctx, respond.NoticeGenericError, tag), ErrResponderUnavailable
	}
	return e.gateway.Gate(ctx, reply, tag), nil
}

// RespondDirect is the passthrough endpoint's path to the generative
// responder, bypassing intent classification.
func (e *Engine) RespondDirect(ctx context.Context, message string) (string, error) {
	tag := e.gateway.Detect(message)
	return e.delegate(ctx, message, tag)
}
