package archetype

import (
	"context"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/deckwatch/deckwatch/internal/signature"
	"github.com/deckwatch/deckwatch/internal/sprite"
	"github.com/deckwatch/deckwatch/internal/storage/models"
)

// Cascade stage confidences. Sprite matches carry the confidence recorded
// in the index; the rest are fixed per method.
const (
	confidenceAutoDerive   = 0.75
	confidenceSignature    = 0.70
	confidenceKnownLabel   = 0.50
	confidenceRawLabel     = 0.40
	confidenceUnknownLabel = 0.10
)

// Config carries the read-only indices a resolver needs. Build one per
// batch; the indices must not be mutated while the batch runs.
type Config struct {
	Sprites    *sprite.Index
	Signatures *signature.Index
	Aliases    *AliasTable

	// Translator maps provider (JP) card ids to catalog (EN) ids before
	// signature lookup. Optional; unmapped ids pass through.
	Translator signature.Translator

	// Workers bounds ResolveAll concurrency. Zero means NumCPU.
	Workers int
}

// Resolver runs the archetype resolution cascade over placements. All
// state is read-only after construction, so one resolver may be shared by
// any number of concurrent workers.
type Resolver struct {
	sprites  *sprite.Index
	detector *signature.Detector
	aliases  *AliasTable
	workers  int
}

// NewResolver constructs a resolver from explicit per-batch indices.
// There is deliberately no package-level default instance.
func NewResolver(cfg Config) *Resolver {
	sprites := cfg.Sprites
	if sprites == nil {
		sprites = sprite.NewIndex()
	}
	sigIndex := cfg.Signatures
	if sigIndex == nil {
		sigIndex = signature.NewIndex()
	}
	aliases := cfg.Aliases
	if aliases == nil {
		aliases = NewAliasTable()
	}

	opts := []signature.Option{signature.WithLabelNormalizer(aliases.Normalize)}
	if cfg.Translator != nil {
		opts = append(opts, signature.WithTranslator(cfg.Translator))
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Resolver{
		sprites:  sprites,
		detector: signature.NewDetector(sigIndex, opts...),
		aliases:  aliases,
		workers:  workers,
	}
}

// Resolve runs the cascade over one placement, writing the resolved
// archetype, detection method, confidence, and the sprites that informed
// the decision back onto it. The resolved archetype is never empty.
//
// Priority is strict: sprite-derived methods are tried first whenever
// sprite URLs exist, so a placement with recognizable sprites can never
// be mislabeled by the text fallback.
func (r *Resolver) Resolve(p *models.Placement) {
	if p == nil {
		return
	}
	p.RawArchetypeSprites = p.SpriteURLs

	if len(p.SpriteURLs) > 0 {
		if m, ok := r.sprites.Lookup(p.SpriteURLs); ok {
			r.finish(p, m.Archetype, MethodSpriteLookup, m.Confidence)
			return
		}
		if derived, ok := r.sprites.DeriveName(p.SpriteURLs); ok {
			r.finish(p, derived, MethodAutoDerive, confidenceAutoDerive)
			return
		}
	}

	if len(p.Decklist) > 0 {
		if detected := r.detector.Detect(deckEntries(p.Decklist)); detected != signature.Rogue {
			r.finish(p, detected, MethodSignatureCard, confidenceSignature)
			return
		}
	}

	normalized := r.aliases.Normalize(p.RawArchetype)
	confidence := confidenceRawLabel
	switch {
	case normalized == Unknown:
		confidence = confidenceUnknownLabel
	case r.aliases.Known(p.RawArchetype):
		confidence = confidenceKnownLabel
	}
	r.finish(p, normalized, MethodTextLabel, confidence)
}

// finish writes the terminal state, coercing blank names to Unknown so
// the empty-archetype invariant holds no matter what an index contained.
func (r *Resolver) finish(p *models.Placement, name string, method DetectionMethod, confidence float64) {
	if strings.TrimSpace(name) == "" {
		name = Unknown
	}
	p.Archetype = name
	p.DetectionMethod = method.String()
	p.Confidence = confidence
}

// ResolveAll resolves a batch of placements concurrently. Each placement
// is touched by exactly one worker and the shared indices are read-only,
// so no locking is needed. Returns the context error if cancelled.
func (r *Resolver) ResolveAll(ctx context.Context, placements []*models.Placement) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, p := range placements {
		p := p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.Resolve(p)
			return nil
		})
	}
	return g.Wait()
}

func deckEntries(deck []models.DecklistCard) []signature.Entry {
	entries := make([]signature.Entry, 0, len(deck))
	for _, card := range deck {
		entries = append(entries, signature.Entry{
			CardID:   card.CardID,
			Name:     card.Name,
			Quantity: card.Quantity,
		})
	}
	return entries
}
