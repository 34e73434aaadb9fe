package sniff

import (
	"errors"
	"fmt"
	"sort"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrosniff/internal/blob"
)

// ErrNoSniffers is returned when selecting from an empty registry.
var ErrNoSniffers = errors.New("no sniffers registered")

// Registry is an ordered list of sniffers. The registration order breaks ties
// between equal scores.
type Registry struct {
	logger   *log.Logger
	weights  Weights
	sniffers []Sniffer
	names    map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *log.Logger, weights Weights) *Registry {
	return &Registry{
		logger:  logger,
		weights: weights,
		names:   make(map[string]struct{}),
	}
}

// Register adds a sniffer. Format names have to be unique.
func (r *Registry) Register(s Sniffer) error {
	name := s.Name()
	if _, ok := r.names[name]; ok {
		return fmt.Errorf("format '%s' registered twice", name)
	}
	r.names[name] = struct{}{}
	r.sniffers = append(r.sniffers, s)
	return nil
}

// Sniffers returns the registered sniffers in registration order.
func (r *Registry) Sniffers() []Sniffer {
	return r.sniffers
}

// Len returns the number of registered sniffers.
func (r *Registry) Len() int {
	return len(r.sniffers)
}

// Select returns a new registry containing the sniffers that the filter accepts.
func (r *Registry) Select(accept func(s Sniffer) bool) *Registry {
	selected := NewRegistry(r.logger, r.weights)
	for _, s := range r.sniffers {
		if accept(s) {
			selected.sniffers = append(selected.sniffers, s)
			selected.names[s.Name()] = struct{}{}
		}
	}
	return selected
}

// Rank runs all sniffers and returns the results sorted by descending score.
// A sniffer that panics results in a zero score and does not stop the others.
func (r *Registry) Rank(b *blob.Blob) []Result {
	results := make([]Result, 0, len(r.sniffers))
	for _, s := range r.sniffers {
		result := r.sniff(s, b)
		r.logger.Debug("Sniffed format",
			log.String("format", result.Format),
			log.String("score", fmt.Sprintf("%g", result.Stench.Score)))
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Stench.Score > results[j].Stench.Score
	})
	return results
}

func (r *Registry) sniff(s Sniffer, b *blob.Blob) (result Result) {
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("Sniffer failed",
				log.String("format", s.Name()),
				log.String("panic", fmt.Sprint(err)))
			result = Result{
				Format: s.Name(),
				Stench: Stench{
					Messages: []string{fmt.Sprintf("sniffer failed: %v", err)},
				},
			}
		}
	}()
	return s.Sniff(b)
}

// Selection is the best matching format and the full ranking.
type Selection struct {
	Best    Result
	Ranking []Result
}

// Ambiguous returns whether the runner-up scored close to the best result.
// Candidates that all scored zero tie as well.
func (s Selection) Ambiguous(closeRatio float64) bool {
	if len(s.Ranking) < 2 {
		return false
	}
	return s.Ranking[1].Stench.Score >= s.Best.Stench.Score*closeRatio
}

// Best ranks the blob and returns the highest scoring result. Close runner-ups
// are reported as diagnostics of the best result and never resolved silently.
func (r *Registry) Best(b *blob.Blob) (Selection, error) {
	if len(r.sniffers) == 0 {
		return Selection{}, ErrNoSniffers
	}

	ranking := r.Rank(b)
	selection := Selection{
		Best:    ranking[0],
		Ranking: ranking,
	}
	if !selection.Ambiguous(r.weights.CloseRatio) {
		return selection, nil
	}

	best := &selection.Best
	best.Stench.Messages = append([]string(nil), best.Stench.Messages...)
	for _, other := range ranking[1:] {
		if other.Stench.Score < best.Stench.Score*r.weights.CloseRatio {
			break
		}
		if other.Stench.Score == best.Stench.Score {
			best.Stench.Note("ambiguous: tie with %s, selected by registration order", other.Format)
		} else {
			best.Stench.Note("ambiguous: %s scored %g", other.Format, other.Stench.Score)
		}
	}
	selection.Ranking[0] = selection.Best
	return selection, nil
}
