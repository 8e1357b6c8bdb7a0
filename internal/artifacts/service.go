package artifacts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/profitscout/scout-api/pkg/logger"
)

// ErrNotFound indicates no artifact satisfies the requested dataset/id/as_of
var ErrNotFound = errors.New("artifact not found")

// signalsDataset is the synthetic dataset entry served by the warehouse
// rather than object storage.
const signalsDataset = "options-signals"

// fallbackDatasets is served when storage prefix enumeration yields nothing
var fallbackDatasets = []string{"recommendations", "key-levels", "technicals", signalsDataset}

// Service resolves research artifacts from object storage
type Service struct {
	store Store
	log   *logger.Logger
}

// NewService creates a new artifact service
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// Resolve locates the best-matching artifact and builds its response envelope.
// Returns ErrNotFound when no candidate survives selection.
func (s *Service) Resolve(ctx context.Context, dataset, id, asOf string) (*Envelope, error) {
	candidates, err := listCandidates(ctx, s.store, dataset, id)
	if err != nil {
		return nil, fmt.Errorf("locate candidates for %s/%s: %w", dataset, id, err)
	}

	resolved, ok := SelectBest(candidates, dataset, asOf)
	if !ok {
		return nil, ErrNotFound
	}

	s.log.WithFields(map[string]interface{}{
		"dataset": dataset,
		"object":  resolved.Name,
		"as_of":   asOf,
	}).Debug("Resolved artifact")

	content, err := s.store.Read(ctx, resolved.Name)
	if err != nil {
		return nil, fmt.Errorf("read object %q: %w", resolved.Name, err)
	}

	env := BuildEnvelope(dataset, strings.ToUpper(id), resolved, content, s.store.PublicURL(resolved.Name))
	return &env, nil
}

// Datasets enumerates the dataset namespace. The manifests prefix is internal
// and excluded; the synthetic options-signals entry is always present.
// fallback reports that the hardcoded default list was served because storage
// enumeration yielded nothing.
func (s *Service) Datasets(ctx context.Context) (datasets []string, fallback bool, err error) {
	prefixes, err := s.store.Prefixes(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("enumerate dataset prefixes: %w", err)
	}

	if len(prefixes) == 0 {
		return fallbackDatasets, true, nil
	}

	for _, p := range prefixes {
		if p == "manifests" {
			continue
		}
		datasets = append(datasets, p)
	}
	datasets = append(datasets, signalsDataset)
	sort.Strings(datasets)

	return datasets, false, nil
}
