package artifacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/profitscout/scout-api/pkg/storage"
)

// datasetAliases maps a legacy dataset name to the physical datasets searched
// in its place. key-levels artifacts live under the technicals namespaces.
var datasetAliases = map[string][]string{
	"key-levels": {"technicals-analysis", "technicals"},
}

// Store is the object-storage surface consumed by artifact resolution
type Store interface {
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Prefixes(ctx context.Context) ([]string, error)
	PublicURL(name string) string
}

// listCandidates lists all objects that could satisfy a dataset/identifier
// request. The identifier is normalized to uppercase before prefix search.
// An empty result means no matching objects exist; it is not an error.
func listCandidates(ctx context.Context, store Store, dataset, id string) ([]storage.Object, error) {
	datasetsToTry := []string{dataset}
	if aliased, ok := datasetAliases[dataset]; ok {
		datasetsToTry = aliased
	}

	idUpper := strings.ToUpper(id)

	var candidates []storage.Object
	for _, ds := range datasetsToTry {
		prefix := fmt.Sprintf("%s/%s", ds, idUpper)
		objects, err := store.List(ctx, prefix)
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", prefix, err)
		}
		candidates = append(candidates, objects...)
	}

	return candidates, nil
}
