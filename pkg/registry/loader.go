package registry

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/opflow/opflow-cli/pkg/catalog"
	"github.com/opflow/opflow-cli/pkg/models"
)

// LoadCatalog fetches the operator list and the category tree
// concurrently and builds the picker index from them. If either fetch
// fails the index is not built; the caller decides how to surface that
// (the picker simply renders empty). Malformed settings blobs do not fail
// the load - the affected operators degrade to configuration-less and
// their decode errors come back in warnings.
func LoadCatalog(ctx context.Context, svc Service, pageSize int) (*catalog.Index, []error, error) {
	if pageSize <= 0 {
		pageSize = 1000
	}

	var (
		defs   []models.OperatorDefinition
		groups []models.CategoryGroup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		defs, err = svc.Operators(gctx, 0, pageSize)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = svc.CategoryTree(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	ops, warnings := catalog.NormalizeAll(defs)
	return catalog.BuildIndex(groups, ops), warnings, nil
}
