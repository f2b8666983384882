// Package hierarchy walks the reseller tree upwards from a selling agency.
package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/ManuelReschke/TierPay/app/models"
	"github.com/ManuelReschke/TierPay/app/repository"
)

var (
	ErrCycle        = errors.New("agency hierarchy contains a cycle")
	ErrTierMismatch = errors.New("agency tier does not match its parent")
	ErrTooDeep      = errors.New("agency hierarchy deeper than the maximum tier")
)

// Walker resolves ancestor chains through the agency repository.
type Walker struct {
	agencies repository.AgencyRepository
	maxDepth int
}

// NewWalker creates a walker bounded by models.MaxTier levels.
func NewWalker(agencies repository.AgencyRepository) *Walker {
	return &Walker{agencies: agencies, maxDepth: models.MaxTier}
}

// Ancestors returns the chain above agency, immediate parent first and root last.
// The walk is bounded and rejects cycles and broken tier numbering.
func (w *Walker) Ancestors(ctx context.Context, agency *models.Agency) ([]models.Agency, error) {
	visited := map[uint]struct{}{agency.ID: {}}
	chain := make([]models.Agency, 0, models.MaxTier-1)

	child := *agency
	for child.ParentID != nil {
		if len(chain) >= w.maxDepth-1 {
			return nil, fmt.Errorf("agency %d: %w", agency.ID, ErrTooDeep)
		}
		parentID := *child.ParentID
		if _, seen := visited[parentID]; seen {
			return nil, fmt.Errorf("agency %d revisited: %w", parentID, ErrCycle)
		}
		visited[parentID] = struct{}{}

		parent, err := w.agencies.GetByID(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent agency %d: %w", parentID, err)
		}
		if child.Tier != parent.Tier+1 {
			return nil, fmt.Errorf("agency %d (tier %d) under agency %d (tier %d): %w",
				child.ID, child.Tier, parent.ID, parent.Tier, ErrTierMismatch)
		}
		chain = append(chain, *parent)
		child = *parent
	}

	if child.Tier != models.MinTier {
		return nil, fmt.Errorf("root agency %d has tier %d: %w", child.ID, child.Tier, ErrTierMismatch)
	}
	return chain, nil
}
