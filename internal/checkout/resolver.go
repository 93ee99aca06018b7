package checkout

import (
	"context"
	"time"

	"github.com/dean3213321/inventory-pos/internal/backend"
	"github.com/dean3213321/inventory-pos/internal/domain"
)

// BuyerLookup resolves a scanned tag against the backend.
type BuyerLookup interface {
	LookupBuyerTag(ctx context.Context, tag string) (domain.Buyer, error)
}

// BuyerLister serves the existing-buyers list, usually through the cache.
type BuyerLister interface {
	Buyers(ctx context.Context) ([]backend.BuyerRecord, error)
}

// Resolver turns one of the three buyer inputs (tag, manual names, existing
// record) into a resolved Buyer for the session.
type Resolver struct {
	lookup  BuyerLookup
	lister  BuyerLister
	timeout time.Duration
}

func NewResolver(lookup BuyerLookup, lister BuyerLister, timeout time.Duration) *Resolver {
	return &Resolver{
		lookup:  lookup,
		lister:  lister,
		timeout: timeout,
	}
}

// ResolveByTag looks the tag up on the backend. An unknown tag surfaces
// backend.ErrBuyerNotFound and the session stays in buyer selection.
func (r *Resolver) ResolveByTag(ctx context.Context, tag string) (domain.Buyer, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	buyer, err := r.lookup.LookupBuyerTag(lookupCtx, tag)
	if err != nil {
		return domain.Buyer{}, err
	}
	return buyer, nil
}

// ResolveManual accepts typed names with no existence check. Position is
// unknown, so manual buyers always pay standard pricing.
func (r *Resolver) ResolveManual(firstName, lastName string) domain.Buyer {
	return domain.Buyer{FirstName: firstName, LastName: lastName}
}

// ResolveExisting converts a dropdown record directly, no network call.
func (r *Resolver) ResolveExisting(record backend.BuyerRecord) domain.Buyer {
	return domain.Buyer{FirstName: record.FirstName, LastName: record.LastName}
}

// ExistingBuyers lazily fetches the dropdown list; it is only called when
// that resolution path is chosen.
func (r *Resolver) ExistingBuyers(ctx context.Context) ([]backend.BuyerRecord, error) {
	listCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.lister.Buyers(listCtx)
}
