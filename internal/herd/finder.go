package herd

import (
	"context"
	"strings"

	"penside/internal/repository"
	"penside/models"
)

// Finder resolves the candidate animal set the caller displays, either from
// an EID fragment or from the lot/pen hierarchy. Filter state belongs to the
// caller (session, request), never to this package.
type Finder struct {
	repo repository.Repository
}

// NewFinder builds a Finder on top of the record repository.
func NewFinder(repo repository.Repository) *Finder {
	return &Finder{repo: repo}
}

// SearchByEID returns every animal whose EID contains the fragment,
// case-insensitively, in deterministic order. The legacy client returned an
// arbitrary single match; callers wanting that behavior take the first
// element. Zero matches is repository.ErrNotFound.
func (f *Finder) SearchByEID(ctx context.Context, fragment string) ([]models.Animal, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, &ValidationError{Fields: []string{"eid"}}
	}

	animals, err := f.repo.SearchAnimalsByEID(ctx, fragment)
	if err != nil {
		return nil, err
	}
	if len(animals) == 0 {
		return nil, repository.ErrNotFound
	}
	return animals, nil
}

// FindByLocation filters animals by pen when penID is set, else by lot, else
// returns the empty set. "No filter selected" is deliberately empty rather
// than the whole table.
func (f *Finder) FindByLocation(ctx context.Context, lotID, penID uint) ([]models.Animal, error) {
	switch {
	case penID != 0:
		return f.repo.ListAnimalsByPen(ctx, penID)
	case lotID != 0:
		return f.repo.ListAnimalsByLot(ctx, lotID)
	}
	return []models.Animal{}, nil
}

// ListPensForLot returns the pens of one lot; a zero lot id yields the empty
// set, never every pen.
func (f *Finder) ListPensForLot(ctx context.Context, lotID uint) ([]models.Pen, error) {
	if lotID == 0 {
		return []models.Pen{}, nil
	}
	return f.repo.ListPensByLot(ctx, lotID)
}
