package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/ropeworks/internal/database"
)

// =============================================================================
// Work categories
// =============================================================================

func toWorkCategory(c database.WorkCategory) WorkCategory {
	return WorkCategory{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Time,
		UpdatedAt: c.UpdatedAt.Time,
	}
}

// ListWorkCategories returns every category matching search, by name.
func (s *Service) ListWorkCategories(ctx context.Context, search string) ([]WorkCategory, error) {
	rows, err := s.queries.ListWorkCategories(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("list work categories: %w", err)
	}
	out := make([]WorkCategory, len(rows))
	for i, r := range rows {
		out[i] = toWorkCategory(r)
	}
	return out, nil
}

// GetWorkCategory returns one category.
func (s *Service) GetWorkCategory(ctx context.Context, id int64) (WorkCategory, error) {
	c, err := s.queries.GetWorkCategory(ctx, id)
	if err != nil {
		return WorkCategory{}, dbError(err, fmt.Sprintf("work category %d", id))
	}
	return toWorkCategory(c), nil
}

// CreateWorkCategory adds a category. Names are unique.
func (s *Service) CreateWorkCategory(ctx context.Context, in WorkCategoryInput) (WorkCategory, error) {
	if err := in.Validate(); err != nil {
		return WorkCategory{}, err
	}
	c, err := s.queries.CreateWorkCategory(ctx, strings.TrimSpace(in.Name))
	if err != nil {
		return WorkCategory{}, dbError(err, "work category")
	}
	return toWorkCategory(c), nil
}

// UpdateWorkCategory renames a category.
func (s *Service) UpdateWorkCategory(ctx context.Context, id int64, in WorkCategoryInput) (WorkCategory, error) {
	if err := in.Validate(); err != nil {
		return WorkCategory{}, err
	}
	c, err := s.queries.UpdateWorkCategory(ctx, id, strings.TrimSpace(in.Name))
	if err != nil {
		return WorkCategory{}, dbError(err, fmt.Sprintf("work category %d", id))
	}
	return toWorkCategory(c), nil
}

// =============================================================================
// Work types
// =============================================================================

func toWorkType(t database.WorkType) WorkType {
	return WorkType{
		ID:                t.ID,
		WorkCategoryID:    t.WorkCategoryID,
		Name:              t.Name,
		PriceStandard:     PgNumericToDecimal(t.PriceStandard).Decimal,
		PriceGamesa:       PgNumericToDecimal(t.PriceGamesa),
		PriceGamesaAbroad: PgNumericToDecimal(t.PriceGamesaAbroad),
		MaxHours:          int(t.MaxHours),
		CreatedAt:         t.CreatedAt.Time,
		UpdatedAt:         t.UpdatedAt.Time,
	}
}

// ListWorkTypes returns work types, optionally within one category.
func (s *Service) ListWorkTypes(ctx context.Context, categoryID int64, search string) ([]WorkType, error) {
	rows, err := s.queries.ListWorkTypes(ctx, categoryID, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("list work types: %w", err)
	}
	out := make([]WorkType, len(rows))
	for i, r := range rows {
		out[i] = toWorkType(r)
	}
	return out, nil
}

// GetWorkType returns one work type.
func (s *Service) GetWorkType(ctx context.Context, id int64) (WorkType, error) {
	t, err := s.queries.GetWorkType(ctx, id)
	if err != nil {
		return WorkType{}, dbError(err, fmt.Sprintf("work type %d", id))
	}
	return toWorkType(t), nil
}

// CreateWorkType adds a work type to a category.
func (s *Service) CreateWorkType(ctx context.Context, in WorkTypeInput) (WorkType, error) {
	if err := in.Validate(); err != nil {
		return WorkType{}, err
	}
	t, err := s.queries.CreateWorkType(ctx, database.CreateWorkTypeParams{
		WorkCategoryID:    in.WorkCategoryID,
		Name:              strings.TrimSpace(in.Name),
		PriceStandard:     NullDecimalToPgNumeric(in.PriceStandard),
		PriceGamesa:       NullDecimalToPgNumeric(in.PriceGamesa),
		PriceGamesaAbroad: NullDecimalToPgNumeric(in.PriceGamesaAbroad),
		MaxHours:          int32(*in.MaxHours),
	})
	if err != nil {
		return WorkType{}, dbError(err, "work type")
	}
	return toWorkType(t), nil
}

// UpdateWorkType replaces a work type's fields.
func (s *Service) UpdateWorkType(ctx context.Context, id int64, in WorkTypeInput) (WorkType, error) {
	if err := in.Validate(); err != nil {
		return WorkType{}, err
	}
	t, err := s.queries.UpdateWorkType(ctx, database.UpdateWorkTypeParams{
		ID:                id,
		WorkCategoryID:    in.WorkCategoryID,
		Name:              strings.TrimSpace(in.Name),
		PriceStandard:     NullDecimalToPgNumeric(in.PriceStandard),
		PriceGamesa:       NullDecimalToPgNumeric(in.PriceGamesa),
		PriceGamesaAbroad: NullDecimalToPgNumeric(in.PriceGamesaAbroad),
		MaxHours:          int32(*in.MaxHours),
	})
	if err != nil {
		return WorkType{}, dbError(err, fmt.Sprintf("work type %d", id))
	}
	return toWorkType(t), nil
}
