// Package search filters the catalog snapshot and manages the search
// history.
package search

import (
	"context"
	"strings"

	"github.com/comisapo/liverapp-go/internal/domain"
	"github.com/comisapo/liverapp-go/internal/store"
	"github.com/comisapo/liverapp-go/internal/util"
	"go.uber.org/zap"
)

// FilterByQuery matches livers whose name, categories, gender, comments,
// schedule names or platform contain the query, case-insensitively. An empty
// query matches nothing.
func FilterByQuery(livers []domain.Liver, query string) []domain.Liver {
	q := util.Normalize(query)
	if q == "" {
		return nil
	}

	var matched []domain.Liver
	for i := range livers {
		if liverMatches(&livers[i], q) {
			matched = append(matched, livers[i])
		}
	}
	return matched
}

func liverMatches(liver *domain.Liver, q string) bool {
	if strings.Contains(strings.ToLower(liver.Name), q) {
		return true
	}
	for _, category := range liver.Categories() {
		if strings.Contains(strings.ToLower(category), q) {
			return true
		}
	}
	if gender := liver.ProfileGender(); gender != "" && strings.Contains(strings.ToLower(gender), q) {
		return true
	}
	if liver.Details != nil {
		for _, comment := range liver.Details.Comments {
			if strings.Contains(strings.ToLower(comment), q) {
				return true
			}
		}
		for _, schedule := range liver.Details.Schedules {
			if strings.Contains(strings.ToLower(schedule.Name), q) {
				return true
			}
		}
	}
	return strings.Contains(strings.ToLower(liver.Platform), q)
}

// FilterByGenre matches livers whose categories contain the genre exactly.
func FilterByGenre(livers []domain.Liver, genre string) []domain.Liver {
	var matched []domain.Liver
	for i := range livers {
		if util.Contains(livers[i].Categories(), genre) {
			matched = append(matched, livers[i])
		}
	}
	return matched
}

// History wraps the persistent search history with fault-degrading reads:
// the history only decorates the search screen, so store errors yield an
// empty list instead of surfacing.
type History struct {
	store  store.Store
	logger *zap.Logger
}

func NewHistory(st store.Store, logger *zap.Logger) *History {
	return &History{store: st, logger: logger}
}

func (h *History) Entries(ctx context.Context) []string {
	entries, err := h.store.SearchHistory(ctx)
	if err != nil {
		h.logger.Warn("Search history read failed", zap.Error(err))
		return nil
	}
	return entries
}

func (h *History) Record(ctx context.Context, term string) {
	if err := h.store.AddSearchTerm(ctx, term); err != nil {
		h.logger.Warn("Search history write failed", zap.String("term", term), zap.Error(err))
	}
}

func (h *History) Remove(ctx context.Context, term string) {
	if err := h.store.RemoveSearchTerm(ctx, term); err != nil {
		h.logger.Warn("Search history remove failed", zap.String("term", term), zap.Error(err))
	}
}

func (h *History) Clear(ctx context.Context) {
	if err := h.store.ClearSearchHistory(ctx); err != nil {
		h.logger.Warn("Search history clear failed", zap.Error(err))
	}
}
