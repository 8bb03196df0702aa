package view

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidView is wrapped by every validation error
var ErrInvalidView = errors.New("invalid view definition")

// Validate checks that a definition is complete and internally consistent.
// All problems are reported together.
func (def ViewDefinition) Validate() error {
	var errs []error

	if strings.TrimSpace(def.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if def.Mode != ModeUnion && def.Mode != ModeAggregate {
		errs = append(errs, fmt.Errorf("unknown mode %d", def.Mode))
	}
	if len(def.Sources) == 0 {
		errs = append(errs, errors.New("at least one source is required"))
	}

	// Rows, columns and relationships are keyed by list ID, so a list ID
	// may appear under only one site
	sites := make(map[string]string, len(def.Sources))
	for _, src := range def.Sources {
		if src.ListID == "" {
			errs = append(errs, errors.New("source list ID is required"))
			continue
		}
		if site, ok := sites[src.ListID]; ok {
			if site == src.SiteID {
				errs = append(errs, fmt.Errorf("duplicate source %s/%s", src.SiteID, src.ListID))
			} else {
				errs = append(errs, fmt.Errorf("list ID %q is used by sources on sites %q and %q", src.ListID, site, src.SiteID))
			}
			continue
		}
		sites[src.ListID] = src.SiteID
	}

	for _, col := range def.Columns {
		if col.InternalName == "" {
			errs = append(errs, errors.New("column internal name is required"))
			continue
		}
		if _, ok := sites[col.SourceListID]; !ok {
			errs = append(errs, fmt.Errorf("column %q references unknown source list %q", col.InternalName, col.SourceListID))
		}
		if col.Aggregation < AggNone || col.Aggregation > AggMax {
			errs = append(errs, fmt.Errorf("column %q has unknown aggregation %d", col.InternalName, col.Aggregation))
		}
	}

	if len(def.GroupBy) > 0 && def.Mode != ModeAggregate {
		errs = append(errs, errors.New("groupBy is only valid in aggregate mode"))
	}

	for _, f := range def.Filters {
		if f.Column == "" {
			errs = append(errs, errors.New("filter column is required"))
		}
		if f.Operator < OpEq || f.Operator > OpContains {
			errs = append(errs, fmt.Errorf("filter on %q has unknown operator %d", f.Column, f.Operator))
		}
	}

	if len(def.Sorting) > MaxSortRules {
		errs = append(errs, fmt.Errorf("at most %d sort rules are allowed, got %d", MaxSortRules, len(def.Sorting)))
	}
	for _, rule := range def.Sorting {
		if rule.Column == "" {
			errs = append(errs, errors.New("sort column is required"))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidView, errors.Join(errs...))
}
