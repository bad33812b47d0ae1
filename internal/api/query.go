package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/asmamir/task-manager-api/internal/domain"
	"github.com/asmamir/task-manager-api/internal/store"
)

// parseOptionalBool interprets a boolean query parameter. An unset or
// empty value means "no filter"; the literal "true" means true; any
// other non-empty value means false.
func parseOptionalBool(raw string) *bool {
	if raw == "" {
		return nil
	}
	b := raw == "true"
	return &b
}

// parseNonNegativeInt parses a pagination parameter. An unset or empty
// value yields the zero default; anything that is not a non-negative
// integer is a validation error.
func parseNonNegativeInt(name, raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError(name, "must be a non-negative integer", domain.ErrValidation)
	}
	return n, nil
}

// parseSortSpec interprets a "field:direction" sort parameter. The
// direction is ascending only for the literal "asc"; anything else,
// including a missing direction, sorts descending. An unknown field is
// a validation error.
func parseSortSpec(raw string) (store.TaskSortField, bool, error) {
	if raw == "" {
		return "", false, nil
	}

	field, direction, _ := strings.Cut(raw, ":")
	sortBy := store.TaskSortField(field)
	if !sortBy.Valid() {
		return "", false, domain.NewValidationError("sortBy", "is not a sortable field", domain.ErrValidation)
	}

	return sortBy, direction != "asc", nil
}

// parseTaskListQuery assembles the store listing options from the
// request query parameters: completed, limit, skip, and sortBy.
func parseTaskListQuery(q url.Values) (store.TaskListOptions, error) {
	var opts store.TaskListOptions

	opts.Completed = parseOptionalBool(q.Get("completed"))

	limit, err := parseNonNegativeInt("limit", q.Get("limit"))
	if err != nil {
		return store.TaskListOptions{}, err
	}
	opts.Limit = limit

	skip, err := parseNonNegativeInt("skip", q.Get("skip"))
	if err != nil {
		return store.TaskListOptions{}, err
	}
	opts.Skip = skip

	sortBy, descending, err := parseSortSpec(q.Get("sortBy"))
	if err != nil {
		return store.TaskListOptions{}, err
	}
	opts.SortBy = sortBy
	opts.Descending = descending

	return opts, nil
}
