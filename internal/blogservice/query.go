package blogservice

import (
	"encoding/json"

	"github.com/sushihentaime/blogdeck/internal/store"
)

// BuildQuery translates f into store predicates ordered newest first. The
// only error is store.ErrInvalidQuery when the store cannot serve the
// resulting combination.
func BuildQuery(f Filters) (store.Query, error) {
	var q store.Query

	if f.Published != nil {
		q = q.Where(store.FieldPublished, *f.Published)
	}

	if f.AuthorID != "" {
		q = q.Where(store.FieldAuthorID, f.AuthorID)
	}

	if len(f.Tags) > 0 {
		q = q.WhereAny(store.FieldTags, f.Tags)
	}

	q.OrderBy = []store.Order{{Field: store.FieldCreatedAt, Direction: store.Desc}}

	if err := q.Validate(); err != nil {
		return store.Query{}, err
	}

	return q, nil
}

// cursorKey identifies a listing for the cursor cache.
func cursorKey(f Filters, pageSize int) (string, error) {
	key, err := json.Marshal(struct {
		Filters  Filters `json:"filters"`
		PageSize int     `json:"page_size"`
	}{f, pageSize})
	if err != nil {
		return "", err
	}

	return string(key), nil
}
