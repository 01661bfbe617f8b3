package repository

import (
	"fmt"
	"strings"

	"coffeeblog/internal/models"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	defaultSort  = "-createdAt"
)

// sortColumns whitelists the single-key sort expressions the listing
// accepts; anything else falls back to the default ordering.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"price":     "price",
	"viewCount": "view_count",
}

// PostListFilter describes a post listing request. Category slug-or-id
// resolution happens before the filter is built: CategoryID carries the
// resolved identifier, and CategoryUnresolved marks a reference that
// matched nothing, which must exclude every post rather than being
// silently dropped.
type PostListFilter struct {
	Search             string
	CategoryID         string
	CategoryUnresolved bool
	Status             string
	Sort               string
	Page               int
	Limit              int
}

func (f *PostListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Sort == "" {
		f.Sort = defaultSort
	}
}

// Build translates the filter into a WHERE fragment over the posts table
// (aliased p), positional args, an ORDER BY expression and LIMIT/OFFSET
// values. It only describes the query; it never executes anything.
func (f PostListFilter) Build() (where string, args []interface{}, orderBy string, limit, offset int) {
	var conds []string

	if f.CategoryUnresolved {
		conds = append(conds, "FALSE")
	}

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)))
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(p.title ILIKE $%d OR p.content ILIKE $%d OR p.excerpt ILIKE $%d)", n, n, n))
	}

	if f.CategoryID != "" && !f.CategoryUnresolved {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.post_id AND pc.category_id = $%d)",
			len(args)))
	}

	where = "TRUE"
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	key, direction := f.Sort, "ASC"
	if strings.HasPrefix(key, "-") {
		key, direction = key[1:], "DESC"
	}
	column, ok := sortColumns[key]
	if !ok {
		column, direction = "created_at", "DESC"
	}
	orderBy = column + " " + direction

	return where, args, orderBy, f.Limit, (f.Page - 1) * f.Limit
}

// Paginate derives the pagination envelope for a total match count.
func (f PostListFilter) Paginate(total int) models.Pagination {
	pages := 0
	if total > 0 {
		pages = (total + f.Limit - 1) / f.Limit
	}
	return models.Pagination{
		Total: total,
		Page:  f.Page,
		Pages: pages,
		Limit: f.Limit,
	}
}
