package service

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/yeisme/sharevault/pkg/cache"
	"github.com/yeisme/sharevault/pkg/internal/model"
	"github.com/yeisme/sharevault/pkg/tracing"
)

// Order 列表排序方式.
type Order int

const (
	// OrderNone 保持插入顺序（file_id 升序）.
	OrderNone Order = iota
	// OrderAscending 按文件名逐字节升序.
	OrderAscending
	// OrderDescending OrderAscending 的逆序.
	OrderDescending
)

func (o Order) String() string {
	switch o {
	case OrderAscending:
		return "asc"
	case OrderDescending:
		return "desc"
	default:
		return "none"
	}
}

// ListQuery 列表查询条件，Types 为空表示不过滤.
type ListQuery struct {
	Types []string
	Order Order
}

// normalize 对 Types 去重并排序，使相同集合得到相同的缓存键.
func (q ListQuery) normalize() ListQuery {
	if len(q.Types) == 0 {
		return ListQuery{Order: q.Order}
	}

	types := slices.Clone(q.Types)
	slices.Sort(types)

	return ListQuery{Types: slices.Compact(types), Order: q.Order}
}

func (q ListQuery) hash() string {
	h := xxhash.New()
	_, _ = h.WriteString(q.Order.String())

	for _, t := range q.Types {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(t)
	}

	return strconv.FormatUint(h.Sum64(), 16)
}

// ApplyQuery 按类型集合过滤并排序，不修改入参.结果永远不为 nil.
func ApplyQuery(recs []model.FileRecord, q ListQuery) []model.FileRecord {
	out := make([]model.FileRecord, 0, len(recs))

	var set map[string]struct{}
	if len(q.Types) > 0 {
		set = make(map[string]struct{}, len(q.Types))
		for _, t := range q.Types {
			set[t] = struct{}{}
		}
	}

	for _, r := range recs {
		if set != nil {
			if _, ok := set[r.Type]; !ok {
				continue
			}
		}

		out = append(out, r)
	}

	switch q.Order {
	case OrderAscending:
		slices.SortStableFunc(out, func(a, b model.FileRecord) int { return strings.Compare(a.Name, b.Name) })
	case OrderDescending:
		slices.SortStableFunc(out, func(a, b model.FileRecord) int { return strings.Compare(b.Name, a.Name) })
	case OrderNone:
		slices.SortStableFunc(out, func(a, b model.FileRecord) int { return cmpID(a.FileID, b.FileID) })
	}

	return out
}

func cmpID(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ListService 工作区文件列表.
type ListService struct {
	deps Deps
}

// NewListService 从 context 获取依赖实例.
func NewListService(c context.Context) *ListService {
	return NewListServiceWith(DepsFromContext(c))
}

// NewListServiceWith 使用显式依赖创建服务.
func NewListServiceWith(deps Deps) *ListService {
	return &ListService{deps: deps.normalize()}
}

// List 返回整个工作区中满足条件的文件，结果经过列表缓存.
func (s *ListService) List(ctx context.Context, q ListQuery) (recs []model.FileRecord, err error) {
	ctx, span := tracing.StartSpan(ctx, "ListService.List")
	defer func() { tracing.EndSpan(span, err) }()

	q = q.normalize()

	load := func(ctx context.Context) ([]model.FileRecord, error) {
		rows, err := s.deps.DB.Files().List(ctx, s.deps.Workspace, q.Types)
		if err != nil {
			return nil, err
		}

		return ApplyQuery(rows, q), nil
	}

	gen, err := s.deps.Cache.Generation(ctx, listScope(s.deps.Workspace))
	if err != nil || !s.deps.Cache.Enabled() {
		return load(ctx)
	}

	key := s.deps.Cache.Key("files", "list", s.deps.Workspace, gen, q.hash())

	recs, err = cache.GetOrSet(ctx, s.deps.Cache, key, s.deps.ListTTL, load)
	if err != nil {
		return nil, err
	}

	if recs == nil {
		recs = []model.FileRecord{}
	}

	return recs, nil
}

func listScope(workspace string) string {
	return "files:" + workspace
}
