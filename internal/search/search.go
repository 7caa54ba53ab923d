// Package search 实现三个资源共用的模糊搜索/分页/排序引擎。
// 每个资源只提供一张字段配置表，不再按资源复制过滤逻辑。
package search

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MatchKind 单个字段的匹配策略
type MatchKind int

const (
	// MatchAllTerms 查询按空白拆词，要求所有词都出现在字段里，顺序无关
	MatchAllTerms MatchKind = iota
	// MatchContains 整串子串匹配，词间空白折叠为任意内容
	MatchContains
	// MatchPhone 只看数字：去掉查询里的非数字，数字序列允许任意分隔符
	MatchPhone
)

// Field 参与匹配的字段及其策略
type Field struct {
	Name string
	Kind MatchKind
}

// Spec 一个资源的搜索配置表
type Spec struct {
	Fields      []Field
	DefaultSort string
	SortFields  []string // 允许排序的字段，不认识的回落到 DefaultSort
}

// 各资源的配置表
var (
	Users = Spec{
		Fields: []Field{
			{Name: "email", Kind: MatchContains},
			{Name: "firstName", Kind: MatchAllTerms},
			{Name: "lastName", Kind: MatchAllTerms},
			{Name: "address", Kind: MatchAllTerms},
			{Name: "phone", Kind: MatchPhone},
		},
		DefaultSort: "createdAt",
		SortFields:  []string{"createdAt", "updatedAt", "email", "firstName", "lastName"},
	}

	Categories = Spec{
		Fields: []Field{
			{Name: "name", Kind: MatchAllTerms},
			{Name: "description", Kind: MatchAllTerms},
		},
		DefaultSort: "createdAt",
		SortFields:  []string{"createdAt", "updatedAt", "name"},
	}

	Products = Spec{
		Fields: []Field{
			{Name: "name", Kind: MatchAllTerms},
			{Name: "description", Kind: MatchAllTerms},
		},
		DefaultSort: "createdAt",
		SortFields:  []string{"createdAt", "updatedAt", "name", "price", "stock"},
	}
)

// Params 来自查询串的原始参数，不合法的值回落到默认值而不是报错
type Params struct {
	Query    string
	Page     string
	PageSize string
	Sort     string
}

// Result 分页结果信封，只作为查询结果返回，从不落库
type Result struct {
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	Total    int64       `json:"total"`
	Pages    int64       `json:"pages"`
	Items    interface{} `json:"items"`
}

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

type parsedParams struct {
	query    string
	page     int
	pageSize int
	sortKey  string
	sortDir  int // 1 asc / -1 desc
}

// parseParams 解析并收敛分页/排序参数：
// page 至少为 1，pageSize 夹在 [1,100]，非数字一律用默认值。
func parseParams(spec Spec, p Params) parsedParams {
	out := parsedParams{
		query:    strings.TrimSpace(p.Query),
		page:     defaultPage,
		pageSize: defaultPageSize,
		sortKey:  spec.DefaultSort,
		sortDir:  -1,
	}

	if n, err := strconv.Atoi(strings.TrimSpace(p.Page)); err == nil && n > 1 {
		out.page = n
	}

	if n, err := strconv.Atoi(strings.TrimSpace(p.PageSize)); err == nil {
		switch {
		case n < 1:
			out.pageSize = 1
		case n > maxPageSize:
			out.pageSize = maxPageSize
		default:
			out.pageSize = n
		}
	}

	field, dir, _ := strings.Cut(p.Sort, ":")
	for _, f := range spec.SortFields {
		if f == field {
			out.sortKey = field
			break
		}
	}
	if dir == "asc" {
		out.sortDir = 1
	}

	return out
}

var wsRe = regexp.MustCompile(`\s+`)

// containsPattern 整串子串匹配："foo bar" => foo.*bar。
// 正则元字符先转义，查询内容永远按字面量处理。
func containsPattern(q string) string {
	return wsRe.ReplaceAllString(regexp.QuoteMeta(q), ".*")
}

// allTermsPattern 全词匹配："grilled chicken" => ^(?=.*grilled)(?=.*chicken).*$。
// lookahead 由 MongoDB 的 PCRE 引擎执行，词序无关。
func allTermsPattern(q string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, term := range strings.Fields(q) {
		b.WriteString("(?=.*")
		b.WriteString(regexp.QuoteMeta(term))
		b.WriteString(")")
	}
	b.WriteString(".*$")
	return b.String()
}

// phonePattern 电话模糊匹配："123 45-67" => 1\D*2\D*3\D*4\D*5\D*6\D*7。
// 查询里没有数字时返回空串，表示该字段不参与匹配。
func phonePattern(q string) string {
	var digits []string
	for _, r := range q {
		if r >= '0' && r <= '9' {
			digits = append(digits, string(r))
		}
	}
	if len(digits) == 0 {
		return ""
	}
	return strings.Join(digits, `\D*`)
}

// buildFilter 把查询串转成各字段谓词的 $or。
// 空查询返回空过滤器，匹配全部文档。
func buildFilter(spec Spec, query string) bson.M {
	if query == "" {
		return bson.M{}
	}

	or := make([]bson.M, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		var pattern string
		switch f.Kind {
		case MatchContains:
			pattern = containsPattern(query)
		case MatchAllTerms:
			pattern = allTermsPattern(query)
		case MatchPhone:
			pattern = phonePattern(query)
		}
		if pattern == "" {
			continue
		}
		or = append(or, bson.M{f.Name: primitive.Regex{Pattern: pattern, Options: "i"}})
	}

	if len(or) == 0 {
		return bson.M{}
	}
	return bson.M{"$or": or}
}

// pageCount 总页数 = ceil(total/pageSize)，没有数据时为 0
func pageCount(total int64, pageSize int) int64 {
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

// Run 执行一次搜索：总数统计和分页查询并发进行，两者之间没有顺序依赖，
// 并发写入造成的轻微不一致是可接受的。
func Run[T any](ctx context.Context, coll *mongo.Collection, spec Spec, params Params) (*Result, error) {
	p := parseParams(spec, params)
	filter := buildFilter(spec, p.query)

	var (
		total    int64
		countErr error
		done     = make(chan struct{})
	)
	go func() {
		defer close(done)
		total, countErr = coll.CountDocuments(ctx, filter)
	}()

	opts := options.Find().
		SetSort(bson.D{{Key: p.sortKey, Value: p.sortDir}}).
		SetSkip(int64((p.page - 1) * p.pageSize)).
		SetLimit(int64(p.pageSize))

	// items 始终初始化为空切片，空结果序列化为 [] 而不是 null
	items := make([]T, 0, p.pageSize)
	cur, err := coll.Find(ctx, filter, opts)
	if err == nil {
		err = cur.All(ctx, &items)
	}

	<-done
	if err != nil {
		return nil, err
	}
	if countErr != nil {
		return nil, countErr
	}

	return &Result{
		Page:     p.page,
		PageSize: p.pageSize,
		Total:    total,
		Pages:    pageCount(total, p.pageSize),
		Items:    items,
	}, nil
}
