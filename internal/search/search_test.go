package search

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

// ---------- 参数收敛 ----------

// TestParseParams_PageFloor page 小于 1 或非数字都回落到 1
func TestParseParams_PageFloor(t *testing.T) {
	testCases := []string{"", "0", "-3", "abc", "1.5"}

	for _, page := range testCases {
		p := parseParams(Products, Params{Page: page})
		if p.page != 1 {
			t.Errorf("parseParams(page=%q) page = %d, want 1", page, p.page)
		}
	}
}

// TestParseParams_PageSizeClamp pageSize 夹在 [1,100]，非数字用默认 20
func TestParseParams_PageSizeClamp(t *testing.T) {
	testCases := []struct {
		in   string
		want int
	}{
		{"", 20},
		{"abc", 20},
		{"0", 1},
		{"-5", 1},
		{"1", 1},
		{"50", 50},
		{"100", 100},
		{"101", 100},
		{"100000", 100},
	}

	for _, tc := range testCases {
		p := parseParams(Products, Params{PageSize: tc.in})
		if p.pageSize != tc.want {
			t.Errorf("parseParams(pageSize=%q) pageSize = %d, want %d", tc.in, p.pageSize, tc.want)
		}
	}
}

// TestParseParams_Sort 排序解析：缺省/没见过的字段回落到 createdAt，
// 方向只有 asc 是升序，其他一律降序
func TestParseParams_Sort(t *testing.T) {
	testCases := []struct {
		in       string
		wantKey  string
		wantDir  int
	}{
		{"", "createdAt", -1},
		{"price:asc", "price", 1},
		{"price:desc", "price", -1},
		{"price:whatever", "price", -1},
		{"price", "price", -1},
		{"nosuchfield:asc", "createdAt", 1},
		{":asc", "createdAt", 1},
		{"createdAt:asc", "createdAt", 1},
	}

	for _, tc := range testCases {
		p := parseParams(Products, Params{Sort: tc.in})
		if p.sortKey != tc.wantKey || p.sortDir != tc.wantDir {
			t.Errorf("parseParams(sort=%q) = (%s, %d), want (%s, %d)",
				tc.in, p.sortKey, p.sortDir, tc.wantKey, tc.wantDir)
		}
	}
}

// TestParseParams_QueryTrim 查询串两端空白要去掉
func TestParseParams_QueryTrim(t *testing.T) {
	p := parseParams(Products, Params{Query: "  grilled chicken \t"})
	if p.query != "grilled chicken" {
		t.Errorf("query = %q, want %q", p.query, "grilled chicken")
	}

	p = parseParams(Products, Params{Query: "   \t  "})
	if p.query != "" {
		t.Errorf("whitespace-only query = %q, want empty", p.query)
	}
}

// ---------- 正则构造 ----------

// TestContainsPattern_Escape 查询里的正则元字符必须按字面量处理
func TestContainsPattern_Escape(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"a.*b", `a\.\*b`},
		{"foo bar", `foo.*bar`},
		{"(x)|[y]", `\(x\)\|\[y\]`},
		{"a+b?", `a\+b\?`},
	}

	for _, tc := range testCases {
		got := containsPattern(tc.in)
		if got != tc.want {
			t.Errorf("containsPattern(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestAllTermsPattern 全词匹配的 lookahead 结构
func TestAllTermsPattern(t *testing.T) {
	got := allTermsPattern("grilled chicken")
	want := "^(?=.*grilled)(?=.*chicken).*$"
	if got != want {
		t.Errorf("allTermsPattern(%q) = %q, want %q", "grilled chicken", got, want)
	}
}

// TestAllTermsPattern_OrderIndependent 词序不同时生成的
// lookahead 集合一致，匹配语义与顺序无关
func TestAllTermsPattern_OrderIndependent(t *testing.T) {
	a := allTermsPattern("grilled chicken")
	b := allTermsPattern("chicken grilled")

	for _, term := range []string{"(?=.*grilled)", "(?=.*chicken)"} {
		if !strings.Contains(a, term) {
			t.Errorf("pattern %q missing %q", a, term)
		}
		if !strings.Contains(b, term) {
			t.Errorf("pattern %q missing %q", b, term)
		}
	}
}

// TestAllTermsPattern_Escape 每个词项单独转义
func TestAllTermsPattern_Escape(t *testing.T) {
	got := allTermsPattern("a.b c*d")
	want := `^(?=.*a\.b)(?=.*c\*d).*$`
	if got != want {
		t.Errorf("allTermsPattern = %q, want %q", got, want)
	}
}

// TestPhonePattern 电话匹配只看数字，数字之间允许任意分隔符
func TestPhonePattern(t *testing.T) {
	got := phonePattern("123 45-67")
	want := `1\D*2\D*3\D*4\D*5\D*6\D*7`
	if got != want {
		t.Errorf("phonePattern(%q) = %q, want %q", "123 45-67", got, want)
	}
}

// TestPhonePattern_NoDigits 查询没有数字时电话字段不参与匹配
func TestPhonePattern_NoDigits(t *testing.T) {
	if got := phonePattern("john doe"); got != "" {
		t.Errorf("phonePattern(%q) = %q, want empty", "john doe", got)
	}
}

// ---------- 过滤器 ----------

// TestBuildFilter_EmptyQuery 空查询匹配全部文档
func TestBuildFilter_EmptyQuery(t *testing.T) {
	filter := buildFilter(Users, "")
	if len(filter) != 0 {
		t.Errorf("buildFilter(empty) = %v, want empty filter", filter)
	}
}

// orClauses 取出过滤器里的 $or 子句
func orClauses(t *testing.T, filter bson.M) []bson.M {
	t.Helper()
	or, ok := filter["$or"].([]bson.M)
	if !ok {
		t.Fatalf("filter %v has no $or clause", filter)
	}
	return or
}

// TestBuildFilter_UserFieldCount 带数字的查询命中全部 5 个字段，
// 不带数字时只剩 4 个
func TestBuildFilter_UserFieldCount(t *testing.T) {
	withDigits := buildFilter(Users, "john 123")
	or := orClauses(t, withDigits)
	if len(or) != 5 {
		t.Errorf("buildFilter(with digits) has %d clauses, want 5", len(or))
	}

	noDigits := buildFilter(Users, "john")
	or = orClauses(t, noDigits)
	if len(or) != 4 {
		t.Errorf("buildFilter(no digits) has %d clauses, want 4", len(or))
	}
}

// ---------- 页数 ----------

// TestPageCount pages = ceil(total/pageSize)，没有数据时为 0
func TestPageCount(t *testing.T) {
	testCases := []struct {
		total    int64
		pageSize int
		want     int64
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 100, 1},
		{101, 100, 2},
	}

	for _, tc := range testCases {
		got := pageCount(tc.total, tc.pageSize)
		if got != tc.want {
			t.Errorf("pageCount(%d, %d) = %d, want %d", tc.total, tc.pageSize, got, tc.want)
		}
	}
}
