package pagination_test

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/taxon/pkg/pagination"
	"github.com/JaimeStill/taxon/pkg/query"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.DefaultPageSize != 20 {
		t.Errorf("DefaultPageSize = %d, want 20", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}
}

func TestConfigFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "50")
	t.Setenv("TEST_MAX_PAGE", "200")

	env := &pagination.ConfigEnv{
		DefaultPageSize: "TEST_PAGE_SIZE",
		MaxPageSize:     "TEST_MAX_PAGE",
	}

	cfg := pagination.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.DefaultPageSize != 50 {
		t.Errorf("DefaultPageSize = %d, want 50", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 200 {
		t.Errorf("MaxPageSize = %d, want 200", cfg.MaxPageSize)
	}
}

func TestConfigFinalizeValidation(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
	err := cfg.Finalize(nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "default_page_size cannot exceed max_page_size") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigMerge(t *testing.T) {
	base := defaultConfig()
	base.Merge(&pagination.Config{DefaultPageSize: 50})

	if base.DefaultPageSize != 50 {
		t.Errorf("DefaultPageSize = %d, want 50", base.DefaultPageSize)
	}
	if base.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100 (unchanged)", base.MaxPageSize)
	}
}

func TestPageRequestNormalize(t *testing.T) {
	cfg := defaultConfig()

	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"zero values get defaults", pagination.PageRequest{}, 1, 20, 0},
		{"negative page corrected", pagination.PageRequest{Page: -1, PageSize: 10}, 1, 10, 0},
		{"page size clamped to max", pagination.PageRequest{Page: 1, PageSize: 500}, 1, 100, 0},
		{"valid values preserved", pagination.PageRequest{Page: 3, PageSize: 25}, 3, 25, 50},
		{"skip derives page", pagination.PageRequest{PageSize: 10, Skip: 25}, 3, 10, 25},
		{"negative skip ignored", pagination.PageRequest{Page: 2, PageSize: 10, Skip: -5}, 2, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(cfg)
			if tt.req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tt.req.Page, tt.wantPage)
			}
			if tt.req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", tt.req.PageSize, tt.wantPageSize)
			}
			if got := tt.req.Offset(); got != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tt.wantOffset)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	cfg := defaultConfig()

	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"page":      {"2"},
			"page_size": {"15"},
			"search":    {" math "},
			"sort":      {"name,-sort_order"},
		}

		req := pagination.PageRequestFromQuery(values, cfg)

		if req.Page != 2 || req.PageSize != 15 {
			t.Errorf("Page, PageSize = %d, %d, want 2, 15", req.Page, req.PageSize)
		}
		if req.Search == nil || *req.Search != "math" {
			t.Errorf("Search = %v, want 'math'", req.Search)
		}
		if len(req.Sort) != 2 {
			t.Fatalf("Sort length = %d, want 2", len(req.Sort))
		}
		if req.Sort[1] != (query.SortField{Field: "sort_order", Descending: true}) {
			t.Errorf("Sort[1] = %v, want {sort_order true}", req.Sort[1])
		}
	})

	t.Run("limit and offset", func(t *testing.T) {
		values := url.Values{"limit": {"10"}, "offset": {"30"}}
		req := pagination.PageRequestFromQuery(values, cfg)

		if req.PageSize != 10 {
			t.Errorf("PageSize = %d, want 10", req.PageSize)
		}
		if req.Offset() != 30 {
			t.Errorf("Offset() = %d, want 30", req.Offset())
		}
		if req.Page != 4 {
			t.Errorf("Page = %d, want 4", req.Page)
		}
	})

	t.Run("page_size wins over limit", func(t *testing.T) {
		values := url.Values{"limit": {"10"}, "page_size": {"5"}}
		if req := pagination.PageRequestFromQuery(values, cfg); req.PageSize != 5 {
			t.Errorf("PageSize = %d, want 5", req.PageSize)
		}
	})

	t.Run("sort_by and order", func(t *testing.T) {
		values := url.Values{"sort_by": {"name"}, "order": {"DESC"}}
		req := pagination.PageRequestFromQuery(values, cfg)

		if len(req.Sort) != 1 || req.Sort[0] != (query.SortField{Field: "name", Descending: true}) {
			t.Errorf("Sort = %v, want [{name true}]", req.Sort)
		}
	})

	t.Run("sort wins over sort_by", func(t *testing.T) {
		values := url.Values{"sort": {"code"}, "sort_by": {"name"}}
		req := pagination.PageRequestFromQuery(values, cfg)

		if len(req.Sort) != 1 || req.Sort[0].Field != "code" {
			t.Errorf("Sort = %v, want [{code false}]", req.Sort)
		}
	})

	t.Run("empty params get defaults", func(t *testing.T) {
		req := pagination.PageRequestFromQuery(url.Values{}, cfg)

		if req.Page != 1 || req.PageSize != 20 {
			t.Errorf("Page, PageSize = %d, %d, want 1, 20", req.Page, req.PageSize)
		}
		if req.Search != nil {
			t.Errorf("Search = %v, want nil", req.Search)
		}
		if req.Sort != nil {
			t.Errorf("Sort = %v, want nil", req.Sort)
		}
	})
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		page           int
		pageSize       int
		wantTotalPages int
		wantNext       bool
		wantPrevious   bool
	}{
		{"exact division", 100, 1, 20, 5, true, false},
		{"remainder last page", 101, 6, 20, 6, false, true},
		{"middle page", 60, 2, 20, 3, true, true},
		{"single page", 5, 1, 20, 1, false, false},
		{"empty result", 0, 1, 20, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult([]string{"a"}, tt.total, tt.page, tt.pageSize)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
			if result.HasNext != tt.wantNext {
				t.Errorf("HasNext = %v, want %v", result.HasNext, tt.wantNext)
			}
			if result.HasPrevious != tt.wantPrevious {
				t.Errorf("HasPrevious = %v, want %v", result.HasPrevious, tt.wantPrevious)
			}
		})
	}
}

func TestNewPageResultNilDataBecomesEmpty(t *testing.T) {
	result := pagination.NewPageResult[string](nil, 0, 1, 20)
	if result.Data == nil {
		t.Error("Data should be empty slice, not nil")
	}

	body, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, key := range []string{`"data":[]`, `"has_next":false`, `"has_previous":false`, `"total_pages":1`} {
		if !strings.Contains(string(body), key) {
			t.Errorf("JSON %s missing %s", body, key)
		}
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	inputs := map[string]string{
		"string": `"name,-sort_order"`,
		"array":  `[{"field":"name","descending":false},{"field":"sort_order","descending":true}]`,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			var sf pagination.SortFields
			if err := json.Unmarshal([]byte(input), &sf); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if len(sf) != 2 {
				t.Fatalf("length = %d, want 2", len(sf))
			}
			if sf[0] != (query.SortField{Field: "name"}) {
				t.Errorf("sf[0] = %v, want {name false}", sf[0])
			}
			if sf[1] != (query.SortField{Field: "sort_order", Descending: true}) {
				t.Errorf("sf[1] = %v, want {sort_order true}", sf[1])
			}
		})
	}
}

func TestConfigClamp(t *testing.T) {
	cfg := defaultConfig()

	tests := []struct {
		size int
		want int
	}{
		{0, 20},
		{-5, 20},
		{1, 1},
		{100, 100},
		{500, 100},
	}

	for _, tt := range tests {
		if got := cfg.Clamp(tt.size); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestResultForUnalignedOffset(t *testing.T) {
	cfg := defaultConfig()

	tests := []struct {
		name         string
		values       url.Values
		total        int
		wantPage     int
		wantNext     bool
		wantPrevious bool
	}{
		{"offset inside first page", url.Values{"offset": {"5"}, "limit": {"10"}}, 30, 1, true, true},
		{"offset reaching end", url.Values{"offset": {"25"}, "limit": {"10"}}, 30, 3, false, true},
		{"page aligned", url.Values{"page": {"2"}, "limit": {"10"}}, 30, 2, true, true},
		{"first page", url.Values{"limit": {"10"}}, 30, 1, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequestFromQuery(tt.values, cfg)
			result := pagination.ResultFor([]string{"a"}, tt.total, req)

			if result.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", result.Page, tt.wantPage)
			}
			if result.HasNext != tt.wantNext {
				t.Errorf("HasNext = %v, want %v", result.HasNext, tt.wantNext)
			}
			if result.HasPrevious != tt.wantPrevious {
				t.Errorf("HasPrevious = %v, want %v", result.HasPrevious, tt.wantPrevious)
			}
		})
	}
}
