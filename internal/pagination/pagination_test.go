package pagination

import "testing"

func TestFromQuery(t *testing.T) {
	tests := []struct {
		page, perPage string
		want          Params
	}{
		{"", "", Params{Page: 1, PerPage: 10}},
		{"3", "20", Params{Page: 3, PerPage: 20}},
		{"0", "-5", Params{Page: 1, PerPage: 10}},
		{"abc", "1000", Params{Page: 1, PerPage: MaxPerPage}},
	}
	for _, tt := range tests {
		if got := FromQuery(tt.page, tt.perPage); got != tt.want {
			t.Errorf("FromQuery(%q, %q) = %+v, want %+v", tt.page, tt.perPage, got, tt.want)
		}
	}
}

func TestOffsetStartsAtFirstRow(t *testing.T) {
	tests := []struct {
		p    Params
		want int
	}{
		{Params{Page: 1, PerPage: 10}, 0},
		{Params{Page: 2, PerPage: 10}, 10},
		{Params{Page: 3, PerPage: 25}, 50},
	}
	for _, tt := range tests {
		if got := tt.p.Offset(); got != tt.want {
			t.Errorf("%+v.Offset() = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestNewMetaPages(t *testing.T) {
	tests := []struct {
		total   int64
		perPage int
		want    int64
	}{
		{25, 10, 3},
		{20, 10, 2},
		{0, 10, 0},
		{1, 100, 1},
	}
	for _, tt := range tests {
		m := NewMeta(tt.total, Params{Page: 1, PerPage: tt.perPage})
		if m.Pages != tt.want {
			t.Errorf("NewMeta(%d, %d).Pages = %d, want %d", tt.total, tt.perPage, m.Pages, tt.want)
		}
	}
}

func TestNewNeverReturnsNilData(t *testing.T) {
	page := New[int](nil, 0, Params{Page: 1, PerPage: 10})
	if page.Data == nil {
		t.Fatal("Data is nil")
	}
}
