package telemetry

import "testing"

func TestPageSize(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero falls back to default", 0, defaultPageSize},
		{"negative falls back to default", -5, defaultPageSize},
		{"in range passes through", 3, 3},
		{"default itself", 50, 50},
		{"at the cap", 500, 500},
		{"over the cap is clamped", 5000, maxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pageSize(tt.limit); got != tt.want {
				t.Errorf("pageSize(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}
