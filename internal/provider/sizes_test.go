package provider

import "testing"

func TestBytesToHuman(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"kilobytes", 1536, "1.50 KB"},
		{"megabytes", 1572864, "1.50 MB"},
		{"gigabytes", 2147483648, "2.00 GB"},
		{"unreported", -1, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BytesToHuman(tt.bytes); got != tt.want {
				t.Errorf("BytesToHuman(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestNormalizeSizeUnit(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"promote MB to GB", "1200 MB", "1.20 GB"},
		{"no promotion under 1000", "500 MB", "500.00 MB"},
		{"promote KB to MB", "1500 KB", "1.50 MB"},
		{"exactly 1000", "1000 MB", "1.00 GB"},
		{"GB untouched", "2.00 GB", "2.00 GB"},
		{"plain bytes", "512 B", "512 B"},
		{"unparseable passes through", "unknown", "unknown"},
		{"garbage value passes through", "abc MB", "abc MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSizeUnit(tt.label); got != tt.want {
				t.Errorf("NormalizeSizeUnit(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}
