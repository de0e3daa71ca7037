package engine

import "testing"

func TestStatus_Domain(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusRegisterName, "auth"},
		{StatusMenuIdle, "sys"},
		{StatusUploadTags, "upload"},
		{StatusSearchResults, "search"},
		{StatusViewDocument, "view"},
		{Status("nodots"), ""},
		{Status(""), ""},
	}

	for _, tt := range tests {
		if got := tt.status.Domain(); got != tt.want {
			t.Errorf("Domain(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range allStatuses {
		if !s.Valid() {
			t.Errorf("Valid(%q) = false, want true", s)
		}
	}

	for _, s := range []Status{"", "sys.menu", "upload.pdf.file.extra", "future.flow.step"} {
		if s.Valid() {
			t.Errorf("Valid(%q) = true, want false", s)
		}
	}
}

func TestCallbackDomain(t *testing.T) {
	tests := []struct {
		data   string
		domain string
		ok     bool
	}{
		{"upload_tag_math", "upload", true},
		{"upload_done", "upload", true},
		{"search_apply", "search", true},
		{"sys_anything", "sys", true},
		// Pass-through payloads validated by their handlers instead.
		{"view_12", "", false},
		{"like_12", "", false},
		{"download_12", "", false},
		{"page_2", "", false},
		{"back_to_menu", "", false},
		{"noop", "", false},
	}

	for _, tt := range tests {
		domain, ok := callbackDomain(tt.data)
		if domain != tt.domain || ok != tt.ok {
			t.Errorf("callbackDomain(%q) = (%q, %v), want (%q, %v)",
				tt.data, domain, ok, tt.domain, tt.ok)
		}
	}
}
