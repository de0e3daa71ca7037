package engine

import "strings"

// Status is the persisted conversation position of a user. It is the
// single dispatch key of the state machine: it determines what kind of
// input the engine expects next.
//
// Statuses form a dot-hierarchy (domain.flow.step); only the leaf values
// below are live states.
type Status string

const (
	StatusRegisterName   Status = "auth.register.name"
	StatusRegisterRegion Status = "auth.register.region"
	StatusRegisterSchool Status = "auth.register.school"
	StatusRegisterClass  Status = "auth.register.class"
	StatusMenuIdle       Status = "sys.menu.idle"
	StatusUploadFile     Status = "upload.pdf.file"
	StatusUploadTags     Status = "upload.pdf.tags"
	StatusSearchSelect   Status = "search.filter.select"
	StatusSearchResults  Status = "search.results.page"
	StatusViewDocument   Status = "view.pdf.page"
)

var allStatuses = []Status{
	StatusRegisterName,
	StatusRegisterRegion,
	StatusRegisterSchool,
	StatusRegisterClass,
	StatusMenuIdle,
	StatusUploadFile,
	StatusUploadTags,
	StatusSearchSelect,
	StatusSearchResults,
	StatusViewDocument,
}

// Valid reports whether s is one of the enumerated leaf states.
func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Domain returns the leading token of the status hierarchy
// ("auth", "sys", "upload", "search", "view"). Empty for invalid statuses.
func (s Status) Domain() string {
	i := strings.IndexByte(string(s), '.')
	if i < 0 {
		return ""
	}
	return string(s)[:i]
}
