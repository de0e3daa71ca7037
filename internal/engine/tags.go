package engine

import "fmt"

// The tag catalog. Tags are "category:value" strings drawn from a fixed
// set of subjects, exam types, years and class levels. Documents carry at
// least one tag (enforced at upload completion, not by the schema).

var subjectTags = []string{
	"subject:math", "subject:physics", "subject:chemistry",
	"subject:biology", "subject:history", "subject:geography",
	"subject:english", "subject:somali", "subject:arabic",
	"subject:islamic",
}

var examTags = []string{"exam:final", "exam:midterm", "exam:quiz", "exam:assignment"}

var classTags = []string{"class:form1", "class:form2", "class:form3", "class:form4"}

func yearTags() []string {
	ys := make([]string, 0, 11)
	for y := 2015; y <= 2025; y++ {
		ys = append(ys, fmt.Sprintf("year:%d", y))
	}
	return ys
}

// AllTags returns the full catalog in keyboard display order.
func AllTags() []string {
	all := make([]string, 0, len(subjectTags)+len(examTags)+11+len(classTags))
	all = append(all, subjectTags...)
	all = append(all, examTags...)
	all = append(all, yearTags()...)
	all = append(all, classTags...)
	return all
}

// ValidTag reports whether tag belongs to the catalog.
func ValidTag(tag string) bool {
	for _, t := range AllTags() {
		if t == tag {
			return true
		}
	}
	return false
}

// toggleTag removes tag from set if present, otherwise appends it at the
// end. Order carries display intent only.
func toggleTag(set []string, tag string) []string {
	for i, t := range set {
		if t == tag {
			return append(set[:i], set[i+1:]...)
		}
	}
	return append(set, tag)
}

func containsTag(set []string, tag string) bool {
	for _, t := range set {
		if t == tag {
			return true
		}
	}
	return false
}
