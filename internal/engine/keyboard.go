package engine

import (
	"fmt"

	"shelfbot/internal/model"
)

// Keyboard builders. Callback data encodes intent, not state: the current
// status decides whether a press is acted on.

// pageSize is the number of result entries per page.
const pageSize = 5

func mainMenuKeyboard() *Keyboard {
	return &Keyboard{
		Rows: [][]Button{
			{{Label: menuUpload}, {Label: menuSearch}},
			{{Label: menuDownloads}},
		},
	}
}

// tagSelectionKeyboard builds the tag grid for either flow. purpose is
// "upload" or "search" and becomes the callback data prefix. Selected tags
// get a checkmark marker.
func tagSelectionKeyboard(purpose string, selected []string) *Keyboard {
	kb := &Keyboard{Inline: true}

	var row []Button
	for _, tag := range AllTags() {
		label := tag
		if containsTag(selected, tag) {
			label = "✅ " + tag
		}
		row = append(row, Button{Label: label, Data: purpose + "_tag_" + tag})
		if len(row) == 2 {
			kb.Rows = append(kb.Rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.Rows = append(kb.Rows, row)
	}

	var action []Button
	if purpose == "upload" {
		action = append(action, Button{Label: "✅ Done", Data: "upload_done"})
	} else {
		action = append(action, Button{Label: "🔍 Apply Filters", Data: "search_apply"})
	}
	action = append(action, Button{Label: "❌ Cancel", Data: purpose + "_cancel"})
	kb.Rows = append(kb.Rows, action)

	return kb
}

// resultsKeyboard builds the keyboard for one page of search results: a
// view button per listed document, a prev/indicator/next row, and a
// back-to-menu row. page is 1-indexed. Edge buttons degrade to noop so the
// layout stays stable.
func resultsKeyboard(results []model.DocumentSummary, page int) *Keyboard {
	totalPages := (len(results) + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(results) {
		end = len(results)
	}

	var view []Button
	for i, doc := range results[start:end] {
		view = append(view, Button{
			Label: fmt.Sprintf("📄 %d", start+i+1),
			Data:  fmt.Sprintf("view_%d", doc.ID),
		})
	}

	prev := Button{Label: "◀️", Data: "noop"}
	if page > 1 {
		prev = Button{Label: "◀️ Previous", Data: fmt.Sprintf("page_%d", page-1)}
	}
	next := Button{Label: "▶️", Data: "noop"}
	if page < totalPages {
		next = Button{Label: "Next ▶️", Data: fmt.Sprintf("page_%d", page+1)}
	}
	indicator := Button{Label: fmt.Sprintf("%d/%d", page, totalPages), Data: "noop"}

	return &Keyboard{
		Inline: true,
		Rows: [][]Button{
			view,
			{prev, indicator, next},
			{{Label: "🏠 Back to Menu", Data: "back_to_menu"}},
		},
	}
}

// detailKeyboard builds the single-document view keyboard. The like button
// label reflects the viewer's current liked state.
func detailKeyboard(docID int64, liked bool) *Keyboard {
	likeLabel := "🤍 Like"
	if liked {
		likeLabel = "❤️ Unlike"
	}
	return &Keyboard{
		Inline: true,
		Rows: [][]Button{
			{
				{Label: likeLabel, Data: fmt.Sprintf("like_%d", docID)},
				{Label: "📥 Download", Data: fmt.Sprintf("download_%d", docID)},
			},
			{{Label: "🔙 Back to Results", Data: "back_to_results"}},
		},
	}
}

// resultsPageText renders one page of search results. page is 1-indexed
// and assumed in range.
func resultsPageText(results []model.DocumentSummary, page int) string {
	totalPages := (len(results) + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(results) {
		end = len(results)
	}

	text := fmt.Sprintf(msgResultsHeader, page, totalPages)
	for i, doc := range results[start:end] {
		text += fmt.Sprintf("\n📄 %d. %s\n   🏷️ %s\n   ❤️ %d likes\n", start+i+1, doc.FileName, joinTags(doc.Tags), doc.LikeCount)
	}
	return text
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}
