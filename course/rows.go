package course

import "github.com/didactlabs/didact/tabular"

// OutlineFromTable converts a parsed two-column table into outline rows.
func OutlineFromTable(t *tabular.Table) []OutlineRow {
	rows := make([]OutlineRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, OutlineRow{Topic: r[0], Duration: r[1]})
	}
	return rows
}

// StoryboardFromTable converts a parsed three-column table into storyboard
// rows.
func StoryboardFromTable(t *tabular.Table) []StoryboardRow {
	rows := make([]StoryboardRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, StoryboardRow{
			OnscreenText:            r[0],
			VoiceOverScript:         r[1],
			VisualizationGuidelines: r[2],
		})
	}
	return rows
}
