package stats

import (
	"fmt"
	"io"

	"github.com/kvasha/digitype/internal/achievement"
	"github.com/kvasha/digitype/internal/model"
)

const dateLayout = "2006-01-02"

// RenderProgressChart plots WPM over the queried date range with a
// one-line trend sparkline below.
func RenderProgressChart(w io.Writer, records []model.ProgressRecord, window, width, height int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	wpm, _ := ProgressSeries(records)
	if err := PlotSeries(w, "WPM Progress", []Series{
		{Name: "WPM", Values: MovingAverage(wpm, window)},
	}, width, height); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Trend: %s\n", Sparkline(wpm))
	return err
}

// RenderHistory plots WPM and accuracy over the queried date range and
// prints the per-session table below.
func RenderHistory(w io.Writer, records []model.ProgressRecord, window, width, height int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	wpm, accuracy := ProgressSeries(records)
	if err := PlotSeries(w, "Typing History", []Series{
		{Name: "WPM", Values: MovingAverage(wpm, window)},
		{Name: "Accuracy", Values: MovingAverage(accuracy, window)},
	}, width, height); err != nil {
		return err
	}

	headers := []string{"Date", "WPM", "Accuracy"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Date.Format(dateLayout),
			fmt.Sprintf("%.1f", rec.WPM),
			fmt.Sprintf("%.2f%%", rec.Accuracy),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderLeaderboard prints the ranked best-WPM table.
func RenderLeaderboard(w io.Writer, board []model.LeaderboardRow) error {
	if len(board) == 0 {
		_, err := fmt.Fprintln(w, "Leaderboard is empty.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Leaderboard"); err != nil {
		return err
	}
	headers := []string{"#", "User", "Best WPM", "Accuracy", "Date"}
	rows := make([][]string, 0, len(board))
	for i, row := range board {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			row.Username,
			fmt.Sprintf("%.1f", row.MaxWPM),
			fmt.Sprintf("%.2f%%", row.Accuracy),
			row.Date.Format(dateLayout),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderAchievements prints the fixed achievement set with earned markers.
func RenderAchievements(w io.Writer, statuses []achievement.Status) error {
	headers := []string{"", "Achievement", "Description"}
	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		marker := "[ ]"
		if st.Achieved {
			marker = "[x]"
		}
		rows = append(rows, []string{marker, st.Name, st.Description})
	}
	for _, line := range formatTable(headers, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
