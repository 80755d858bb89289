package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/trunkcat/fixtures/schedule"
	"github.com/trunkcat/fixtures/services"
)

// printNotifier prints notifications the way a toast would show them.
type printNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func (n *printNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "✓ %s\n", message)
}

func (n *printNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "✗ %s\n", message)
}

// output prints v as JSON with --json, otherwise calls text.
func output(c *cli.Context, v any, text func(w io.Writer)) error {
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(c.App.Writer)
	return nil
}

func printSnapshot(w io.Writer, snap schedule.Snapshot) {
	if snap.State != services.StateResolved {
		fmt.Fprintln(w, snap.Message)
		return
	}
	fmt.Fprintf(w, "Stage %s: %d rounds\n", snap.StageID, snap.TotalRounds)
	if snap.Message != "" {
		fmt.Fprintln(w, snap.Message)
		return
	}
	for _, section := range snap.Sections {
		printSection(w, section)
	}
}

func printSection(w io.Writer, section schedule.SectionSnapshot) {
	fmt.Fprintf(w, "\n== %s", section.StageItemID)
	if !section.Filter.IsClear() {
		fmt.Fprintf(w, " (team=%s status=%s)", orDash(section.Filter.TeamID), section.Filter.Status)
	}
	fmt.Fprintln(w)
	if section.State != services.StateResolved {
		fmt.Fprintln(w, section.Message)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, round := range section.Rounds {
		fmt.Fprintf(tw, "%s\t\t\t\n", round.Title)
		for _, row := range round.Rows {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t[%s]\n", row.MatchID, sideLabel(row.Home), row.Home.Score, row.Status)
			fmt.Fprintf(tw, "  \t%s\t%s\t\n", sideLabel(row.Away), row.Away.Score)
		}
	}
	tw.Flush()
}

func sideLabel(side schedule.Side) string {
	if side.Muted {
		return strings.ToLower(side.Name)
	}
	return side.Name
}

func printDialog(w io.Writer, d schedule.DialogView) {
	if d.State == schedule.DialogClosed {
		fmt.Fprintln(w, "no match selected")
		return
	}
	fmt.Fprintf(w, "%s (%s) [%s]\n", d.Title, d.Description, d.State)
	fmt.Fprintf(w, "  %d : %d\n", d.Form.Team1Score, d.Form.Team2Score)
	switch {
	case d.Pending != "":
		fmt.Fprintf(w, "  waiting for %s\n", d.Pending)
	case d.State == schedule.DialogLocked:
		fmt.Fprintln(w, "  match has ended")
	}
}

func printStandings(w io.Writer, standings []services.StageItemStandings) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, item := range standings {
		fmt.Fprintf(tw, "== %s\t\t\n", item.StageItemID)
		for _, row := range item.Rows {
			fmt.Fprintf(tw, "%d.\t%s\t%d\n", row.Position, row.Name, row.Points)
		}
	}
	tw.Flush()
}

func printAssignable(w io.Writer, teams []services.AssignableTeam) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, team := range teams {
		mark := "[ ]"
		if team.Assigned {
			mark = "[x]"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", mark, team.ID, team.Name)
	}
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
