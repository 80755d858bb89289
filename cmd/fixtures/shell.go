package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/trunkcat/fixtures/live"
	"github.com/trunkcat/fixtures/models"
	"github.com/trunkcat/fixtures/schedule"
	"github.com/trunkcat/fixtures/services"
)

const shellHelp = `commands:
  show                      print the schedule
  team <id>                 toggle the team filter of every section
  status all|incomplete|complete
  clear                     clear all filters
  search <text>             find teams by name
  select <match id>         open the score dialog
  inc 1|2, dec 1|2          move a score counter
  set <team1> <team2>       set both counters
  update                    save scores
  end                       save scores and end the match
  close                     close the dialog
  reload                    fetch everything again
  quit`

func newShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "interactive schedule editor for one stage",
		Flags: []cli.Flag{
			stageFlag,
			&cli.StringFlag{Name: "live", Usage: "websocket URL of a console server, e.g. ws://localhost:8080/api/ws/stages/<id>"},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()

			sh := &shell{
				view: schedule.NewView(c.String("stage"), e.client, e.notifier, e.logger),
				out:  c.App.Writer,
			}
			sh.view.Load(ctx)
			printSnapshot(sh.out, sh.view.Snapshot())

			if url := c.String("live"); url != "" {
				sub, err := live.Subscribe(ctx, url, nil, e.logger)
				if err != nil {
					return err
				}
				go func() {
					err := sub.Run(ctx, sh.applyRemote)
					if err != nil && !errors.Is(err, context.Canceled) {
						e.logger.Warn("live updates stopped", slog.Any("error", err))
					}
				}()
			}

			return sh.run(ctx, c.App.Reader)
		},
	}
}

type shell struct {
	view *schedule.View

	mu  sync.Mutex // guards out; live updates arrive from another goroutine
	out io.Writer
	// секция, в которой открыт диалог
	active *schedule.Section
}

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	sh.prompt()
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 && (fields[0] == "quit" || fields[0] == "exit") {
			return nil
		}
		sh.mu.Lock()
		if len(fields) > 0 {
			if err := sh.exec(ctx, fields[0], fields[1:]); err != nil {
				fmt.Fprintln(sh.out, "error:", err)
			}
		}
		fmt.Fprint(sh.out, "> ")
		sh.mu.Unlock()
	}
	return scanner.Err()
}

func (sh *shell) prompt() {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	fmt.Fprint(sh.out, "> ")
}

// applyRemote splices a pushed match into the schedule and reports it
// without breaking up the output of a running command.
func (sh *shell) applyRemote(m models.Match) {
	if !sh.view.ApplyRemoteUpdate(m) {
		return
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	fmt.Fprintf(sh.out, "\n* match %s updated: %d : %d\n> ", m.ID, m.Score.Team1Score, m.Score.Team2Score)
}

func (sh *shell) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
	case "show":
		printSnapshot(sh.out, sh.view.Snapshot())
	case "reload":
		sh.view.Load(ctx)
		printSnapshot(sh.out, sh.view.Snapshot())
	case "team":
		if len(args) != 1 {
			return errors.New("usage: team <id>")
		}
		for _, section := range sh.view.Sections() {
			section.ToggleTeamFilter(args[0])
		}
		printSnapshot(sh.out, sh.view.Snapshot())
	case "status":
		if len(args) != 1 {
			return errors.New("usage: status all|incomplete|complete")
		}
		status, err := schedule.ParseStatusFilter(args[0])
		if err != nil {
			return err
		}
		for _, section := range sh.view.Sections() {
			section.SetStatusFilter(status)
		}
		printSnapshot(sh.out, sh.view.Snapshot())
	case "clear":
		for _, section := range sh.view.Sections() {
			section.ClearFilters()
		}
		printSnapshot(sh.out, sh.view.Snapshot())
	case "search":
		for _, team := range sh.searchTeams(strings.Join(args, " ")) {
			fmt.Fprintf(sh.out, "%s  %s\n", team.ID, team.Name)
		}
	case "select":
		if len(args) != 1 {
			return errors.New("usage: select <match id>")
		}
		return sh.selectMatch(args[0])
	case "inc", "dec":
		section, err := sh.dialogSection()
		if err != nil {
			return err
		}
		if len(args) != 1 {
			return fmt.Errorf("usage: %s 1|2", cmd)
		}
		slot, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: %s", schedule.ErrInvalidSlot, args[0])
		}
		delta := 1
		if cmd == "dec" {
			delta = -1
		}
		if err := section.AdjustScore(slot, delta); err != nil {
			return err
		}
		printDialog(sh.out, section.Dialog())
	case "set":
		section, err := sh.dialogSection()
		if err != nil {
			return err
		}
		if len(args) != 2 {
			return errors.New("usage: set <team1> <team2>")
		}
		t1, err1 := strconv.Atoi(args[0])
		t2, err2 := strconv.Atoi(args[1])
		if err := errors.Join(err1, err2); err != nil {
			return err
		}
		if err := section.SetScores(schedule.ScoreForm{Team1Score: t1, Team2Score: t2}); err != nil {
			return err
		}
		printDialog(sh.out, section.Dialog())
	case "update", "end":
		section, err := sh.dialogSection()
		if err != nil {
			return err
		}
		if cmd == "end" {
			_, err = section.EndMatch(ctx)
		} else {
			_, err = section.UpdateScores(ctx)
		}
		if err != nil {
			if !isDialogError(err) {
				// Диалог остаётся открытым, ошибка уже показана уведомлением.
				return nil
			}
			return err
		}
		printDialog(sh.out, section.Dialog())
	case "close":
		if sh.active != nil {
			sh.active.CloseDialog()
			sh.active = nil
		}
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

// searchTeams merges the matches of every section. A team playing in
// several stage items is listed once.
func (sh *shell) searchTeams(query string) []models.Team {
	seen := make(map[string]bool)
	var teams []models.Team
	for _, section := range sh.view.Sections() {
		for _, team := range section.SearchTeams(query) {
			if seen[team.ID] {
				continue
			}
			seen[team.ID] = true
			teams = append(teams, team)
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].Name == teams[j].Name {
			return teams[i].ID < teams[j].ID
		}
		return teams[i].Name < teams[j].Name
	})
	return teams
}

// isDialogError reports errors the dialog raises before any request is sent.
// Those are not shown as notifications.
func isDialogError(err error) bool {
	return errors.Is(err, schedule.ErrNoMatchSelected) ||
		errors.Is(err, schedule.ErrMatchLocked) ||
		errors.Is(err, schedule.ErrDialogBusy) ||
		errors.Is(err, services.ErrValidationFailed)
}

func (sh *shell) selectMatch(matchID string) error {
	section, err := sh.view.SectionForMatch(matchID)
	if err != nil {
		return err
	}
	if sh.active != nil && sh.active != section && sh.active.Dialog().State != schedule.DialogClosed {
		return schedule.ErrMatchAlreadySelected
	}
	if err := section.SelectMatch(matchID); err != nil {
		return err
	}
	sh.active = section
	printDialog(sh.out, section.Dialog())
	return nil
}

func (sh *shell) dialogSection() (*schedule.Section, error) {
	if sh.active == nil {
		return nil, schedule.ErrNoMatchSelected
	}
	return sh.active, nil
}
