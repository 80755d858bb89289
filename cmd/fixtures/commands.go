package main

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/trunkcat/fixtures/models"
	"github.com/trunkcat/fixtures/schedule"
	"github.com/trunkcat/fixtures/services"
)

const dateLayout = "2006-01-02"

var stageFlag = &cli.StringFlag{Name: "stage", Aliases: []string{"s"}, Usage: "stage ID", Required: true}

func newScheduleCommand() *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "print the rounds of every stage item",
		Flags: []cli.Flag{
			stageFlag,
			&cli.StringFlag{Name: "team", Usage: "only matches of this team ID"},
			&cli.StringFlag{Name: "status", Value: string(schedule.StatusAll), Usage: "all, incomplete or complete"},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			status, err := schedule.ParseStatusFilter(c.String("status"))
			if err != nil {
				return err
			}

			view := schedule.NewView(c.String("stage"), e.client, e.notifier, e.logger)
			view.Load(c.Context)
			for _, section := range view.Sections() {
				if team := c.String("team"); team != "" {
					section.ToggleTeamFilter(team)
				}
				section.SetStatusFilter(status)
			}

			snap := view.Snapshot()
			if err := output(c, snap, func(w io.Writer) { printSnapshot(w, snap) }); err != nil {
				return err
			}
			if snap.State == services.StateRejected {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func newStandingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print the league table of every stage item",
		Flags: []cli.Flag{stageFlag},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			svc := services.NewStageItemService(e.client, e.notifier, e.logger)
			standings, err := svc.Standings(c.Context, c.String("stage"))
			if err != nil {
				return err
			}
			return output(c, standings, func(w io.Writer) { printStandings(w, standings) })
		},
	}
}

func newMatchCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "id", Usage: "match ID", Required: true},
		&cli.IntFlag{Name: "team1", Usage: "score of the first team"},
		&cli.IntFlag{Name: "team2", Usage: "score of the second team"},
	}
	run := func(end bool) cli.ActionFunc {
		return func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			svc := services.NewMatchService(e.client, nil, e.notifier, e.logger)
			form := services.MatchScoreForm{Team1Score: c.Int("team1"), Team2Score: c.Int("team2")}

			mutate := svc.UpdateScore
			if end {
				mutate = svc.EndMatch
			}
			match, err := mutate(c.Context, "", c.String("id"), form)
			if err != nil {
				return err
			}
			return output(c, match, func(w io.Writer) {
				fmt.Fprintf(w, "%s  %d : %d  [%s]\n", match.ID, match.Score.Team1Score, match.Score.Team2Score, match.Status())
			})
		}
	}

	return &cli.Command{
		Name:  "match",
		Usage: "score a match",
		Subcommands: []*cli.Command{
			{Name: "update", Usage: "save scores without ending the match", Flags: flags, Action: run(false)},
			{Name: "end", Usage: "save final scores and end the match", Flags: flags, Action: run(true)},
		},
	}
}

func parseDate(c *cli.Context, name string) (*time.Time, error) {
	raw := c.String(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("--%s: expected YYYY-MM-DD: %w", name, err)
	}
	return &t, nil
}

func newTournamentCommand() *cli.Command {
	defaults := models.DefaultRankingConfig()
	return &cli.Command{
		Name:  "tournament",
		Usage: "manage tournaments",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a tournament in a club",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "club", Usage: "club ID", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "from", Usage: "start date, YYYY-MM-DD"},
					&cli.StringFlag{Name: "to", Usage: "end date, YYYY-MM-DD"},
					&cli.IntFlag{Name: "win", Value: defaults.WinPoints, Usage: "points for a win"},
					&cli.IntFlag{Name: "draw", Value: defaults.DrawPoints, Usage: "points for a draw"},
					&cli.IntFlag{Name: "loss", Value: defaults.LossPoints, Usage: "points for a loss"},
					&cli.BoolFlag{Name: "add-score-points", Usage: "add scored goals to points"},
				},
				Action: func(c *cli.Context) error {
					e, err := newEnv(c)
					if err != nil {
						return err
					}
					form := services.NewCreateTournamentForm()
					form.Name = c.String("name")
					if form.DateRange.From, err = parseDate(c, "from"); err != nil {
						return err
					}
					if form.DateRange.To, err = parseDate(c, "to"); err != nil {
						return err
					}
					form.Settings.RankingConfig = services.RankingConfigForm{
						WinPoints:      c.Int("win"),
						DrawPoints:     c.Int("draw"),
						LossPoints:     c.Int("loss"),
						AddScorePoints: c.Bool("add-score-points"),
					}

					svc := services.NewTournamentService(e.client, e.notifier, e.logger)
					tournament, err := svc.CreateTournament(c.Context, c.String("club"), form)
					if err != nil {
						return err
					}
					return output(c, tournament, func(w io.Writer) {
						fmt.Fprintf(w, "%s  %s\n", tournament.ID, tournament.Name)
					})
				},
			},
		},
	}
}

func newTeamsCommand() *cli.Command {
	flags := []cli.Flag{
		stageFlag,
		&cli.StringFlag{Name: "item", Usage: "stage item ID", Required: true},
	}
	return &cli.Command{
		Name:  "teams",
		Usage: "assign teams to a stage item",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "show assigned and available teams",
				Flags: flags,
				Action: func(c *cli.Context) error {
					e, err := newEnv(c)
					if err != nil {
						return err
					}
					svc := services.NewStageItemService(e.client, e.notifier, e.logger)
					a, err := svc.Assignment(c.Context, c.String("stage"), c.String("item"))
					if err != nil {
						return err
					}
					teams := a.Teams()
					return output(c, teams, func(w io.Writer) { printAssignable(w, teams) })
				},
			},
			{
				Name:  "assign",
				Usage: "replace the teams of a stage item",
				Flags: append(flags, &cli.StringSliceFlag{Name: "team", Aliases: []string{"t"}, Usage: "team ID, repeatable"}),
				Action: func(c *cli.Context) error {
					e, err := newEnv(c)
					if err != nil {
						return err
					}
					svc := services.NewStageItemService(e.client, e.notifier, e.logger)
					a, err := svc.Assignment(c.Context, c.String("stage"), c.String("item"))
					if err != nil {
						return err
					}
					if err := a.SetAssigned(c.StringSlice("team")); err != nil {
						return err
					}
					if _, err := a.Save(c.Context); err != nil {
						return err
					}
					teams := a.Teams()
					return output(c, teams, func(w io.Writer) { printAssignable(w, teams) })
				},
			},
			{
				Name:  "toggle",
				Usage: "flip the assignment of the given teams and save",
				Flags: append(flags, &cli.StringSliceFlag{Name: "team", Aliases: []string{"t"}, Usage: "team ID, repeatable", Required: true}),
				Action: func(c *cli.Context) error {
					e, err := newEnv(c)
					if err != nil {
						return err
					}
					svc := services.NewStageItemService(e.client, e.notifier, e.logger)
					a, err := svc.Assignment(c.Context, c.String("stage"), c.String("item"))
					if err != nil {
						return err
					}
					for _, id := range c.StringSlice("team") {
						if err := a.Toggle(id); err != nil {
							return err
						}
					}
					if _, err := a.Save(c.Context); err != nil {
						return err
					}
					teams := a.Teams()
					return output(c, teams, func(w io.Writer) { printAssignable(w, teams) })
				},
			},
		},
	}
}
