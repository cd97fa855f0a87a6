package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/playperu/secretdraw/internal/screen"
	"github.com/playperu/secretdraw/internal/secretdraw"
)

var errQuit = errors.New("quit")

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Browse, create and join games from a prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := &session{app: a, in: bufio.NewScanner(cmd.InOrStdin()), cur: screen.Start()}
			return s.run(cmd.Context())
		},
	}
}

// session drives one prompt through the screen machine.
type session struct {
	*app
	in  *bufio.Scanner
	cur screen.Screen
}

func (s *session) run(ctx context.Context) error {
	for {
		var (
			ev  screen.Event
			err error
		)
		switch cur := s.cur.(type) {
		case screen.Listing:
			ev, err = s.listing(ctx)
		case screen.Creating:
			ev, err = s.creating(ctx)
		case screen.Joining:
			ev, err = s.joining(ctx, cur.GameID)
		case screen.Playing:
			ev, err = s.playing(cur)
		case screen.Administering:
			ev, err = s.administering(ctx, cur.GameID)
		}
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		next, err := screen.Transition(s.cur, ev)
		if err != nil {
			return err
		}
		s.logger.Debug("screen transition", "from", s.cur.Name(), "event", ev.Name(), "to", next.Name())
		s.cur = next
	}
}

// prompt prints label and returns the next trimmed input line.
func (s *session) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *session) listing(ctx context.Context) (screen.Event, error) {
	for {
		byID, err := s.games.ListGames(ctx)
		if err != nil {
			fmt.Fprintln(s.out, failure(err))
		}
		games := sortedGames(byID, false)
		if len(games) == 0 {
			fmt.Fprintln(s.out, "no open games")
		} else {
			printGames(s.out, games, true)
		}

		line, err := s.prompt("[#|ID] join, n new game, a ID admin, r refresh, q quit > ")
		if err != nil {
			return nil, err
		}
		switch cmd, arg, _ := strings.Cut(line, " "); strings.ToLower(cmd) {
		case "", "r":
			continue
		case "q":
			return nil, errQuit
		case "n":
			return screen.StartCreate{}, nil
		case "a":
			if arg == "" {
				fmt.Fprintln(s.out, "usage: a ID")
				continue
			}
			return screen.OpenAdmin{GameID: strings.ToUpper(strings.TrimSpace(arg))}, nil
		default:
			if n, err := strconv.Atoi(cmd); err == nil {
				if n < 1 || n > len(games) {
					fmt.Fprintln(s.out, "no such game")
					continue
				}
				return screen.SelectGame{GameID: games[n-1].ID}, nil
			}
			return screen.SelectGame{GameID: strings.ToUpper(cmd)}, nil
		}
	}
}

func splitList(line string) []string {
	return strings.Split(line, ",")
}

func (s *session) creating(ctx context.Context) (screen.Event, error) {
	fmt.Fprintln(s.out, "new game (enter < at any prompt to go back)")
	var answers [5]string
	labels := [5]string{
		"name: ",
		"your name: ",
		"participants (comma separated): ",
		"objects (comma separated): ",
		"locations (comma separated): ",
	}
	for i, label := range labels {
		line, err := s.prompt(label)
		if err != nil {
			return nil, err
		}
		if line == "<" {
			return screen.Back{}, nil
		}
		answers[i] = line
	}

	g, err := s.games.CreateGame(ctx, secretdraw.NewGameRequest{
		Name:         answers[0],
		CreatedBy:    answers[1],
		Participants: splitList(answers[2]),
		Objects:      splitList(answers[3]),
		Locations:    splitList(answers[4]),
	})
	if err != nil {
		fmt.Fprintln(s.out, failure(err))
		return screen.Back{}, nil
	}
	fmt.Fprintf(s.out, "created %s, room for %d players\n", g.ID, g.Capacity())
	return screen.GameCreated{GameID: g.ID}, nil
}

func (s *session) joining(ctx context.Context, id string) (screen.Event, error) {
	g, err := s.games.GetGame(ctx, id)
	if err != nil {
		fmt.Fprintln(s.out, failure(err))
		return screen.Back{}, nil
	}
	fmt.Fprintf(s.out, "%s  %s, %d slots free\n", g.ID, g.Name, g.AvailableSlots())

	for {
		name, err := s.prompt("your name (empty to go back): ")
		if err != nil {
			return nil, err
		}
		if name == "" {
			return screen.Back{}, nil
		}
		p, err := s.joiner.Join(ctx, id, name)
		if err != nil {
			fmt.Fprintln(s.out, failure(err))
			if errors.Is(err, secretdraw.ErrNameTaken) || errors.Is(err, secretdraw.ErrLostUpdate) {
				continue
			}
			return screen.Back{}, nil
		}
		return screen.Joined{Player: p}, nil
	}
}

func (s *session) playing(cur screen.Playing) (screen.Event, error) {
	printAssignment(s.out, cur.Player)
	if _, err := s.prompt("press enter to go back to the list "); err != nil {
		return nil, err
	}
	return screen.Exit{}, nil
}

func (s *session) administering(ctx context.Context, id string) (screen.Event, error) {
	key, err := s.prompt("admin key: ")
	if err != nil {
		return nil, err
	}
	if err := s.gate.Check(key); err != nil {
		fmt.Fprintln(s.out, err)
		return screen.Back{}, nil
	}

	g, err := s.games.GetGame(ctx, id)
	if err != nil {
		fmt.Fprintln(s.out, failure(err))
		return screen.Back{}, nil
	}
	printGame(s.out, g)

	for {
		line, err := s.prompt("r reset, c close, b back > ")
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(line) {
		case "b", "":
			return screen.Back{}, nil
		case "r":
			if _, err := s.games.ResetGame(ctx, id); err != nil {
				fmt.Fprintln(s.out, failure(err))
				continue
			}
			fmt.Fprintf(s.out, "reset %s\n", id)
			return screen.ResetDone{}, nil
		case "c":
			if _, err := s.games.SetActive(ctx, id, false); err != nil {
				fmt.Fprintln(s.out, failure(err))
				continue
			}
			fmt.Fprintf(s.out, "closed %s\n", id)
			return screen.Back{}, nil
		}
	}
}
