package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/secretdraw/internal/join"
	"github.com/playperu/secretdraw/internal/secretdraw"
)

// sortedGames returns the games newest first, closed ones only when all is set.
func sortedGames(byID map[string]secretdraw.Game, all bool) []secretdraw.Game {
	out := make([]secretdraw.Game, 0, len(byID))
	for id, g := range byID {
		if !all && !g.IsActive {
			continue
		}
		if g.ID == "" {
			g.ID = id
		}
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b secretdraw.Game) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func printGames(w io.Writer, games []secretdraw.Game, numbered bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := "ID\tNAME\tPLAYERS\tFREE\tSTATUS"
	if numbered {
		header = "#\t" + header
	}
	fmt.Fprintln(tw, header)
	for i, g := range games {
		status := "open"
		switch {
		case !g.IsActive:
			status = "closed"
		case g.AvailableSlots() == 0:
			status = "full"
		}
		row := fmt.Sprintf("%s\t%s\t%d/%d\t%d\t%s", g.ID, g.Name, len(g.Players), g.Capacity(), g.AvailableSlots(), status)
		if numbered {
			row = fmt.Sprintf("%d\t%s", i+1, row)
		}
		fmt.Fprintln(tw, row)
	}
	tw.Flush()
}

func printGame(w io.Writer, g secretdraw.Game) {
	fmt.Fprintf(w, "%s  %s\n", g.ID, g.Name)
	fmt.Fprintf(w, "created by %s, %d of %d players\n", g.CreatedBy, len(g.Players), g.Capacity())
	fmt.Fprintf(w, "participants: %s\n", strings.Join(g.Participants, ", "))
	fmt.Fprintf(w, "objects:      %s\n", strings.Join(g.Objects, ", "))
	fmt.Fprintf(w, "locations:    %s\n", strings.Join(g.Locations, ", "))
	for _, p := range g.Players {
		fmt.Fprintf(w, "  - %s\n", p.Name)
	}
}

func printAssignment(w io.Writer, p secretdraw.Player) {
	fmt.Fprintf(w, "%s, your draw:\n", p.Name)
	fmt.Fprintf(w, "  participant: %s\n  object:      %s\n  location:    %s\n", p.Participant, p.Object, p.Location)
	fmt.Fprintf(w, "player id: %s\n", p.ID)
}

// failure turns err into the message a player sees.
func failure(err error) error {
	return errors.New(join.Message(err))
}

func newListCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			byID, err := a.games.ListGames(cmd.Context())
			if err != nil {
				return failure(err)
			}
			games := sortedGames(byID, all)
			if len(games) == 0 {
				fmt.Fprintln(a.out, "no games")
				return nil
			}
			printGames(a.out, games, false)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include closed games")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a game's pools and players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.games.GetGame(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				return failure(err)
			}
			printGame(a.out, g)
			return nil
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var req secretdraw.NewGameRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.games.CreateGame(cmd.Context(), req)
			if err != nil {
				return failure(err)
			}
			fmt.Fprintf(a.out, "created %s (%s), room for %d players\n", g.ID, g.Name, g.Capacity())
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&req.Name, "name", "", "game name (default \"Partida {id}\")")
	fs.StringVar(&req.CreatedBy, "by", "", "creator name (default \"Admin\")")
	fs.StringArrayVarP(&req.Participants, "participant", "p", nil, "participant pool entry, repeatable")
	fs.StringArrayVarP(&req.Objects, "object", "o", nil, "object pool entry, repeatable")
	fs.StringArrayVarP(&req.Locations, "location", "l", nil, "location pool entry, repeatable")
	return cmd
}

func newJoinCmd(a *app) *cobra.Command {
	var (
		count  int
		prefix string
	)
	cmd := &cobra.Command{
		Use:   "join ID [NAME]",
		Short: "Join a game and print your assignment",
		Long: "Join a game and print your assignment.\n\n" +
			"With --count N, N players named {prefix}1..{prefix}N join concurrently,\n" +
			"and the stored game is compared with the joins that reported success.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.ToUpper(args[0])
			if count <= 1 {
				if len(args) < 2 {
					return errors.New("NAME is required")
				}
				p, err := a.joiner.Join(cmd.Context(), id, args[1])
				if err != nil {
					return failure(err)
				}
				printAssignment(a.out, p)
				return nil
			}
			return a.joinMany(cmd, id, prefix, count)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of concurrent joins")
	cmd.Flags().StringVar(&prefix, "prefix", "player-", "name prefix for concurrent joins")
	return cmd
}

// joinMany fires count joins at once and reports how many survived in the store.
func (a *app) joinMany(cmd *cobra.Command, id, prefix string, count int) error {
	var (
		mu     sync.Mutex
		joined []secretdraw.Player
		failed = map[string]int{}
	)

	var g errgroup.Group
	for i := 1; i <= count; i++ {
		name := fmt.Sprintf("%s%d", prefix, i)
		g.Go(func() error {
			p, err := a.joiner.Join(cmd.Context(), id, name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[join.Message(err)]++
				return nil
			}
			joined = append(joined, p)
			return nil
		})
	}
	_ = g.Wait()

	stored, err := a.games.GetGame(cmd.Context(), id)
	if err != nil {
		return failure(err)
	}
	kept := 0
	for _, p := range joined {
		if _, ok := stored.PlayerByID(p.ID); ok {
			kept++
		}
	}

	fmt.Fprintf(a.out, "%d joins reported success, %d of them are stored\n", len(joined), kept)
	reasons := make([]string, 0, len(failed))
	for msg := range failed {
		reasons = append(reasons, msg)
	}
	slices.Sort(reasons)
	for _, msg := range reasons {
		fmt.Fprintf(a.out, "%d failed: %s\n", failed[msg], msg)
	}
	fmt.Fprintf(a.out, "game now has %d of %d players\n", len(stored.Players), stored.Capacity())
	return nil
}

func newResetCmd(a *app) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "reset ID",
		Short: "Remove every player from a game and reopen it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gate.Check(key); err != nil {
				return err
			}
			g, err := a.games.ResetGame(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				return failure(err)
			}
			fmt.Fprintf(a.out, "reset %s, %d slots free\n", g.ID, g.AvailableSlots())
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "admin-key", "", "admin key")
	return cmd
}

func newCloseCmd(a *app) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "close ID",
		Short: "Hide a game from the listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gate.Check(key); err != nil {
				return err
			}
			g, err := a.games.SetActive(cmd.Context(), strings.ToUpper(args[0]), false)
			if err != nil {
				return failure(err)
			}
			fmt.Fprintf(a.out, "closed %s\n", g.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "admin-key", "", "admin key")
	return cmd
}
