package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanshika/costar/internal/domain"
)

func newStatsCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the loaded graph",
		Args:  cobra.NoArgs,
		RunE: o.runE(func(cmd *cobra.Command, _ []string) error {
			st, err := o.svc.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), st, func(w io.Writer) {
				fmt.Fprintf(w, "actors: %d\nfilms: %d\nco-star links: %d\nmax degree: %d\n",
					st.Actors, st.Films, st.Edges, st.MaxDegree)
			})
		}),
	}
}

func newTogetherCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "together ACTOR ACTOR",
		Short: "Report whether two actors appeared in a film together",
		Args:  cobra.ExactArgs(2),
		RunE: o.runE(func(cmd *cobra.Command, args []string) error {
			a, b, err := o.actorPair(args)
			if err != nil {
				return err
			}
			ok, err := o.svc.ActedTogether(cmd.Context(), a, b)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), map[string]any{"actor": a, "other": b, "actedTogether": ok}, func(w io.Writer) {
				fmt.Fprintln(w, ok)
			})
		}),
	}
}

func newLevelCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "level ACTOR N",
		Short: "List actors exactly N co-star links away",
		Args:  cobra.ExactArgs(2),
		RunE: o.runE(func(cmd *cobra.Command, args []string) error {
			source, err := o.actor(args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("distance %q is not an integer", args[1])
			}
			level, err := o.svc.ActorsAtDistance(cmd.Context(), source, n)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), level, func(w io.Writer) {
				for _, a := range level.Actors {
					fmt.Fprintln(w, actorLabel(a))
				}
			})
		}),
	}
}

func newHistogramCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "histogram ACTOR",
		Short: "Count actors at each distance from ACTOR",
		Args:  cobra.ExactArgs(1),
		RunE: o.runE(func(cmd *cobra.Command, args []string) error {
			source, err := o.actor(args[0])
			if err != nil {
				return err
			}
			h, err := o.svc.DistanceHistogram(cmd.Context(), source)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), h, func(w io.Writer) {
				for d, c := range h.Counts {
					fmt.Fprintf(w, "%d\t%d\n", d, c)
				}
			})
		}),
	}
}

func newPathCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path SOURCE TARGET",
		Short: "Print a shortest co-star path between two actors",
		Args:  cobra.ExactArgs(2),
		RunE: o.runE(func(cmd *cobra.Command, args []string) error {
			a, b, err := o.actorPair(args)
			if err != nil {
				return err
			}
			path, err := o.svc.ActorPath(cmd.Context(), a, b)
			if err != nil {
				return err
			}
			return o.printPath(cmd.OutOrStdout(), path)
		}),
	}
}

func newFilmsCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "films SOURCE TARGET",
		Short: "Print the films along a shortest path between two actors",
		Args:  cobra.ExactArgs(2),
		RunE: o.runE(func(cmd *cobra.Command, args []string) error {
			a, b, err := o.actorPair(args)
			if err != nil {
				return err
			}
			fp, err := o.svc.FilmPath(cmd.Context(), a, b)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), fp, func(w io.Writer) {
				if !fp.Found {
					fmt.Fprintln(w, "no path")
					return
				}
				for _, f := range fp.Films {
					fmt.Fprintln(w, filmLabel(f.ID, f.Title))
				}
			})
		}),
	}
}

func newToFilmCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tofilm ACTOR FILM",
		Short: "Print a shortest path from an actor to anyone in FILM",
		Args:  cobra.ExactArgs(2),
		RunE: o.runE(func(cmd *cobra.Command, args []string) error {
			actor, err := o.actor(args[0])
			if err != nil {
				return err
			}
			film, err := o.film(args[1])
			if err != nil {
				return err
			}
			path, err := o.svc.PathToFilm(cmd.Context(), actor, film)
			if err != nil {
				return err
			}
			return o.printPath(cmd.OutOrStdout(), path)
		}),
	}
}

func newBridgeCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bridge FILM FILM",
		Short: "Print the shortest actor chain connecting two films",
		Args:  cobra.ExactArgs(2),
		RunE: o.runE(func(cmd *cobra.Command, args []string) error {
			f1, err := o.film(args[0])
			if err != nil {
				return err
			}
			f2, err := o.film(args[1])
			if err != nil {
				return err
			}
			bridge, err := o.svc.ConnectFilms(cmd.Context(), f1, f2)
			if err != nil {
				return err
			}
			if o.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), bridge)
			}
			return o.printPath(cmd.OutOrStdout(), bridge.Path)
		}),
	}
}

func newBaconCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bacon ACTOR",
		Short: "Print an actor's Bacon number and the path realising it",
		Args:  cobra.ExactArgs(1),
		RunE: o.runE(func(cmd *cobra.Command, args []string) error {
			actor, err := o.actor(args[0])
			if err != nil {
				return err
			}
			res, err := o.svc.BaconNumber(cmd.Context(), actor)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				if !res.Found {
					fmt.Fprintln(w, "infinity")
					return
				}
				fmt.Fprintln(w, res.Number)
				writePath(w, res.Path)
			})
		}),
	}
}

func (o *cliOptions) print(w io.Writer, v any, text func(io.Writer)) error {
	if o.jsonOutput {
		return writeJSON(w, v)
	}
	text(w)
	return nil
}

func (o *cliOptions) printPath(w io.Writer, path domain.ActorPath) error {
	return o.print(w, path, func(w io.Writer) {
		if !path.Found {
			fmt.Fprintln(w, "no path")
			return
		}
		writePath(w, path)
	})
}

// writePath renders one line per hop: "A -[Film]-> B".
func writePath(w io.Writer, path domain.ActorPath) {
	if len(path.Nodes) == 1 {
		fmt.Fprintln(w, path.Nodes[0].Label)
		return
	}
	labels := make(map[domain.ActorID]string, len(path.Nodes))
	for _, n := range path.Nodes {
		labels[n.ID] = n.Label
	}
	for _, e := range path.Edges {
		fmt.Fprintf(w, "%s -[%s]-> %s\n", labels[e.Source], e.Label, labels[e.Target])
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func actorLabel(a domain.ActorSummary) string {
	if strings.TrimSpace(a.Name) == "" {
		return strconv.FormatInt(int64(a.ID), 10)
	}
	return fmt.Sprintf("%s (%d)", a.Name, a.ID)
}

func filmLabel(id domain.FilmID, title string) string {
	if title == "" {
		return strconv.FormatInt(int64(id), 10)
	}
	return title
}
