package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vanshika/costar/internal/config"
	"github.com/vanshika/costar/internal/dataset"
	"github.com/vanshika/costar/internal/domain"
	"github.com/vanshika/costar/internal/logging"
	"github.com/vanshika/costar/internal/service"
)

var errMissingDataset = errors.New("--dataset is required")

// cliOptions holds the persistent flags shared by every subcommand.
type cliOptions struct {
	creditsPath string
	namesPath   string
	filmsPath   string
	byName      bool
	jsonOutput  bool
	baconActor  int64
	workers     int
	logLevel    string

	stderr io.Writer
	svc    *service.CostarService
}

// runE loads the dataset before handing over to fn, so help and completion commands
// work without one.
func (o *cliOptions) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := o.load(cmd.Context()); err != nil {
			return err
		}
		return fn(cmd, args)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &cliOptions{stderr: stderr}

	root := &cobra.Command{
		Use:   "degrees",
		Short: "Query the actor co-star graph",
		Long: `Answer Six Degrees questions over a credits dataset.

Actors and films are given by numeric id, or by name with --by-name.

Examples:
  degrees --dataset data/credits.json together 2 3
  degrees --dataset data/credits.json --names data/names.json --by-name path "Kevin Bacon" "Ada Stone"
  degrees --dataset data/credits.msgpack bacon 5`,
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.creditsPath, "dataset", "", "credits file (.json, .msgpack or .yaml)")
	flags.StringVar(&opts.namesPath, "names", "", "actor name table")
	flags.StringVar(&opts.filmsPath, "films", "", "film title table")
	flags.BoolVar(&opts.byName, "by-name", false, "resolve arguments as actor names and film titles")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")
	flags.Int64Var(&opts.baconActor, "bacon", int64(service.DefaultBaconActor), "reference actor id for bacon queries")
	flags.IntVar(&opts.workers, "workers", 0, "frontier expansion workers (0 = GOMAXPROCS)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		newStatsCmd(opts),
		newTogetherCmd(opts),
		newLevelCmd(opts),
		newHistogramCmd(opts),
		newPathCmd(opts),
		newFilmsCmd(opts),
		newToFilmCmd(opts),
		newBridgeCmd(opts),
		newBaconCmd(opts),
	)
	return root
}

func (o *cliOptions) load(ctx context.Context) error {
	if o.creditsPath == "" {
		return errMissingDataset
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.NewWithWriter(config.LoggingConfig{Level: o.logLevel}, o.stderr).With("component", "degrees")

	source := dataset.NewFileSource(dataset.Files{
		CreditsPath: o.creditsPath,
		ActorsPath:  o.namesPath,
		FilmsPath:   o.filmsPath,
	})
	o.svc = service.NewCostarService(source, service.Config{
		BaconActor: domain.ActorID(o.baconActor),
		Workers:    o.workers,
		Logger:     logger,
	})
	summary, err := o.svc.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	logger.Debug("dataset loaded", "actors", summary.Actors, "films", summary.Films)
	return nil
}

func (o *cliOptions) actor(arg string) (domain.ActorID, error) {
	if o.byName {
		a, err := o.svc.LookupActor(arg)
		if err != nil {
			return 0, err
		}
		return a.ID, nil
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("actor id %q is not an integer", arg)
	}
	return domain.ActorID(id), nil
}

func (o *cliOptions) film(arg string) (domain.FilmID, error) {
	if o.byName {
		f, err := o.svc.LookupFilm(arg)
		if err != nil {
			return 0, err
		}
		return f.ID, nil
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("film id %q is not an integer", arg)
	}
	return domain.FilmID(id), nil
}

func (o *cliOptions) actorPair(args []string) (domain.ActorID, domain.ActorID, error) {
	a, err := o.actor(args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := o.actor(args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
