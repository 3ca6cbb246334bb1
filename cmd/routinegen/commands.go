package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/myrjola/liftplan/internal/catalog"
	"github.com/myrjola/liftplan/internal/document"
	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/overload"
	"github.com/myrjola/liftplan/internal/profile"
	"github.com/myrjola/liftplan/internal/routine"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatText     = "text"
)

var errUnknownFormat = errors.NewSentinel("unknown format")

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var (
		verbose     bool
		catalogPath string
	)
	root := &cobra.Command{
		Use:           "routinegen",
		Short:         "Generate training routines and next-session loads",
		Long:          "Generates multi-day training routines from a profile file and suggests loads from a history file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				level.Set(slog.LevelDebug)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log selection decisions to stderr")
	root.PersistentFlags().StringVar(&catalogPath, "catalog", "", "YAML exercise catalog (default: built-in)")

	loadCatalog := func() (*catalog.Catalog, error) {
		if catalogPath == "" {
			return catalog.Default()
		}
		f, err := os.Open(catalogPath)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		return catalog.Load(f)
	}

	root.AddCommand(
		newGenerateCmd(logger, loadCatalog),
		newSuggestCmd(logger),
		newExercisesCmd(loadCatalog),
	)
	return root
}

func newGenerateCmd(logger *slog.Logger, loadCatalog func() (*catalog.Catalog, error)) *cobra.Command {
	var (
		profilePath string
		seed        uint64
		format      string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a routine from a profile file",
		Example: `  routinegen generate --profile profile.yaml --seed 7
  routinegen generate --profile profile.json --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatJSON && format != formatMarkdown {
				return fmt.Errorf("%w: %q", errUnknownFormat, format)
			}
			var raw profile.Raw
			if err := decodeFile(profilePath, cmd.InOrStdin(), &raw); err != nil {
				return fmt.Errorf("read profile: %w", err)
			}
			c, err := loadCatalog()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			newRand := routine.EntropyRand()
			if cmd.Flags().Changed("seed") {
				newRand = routine.SeededRand(seed)
			}
			r := routine.NewGenerator(c, newRand, logger).Generate(cmd.Context(), raw)
			if format == formatMarkdown {
				_, err = io.WriteString(cmd.OutOrStdout(), r.Markdown())
				return err
			}
			return writeJSON(cmd.OutOrStdout(), document.FromValue(r))
		},
	}
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "-", "Profile file in YAML or JSON, - for stdin")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible routine")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or markdown")
	return cmd
}

// historyFile lists logged sessions per exercise name.
type historyFile struct {
	Exercises map[string][]overload.Session `yaml:"exercises"`
}

// ReadExerciseHistory implements overload.HistoryReader. The user is ignored since a file holds one user.
func (h historyFile) ReadExerciseHistory(_ context.Context, _ string, exerciseName string) ([]overload.Session, error) {
	return h.Exercises[exerciseName], nil
}

func newSuggestCmd(logger *slog.Logger) *cobra.Command {
	var (
		historyPath string
		exercises   []string
		goal        string
	)
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest the next load for exercises in a history file",
		Example: `  routinegen suggest --history history.yaml --exercise "Sentadilla con barra" --goal fuerza
  routinegen suggest --history history.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var history historyFile
			if err := decodeFile(historyPath, cmd.InOrStdin(), &history); err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			names := exercises
			if len(names) == 0 {
				for name := range history.Exercises {
					names = append(names, name)
				}
				slices.Sort(names)
			}
			svc := overload.NewService(history, logger, 1)
			recommendations := svc.SuggestForWorkout(cmd.Context(), "", names, profile.ParseGoal(goal))
			return writeJSON(cmd.OutOrStdout(), document.FromValue(recommendations))
		},
	}
	cmd.Flags().StringVar(&historyPath, "history", "-", "History file in YAML or JSON, - for stdin")
	cmd.Flags().StringArrayVarP(&exercises, "exercise", "e", nil, "Exercise name, repeatable (default: all in the file)")
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "Training goal, for example fuerza or hipertrofia")
	return cmd
}

func newExercisesCmd(loadCatalog func() (*catalog.Catalog, error)) *cobra.Command {
	var (
		muscle string
		format string
	)
	cmd := &cobra.Command{
		Use:   "exercises",
		Short: "List the exercise catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadCatalog()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			exercises := c.All()
			if muscle != "" {
				mg := catalog.MuscleGroup(strings.ToLower(muscle))
				if !mg.Valid() {
					return fmt.Errorf("unknown muscle group %q", muscle)
				}
				exercises = c.ByMuscleGroup(mg)
			}
			switch format {
			case formatJSON:
				return writeJSON(cmd.OutOrStdout(), document.FromValue(exercises))
			case formatText:
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd // padding
				_, _ = fmt.Fprintln(tw, "ID\tNOMBRE\tGRUPO\tEQUIPO\tTIPO")
				for _, ex := range exercises {
					_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						ex.ID, ex.Name, ex.MuscleGroup.Label(), ex.Equipment.Label(), ex.Kind)
				}
				return tw.Flush()
			default:
				return fmt.Errorf("%w: %q", errUnknownFormat, format)
			}
		},
	}
	cmd.Flags().StringVarP(&muscle, "muscle", "m", "", "Only list exercises for this muscle group")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text or json")
	return cmd
}

// decodeFile decodes a YAML or JSON document from path, or from stdin when path is "-".
func decodeFile(path string, stdin io.Reader, dst any) error {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := yaml.NewDecoder(r).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
