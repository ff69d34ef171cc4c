package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"millgen/pkg/cfg"
	"millgen/pkg/gcode"
	"millgen/pkg/job"
	"millgen/pkg/toolpath"
)

type app struct {
	configPath string
	verbose    bool
	settings   cfg.Settings
	log        *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "millgen",
		Short:         "Generate 2.5D milling G-code from shape descriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = log.New(cmd.ErrOrStderr(), "", 0)
			settings, err := cfg.Load(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			a.settings = settings
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./millgen.yaml or $HOME/.config/millgen/millgen.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log every operation")
	flags.Float64("tool-diameter", cfg.ToolDiameter, "default tool diameter in mm")
	flags.Float64("feed-rate", cfg.FeedRate, "default feed rate in mm/min")
	flags.Float64("z-feed-rate", cfg.ZFeedRate, "default plunge rate in mm/min")
	flags.Float64("safety-z", cfg.SafetyZ, "default safety height in mm")
	flags.Float64("step-z", cfg.StepZ, "default depth per pass in mm (negative)")
	flags.String("output-dir", cfg.OutputDir, "directory for generated programs")

	root.AddCommand(a.generateCmd(), a.plateCmd(), a.heightsCmd())
	return root
}

func (a *app) generateCmd() *cobra.Command {
	var stdout bool
	cmd := &cobra.Command{
		Use:   "generate job.yaml...",
		Short: "Write the program of each job file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				j, err := job.ReadFile(path)
				if err != nil {
					return err
				}
				if stdout {
					if err := a.generate(j, cmd.OutOrStdout()); err != nil {
						return err
					}
					continue
				}
				if err := a.write(j); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write programs to standard output instead of files")
	return cmd
}

func (a *app) plateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plate",
		Short: "Write the two programs of the example plate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, j := range job.Plate() {
				if err := a.write(j); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) heightsCmd() *cobra.Command {
	var from, to, step float64
	cmd := &cobra.Command{
		Use:   "heights",
		Short: "Print the Z levels of a multi-pass cut",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("step") {
				step = a.settings.StepZ
			}
			heights, err := toolpath.Heights(gcode.V(from), gcode.V(to), gcode.V(step))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, h := range heights {
				if _, err := io.WriteString(out, gcode.FormatNumber(h)+"\n"); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&from, "from", 0, "starting height in mm")
	cmd.Flags().Float64Var(&to, "to", 0, "final depth in mm")
	cmd.Flags().Float64Var(&step, "step", 0, "depth per pass in mm (default step_z)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// render builds the complete program for j.
func (a *app) render(j job.Job) (gcode.Block, error) {
	blocks, err := job.Build(j, a.settings)
	if err != nil {
		return nil, xerrors.Errorf("job %s: %w", j.Name, err)
	}
	if a.verbose {
		for i, block := range blocks {
			a.log.Printf("%s: block %d: %d lines", j.Name, i, len(block))
		}
	}
	return gcode.Program(blocks...), nil
}

// generate renders j to w.
func (a *app) generate(j job.Job, w io.Writer) error {
	program, err := a.render(j)
	if err != nil {
		return err
	}
	_, err = program.WriteTo(w)
	return err
}

// write renders j into its file in the output directory. The program is
// written to a temporary file first, so an existing file is only replaced
// by a complete program.
func (a *app) write(j job.Job) error {
	if strings.TrimSpace(j.Name) == "" {
		return xerrors.Errorf("%w: job has no name", job.ErrInvalidJob)
	}
	program, err := a.render(j)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.settings.OutputDir, 0o755); err != nil {
		return err
	}
	path, err := job.OutputPath(a.settings.OutputDir, j.Name)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	if _, err := program.WriteTo(f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		os.Remove(f.Name())
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return err
	}
	a.log.Printf("wrote %s", filepath.Base(path))
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("millgen: %s", err)
	}
}
