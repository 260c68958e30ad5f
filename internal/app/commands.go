package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kobzarvs/funcsep/internal/annotate"
	"github.com/kobzarvs/funcsep/internal/document"
	"github.com/kobzarvs/funcsep/internal/logger"
	"github.com/kobzarvs/funcsep/internal/navigate"
	"github.com/kobzarvs/funcsep/internal/scope"
	"github.com/kobzarvs/funcsep/internal/session"
	"github.com/kobzarvs/funcsep/internal/view"
)

var ErrNoBanner = errors.New("no banner found")

var annotateHelp = map[annotate.Action][2]string{
	annotate.Insert: {"Add banners above functions", `Insert a banner above every function tall enough to qualify. Functions that
already carry a banner are left alone, so running insert twice changes nothing.`},
	annotate.Remove: {"Remove banners and restore blank lines", `Remove every banner and put back the blank lines it replaced. Damaged banners
are deleted as a single line.`},
	annotate.Refresh: {"Rebuild banners after code changes", `Remove the existing banners and insert them again, picking up renamed
functions and the current settings.`},
}

func (a *App) annotateCommand(action annotate.Action) *cobra.Command {
	var (
		selections []string
		dryRun     bool
		toStdout   bool
		jobs       int
	)

	help := annotateHelp[action]
	cmd := &cobra.Command{
		Use:   action.String() + " PATH...",
		Short: help[0],
		Long: help[1] + `

Directories are searched for files in a supported language. Use --select
to limit the pass to some lines of a single file, e.g. --select 10-40.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := parseSelections(selections)
			if err != nil {
				return err
			}

			set, err := collectFiles(args, a.registry, a.cfg.Files.Exclude, action == annotate.Remove)
			if err != nil {
				return err
			}
			if len(set.Unsupported) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "funcsep: language not supported, skipped: %s\n",
					strings.Join(set.Unsupported, ", "))
			}
			if len(sc) > 0 && len(set.Files) != 1 {
				return fmt.Errorf("--select needs exactly one file, got %d", len(set.Files))
			}
			if toStdout && len(set.Files) != 1 {
				return fmt.Errorf("--stdout needs exactly one file, got %d", len(set.Files))
			}

			ann := annotate.New(a.engine, a.cfg.Separator, annotate.Options{DryRun: dryRun || toStdout})
			results := make([]annotate.Result, len(set.Files))
			errs := make([]error, len(set.Files))

			var g errgroup.Group
			g.SetLimit(max(jobs, 1))
			for i, path := range set.Files {
				i, path := i, path
				g.Go(func() error {
					results[i], errs[i] = ann.Run(cmd.Context(), action, path, sc)
					return nil
				})
			}
			_ = g.Wait()

			if toStdout {
				if errs[0] != nil {
					return fmt.Errorf("%s: %w", set.Files[0], errs[0])
				}
				_, err := io.WriteString(cmd.OutOrStdout(), results[0].Text)
				return err
			}
			return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), set.Files, results, errs, dryRun)
		},
	}

	cmd.Flags().StringArrayVar(&selections, "select", nil, "Limit to lines, e.g. 12, 10-40 or 10:4-40:0 (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing files")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the result for a single file instead of writing it")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", defaultJobs(), "Number of files processed at once")
	return cmd
}

func parseSelections(specs []string) (scope.Scope, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	sels := make([]scope.Selection, 0, len(specs))
	for _, spec := range specs {
		sel, err := scope.Parse(spec)
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	return scope.Compute(sels), nil
}

// report prints one line per file and fails when any file failed.
func report(out, errOut io.Writer, files []string, results []annotate.Result, errs []error, dryRun bool) error {
	failed := 0
	for i, path := range files {
		if err := errs[i]; err != nil {
			failed++
			fmt.Fprintf(errOut, "funcsep: %s: %v\n", path, err)
			continue
		}
		res := results[i]
		if !res.Changed {
			fmt.Fprintf(out, "%s: unchanged\n", path)
			continue
		}
		prefix := ""
		if dryRun {
			prefix = "would "
		}
		fmt.Fprintf(out, "%s: %s%s, %d removed, %d added\n", path, prefix, res.Action, res.Removed, res.Added)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func (a *App) nextCommand() *cobra.Command {
	var (
		line int
		up   bool
	)

	cmd := &cobra.Command{
		Use:   "next FILE [PATH...]",
		Short: "Print the location of the next banner",
		Long: `Print FILE:LINE of the banner after --line in FILE, or before it with --up.

When FILE has no banner in that direction and wrap-documents is enabled, the
search moves on through the other PATHs in order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current := args[0]
			data, err := os.ReadFile(current)
			if err != nil {
				return err
			}

			set, err := collectFiles(args, a.registry, a.cfg.Files.Exclude, true)
			if err != nil {
				return err
			}
			dir := navigate.Down
			if up {
				dir = navigate.Up
			}
			nav := navigate.New(fileWorkspace{files: set.Files}, a.cfg.Navigation.WrapDocuments)
			target, moved, err := nav.Next(cmd.Context(), set.Files[0], document.New(string(data)), line-1, dir)
			if err != nil {
				return err
			}
			if !moved {
				return fmt.Errorf("%w %s from line %d", ErrNoBanner, dir, line)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%d\n", target.Document, target.Line+1)
			return nil
		},
	}

	cmd.Flags().IntVarP(&line, "line", "l", 0, "Line to search from (1-based, 0 = before the first line)")
	cmd.Flags().BoolVar(&up, "up", false, "Search upwards")
	return cmd
}

func (a *App) languagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages and file types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LANGUAGE\tCOMMENT\tFILE TYPES")
			for _, id := range a.registry.IDs() {
				p, _ := a.registry.Profile(id)
				comment := p.LineComment
				if comment == "" {
					comment = strings.TrimSpace(p.OpenComment + " " + p.CloseComment)
				}
				suffixes := slices.Clone(p.Suffixes)
				slices.Sort(suffixes)
				fmt.Fprintf(w, "%s\t%s\t%s\n", id, comment, strings.Join(suffixes, " "))
			}
			return w.Flush()
		},
	}
}

func (a *App) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view PATH...",
		Short: "Browse files and jump between banners",
		Long: `Open a read-only pager over the given files.

Keys: j/k or arrows move, n/N jump to the next/previous banner, Tab switches
file, g/G go to the top/bottom, q quits.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := collectFiles(args, a.registry, a.cfg.Files.Exclude, true)
			if err != nil {
				return err
			}
			if len(set.Files) == 0 {
				return fmt.Errorf("no files to show")
			}

			sess, err := session.NewManager()
			if err != nil {
				logger.Warn("session disabled", "error", err)
				sess = nil
			}

			s, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := s.Init(); err != nil {
				return err
			}
			defer s.Fini()

			ws := fileWorkspace{files: set.Files}
			v := view.New(cmd.Context(), ws, navigate.New(ws, a.cfg.Navigation.WrapDocuments), sess, a.cfg.Separator.TabWidth)
			if err := v.Open(startFile(set.Files, sess)); err != nil {
				return err
			}
			v.Run(s)
			if sess != nil {
				return sess.Stop()
			}
			return nil
		},
	}
}

// startFile prefers the file the last session ended on when it is listed.
func startFile(files []string, sess *session.Manager) string {
	if sess != nil {
		if active := sess.ActiveFile(); active != "" {
			for _, f := range files {
				if abs, err := filepath.Abs(f); err == nil && abs == active {
					return f
				}
			}
		}
	}
	return files[0]
}
