package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/xform/internal/app"
	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/ui/output"
	"go.trai.ch/xform/internal/ui/style"
)

func (c *CLI) newTransformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform [paths...]",
		Short: "Transform source files, reusing cached results",
		Long: "Transform files, directories or glob patterns. Directories are walked recursively.\n" +
			"Without --out a single file is printed to stdout. With --watch the progress view is off.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return domain.ErrNoInputs
			}
			outDir, _ := cmd.Flags().GetString("out")
			progress, _ := cmd.Flags().GetString("progress")
			watch, _ := cmd.Flags().GetBool("watch")

			opts := app.TransformOptions{
				LoadOptions: loadOptions(cmd),
				Inputs:      args,
				OutDir:      outDir,
				Progress:    progress,
			}
			if watch {
				return c.app.Watch(cmd.Context(), app.WatchOptions{TransformOptions: opts}, func(report *app.Report, err error) {
					if report == nil {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
						return
					}
					printReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report, false)
				})
			}

			report, err := c.app.Transform(cmd.Context(), opts)
			if report == nil {
				return err
			}

			printReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report, outDir == "")
			return err
		},
	}
	cmd.Flags().StringP("out", "o", "", "Directory receiving <file>.js and <file>.js.map")
	cmd.Flags().String("progress", "auto", "Progress display: auto, tui or plain")
	cmd.Flags().BoolP("watch", "w", false, "Transform again whenever a source file below the project root changes")
	return cmd
}

// printReport writes the code of a lone file to stdout when toStdout is set,
// and a per-file summary to stderr.
func printReport(stdout, stderr io.Writer, report *app.Report, toStdout bool) {
	out := output.New(stderr)
	check := out.String(style.Check).Foreground(out.Color(string(style.Green)))
	cross := out.String(style.Cross).Foreground(out.Color(string(style.Red)))
	dot := out.String(style.Dot).Foreground(out.Color(string(style.Slate)))

	if toStdout && len(report.Files) == 1 {
		if res := report.Files[0]; res.Err == nil && res.Artifact != nil {
			_, _ = io.WriteString(stdout, res.Artifact.Code)
		}
	}

	for _, res := range report.Files {
		if res.Err != nil {
			_, _ = fmt.Fprintf(out, "%s %s\n%s\n", cross, res.Rel, indent(fmt.Sprintf("%v", res.Err)))
			continue
		}
		line := fmt.Sprintf("%s %s", check, res.Rel)
		if res.Output != "" {
			line += " " + out.String("→ "+res.Output).Faint().String()
		}
		_, _ = fmt.Fprintln(out, line)
		for _, id := range res.Artifact.TranslationIDs() {
			_, _ = fmt.Fprintf(out, "  %s %s\n", dot, id)
		}
	}

	summary := fmt.Sprintf("%d files, %d failed", len(report.Files), report.Failed())
	_, _ = fmt.Fprintln(out, out.String(summary).Bold())
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "    " + l
		}
	}
	return strings.Join(lines, "\n")
}
