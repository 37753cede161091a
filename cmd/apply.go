package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/pagemark-go/internal/doc"
	"github.com/eykd/pagemark-go/internal/editor"
)

// applyOutput is the JSON output schema for the apply command.
type applyOutput struct {
	ID       string        `json:"id"`
	Changed  bool          `json:"changed"`
	Document *doc.Document `json:"document"`
}

func newApplyCmd(fio ProjectIO, getwd func() (string, error)) *cobra.Command {
	var script string

	cmd := &cobra.Command{
		Use:          "apply <id>",
		Short:        "Replay an intent script against a page and save the result",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")
			if script == "" {
				return fmt.Errorf("--script is required")
			}

			s, err := openSession(cmd, fio, getwd)
			if err != nil {
				return err
			}
			p, err := s.loadPage(args[0])
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, fio, script)
			if err != nil {
				return err
			}
			intents, err := editor.ParseIntents(bytes.NewReader(raw))
			if err != nil {
				return err
			}

			changed := false
			e := editor.New(p.Body,
				editor.WithLogger(s.logger),
				editor.WithImageLimit(s.cfg.ImageMaxBytes),
				editor.WithOpener(s.opener()),
				editor.WithOnChange(func(*doc.Document) { changed = true }),
			)
			if err := editor.Apply(cmd.Context(), e, intents); err != nil {
				return err
			}

			if changed {
				p.Body = e.Document()
				p.Touch()
				if err := s.savePage(p); err != nil {
					return err
				}
			}
			s.logger.Info("script applied", "id", p.ID, "intents", len(intents), "changed", changed)

			if jsonMode {
				out := applyOutput{ID: p.ID, Changed: changed, Document: e.Document()}
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(out); err != nil {
					return fmt.Errorf("encoding output: %w", err)
				}
				return nil
			}
			state := "unchanged"
			if changed {
				state = "saved"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d intents to %s (%s)\n", len(intents), p.ID, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "intent script file, or - for stdin")
	cmd.Flags().Bool("json", false, "output the resulting document as JSON")

	return cmd
}

// opener resolves image-file intents against the project directory. Names
// must stay inside the project.
func (s *session) opener() editor.Opener {
	return func(_ context.Context, name string) (io.ReadCloser, error) {
		if !filepath.IsLocal(name) {
			return nil, fmt.Errorf("image path %q escapes the project directory", sanitizePath(name))
		}
		data, err := s.fio.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}
