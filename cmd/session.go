package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/pagemark-go/internal/config"
	"github.com/eykd/pagemark-go/internal/page"
)

const configName = config.Filename

// session is the resolved project context shared by the page commands.
type session struct {
	dir    string
	cfg    config.Config
	logger *slog.Logger
	fio    ProjectIO
}

// openSession resolves --project, loads the project configuration and builds
// the logger. --log-level overrides the configured level.
func openSession(cmd *cobra.Command, fio ProjectIO, getwd func() (string, error)) (*session, error) {
	project, _ := cmd.Flags().GetString("project")
	if project == "" {
		cwd, err := getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		project = cwd
	}

	cfg, err := config.Load(project, fio.ReadFile)
	if err != nil {
		return nil, err
	}

	level := cfg.Level()
	if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
		if level, err = config.ParseLevel(flag); err != nil {
			return nil, err
		}
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	logger.Debug("project opened", "dir", project, "imageMaxBytes", cfg.ImageMaxBytes)

	return &session{dir: project, cfg: cfg, logger: logger, fio: fio}, nil
}

// pagePath maps a page id, with or without its extension, to a file path.
func (s *session) pagePath(id string) (string, error) {
	name := id
	if !strings.HasSuffix(name, page.Ext) {
		name += page.Ext
	}
	if !page.IsPageFilename(name) {
		return "", fmt.Errorf("invalid page id %q", sanitizePath(id))
	}
	return filepath.Join(s.dir, name), nil
}

// loadPage reads and parses the page with the given id.
func (s *session) loadPage(id string) (*page.Page, error) {
	path, err := s.pagePath(id)
	if err != nil {
		return nil, err
	}
	data, err := s.fio.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("page %s not found", sanitizePath(id))
	}
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	p, err := page.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if p.Repaired {
		s.logger.Warn("page body was repaired on load", "page", filepath.Base(path))
	}
	return p, nil
}

// savePage writes p into the project directory.
func (s *session) savePage(p *page.Page) error {
	data, err := page.Serialize(p)
	if err != nil {
		return err
	}
	if err := s.fio.WriteFileAtomic(filepath.Join(s.dir, p.Filename()), data); err != nil {
		return fmt.Errorf("writing %s: %w", p.Filename(), err)
	}
	return nil
}

// readInput reads the named file, or stdin when name is "-".
func readInput(cmd *cobra.Command, fio ProjectIO, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := fio.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sanitizePath(name), err)
	}
	return data, nil
}

// sanitizePath replaces control characters (runes < 0x20 or == 0x7F) with '?'
// before including user-supplied values in human-readable output.
func sanitizePath(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return '?'
		}
		return r
	}, s)
}
