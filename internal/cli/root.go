// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/bib/internal/config"
	"github.com/aidanlsb/bib/internal/ui"
)

var (
	// Global flags
	repoPathFlag   string
	configPathFlag string

	// Resolved values
	resolvedRepoPath string
	cfg              *config.Config
	settings         *config.Settings
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bib",
	Short: "bib - A markdown bibliography manager",
	Long: `bib manages a bibliography as plain markdown: an index of pipe tables,
one page per reference, and bibtex blocks kept in sync with scholarly
metadata from DBLP, arXiv, and Semantic Scholar.

The markdown files are the source of truth; edit them freely and bib will
work with what it finds.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip repository resolution for commands that don't need it
		switch cmd.Name() {
		case "init", "completion", "help", "version", "docs":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = loadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		// Resolve repo path: explicit flag > nearest repo above cwd > default
		// from global config
		if repoPathFlag != "" {
			resolvedRepoPath = repoPathFlag
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to determine working directory: %w", err)
			}
			resolvedRepoPath, err = config.FindRepo(cwd)
			if err != nil {
				if !errors.Is(err, config.ErrNotRepository) {
					return err
				}
				if cfg.DefaultRepo == "" {
					return fmt.Errorf(`no bib repository found

Either:
  1. Run 'bib init' to create one here
  2. Use --repo /path/to/repo
  3. Set default_repo in ~/.config/bib/config.toml`)
				}
				resolvedRepoPath = cfg.DefaultRepo
			}
		}

		settings, err = config.LoadSettings(resolvedRepoPath)
		if err != nil {
			if errors.Is(err, config.ErrNotRepository) {
				return fmt.Errorf("not a bib repository: %s\n\nRun 'bib init' to create one", resolvedRepoPath)
			}
			return err
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&repoPathFlag, "repo", "", "Path to the bibliography repository")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to global config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getRepoPath returns the resolved repository path.
func getRepoPath() string {
	return resolvedRepoPath
}

func loadGlobalConfig() (*config.Config, error) {
	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPathFlag) != "" {
		loadedCfg, err = config.LoadFrom(configPathFlag)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}
	return loadedCfg, nil
}
