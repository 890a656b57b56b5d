package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/cellscope/internal/config"
	"github.com/rshade/cellscope/internal/scenario"
)

// NewConfigInitCmd creates the config init command. Inside a project (a
// .cellscope directory was found or --project-dir was given) it writes the
// project config and a .gitignore; otherwise, or with --global, it writes
// the user config.
func NewConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Inside a project, creates $PROJECT/.cellscope/config.yaml with a .gitignore
that keeps the local cache and logs out of version control. Use --global to
initialize the user configuration even inside a project.`,
		Example: `  # Create project-local configuration
  cellscope config init --project-dir .

  # Create user configuration
  cellscope config init --global

  # Overwrite an existing file
  cellscope config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := sessionFrom(cmd.Context())
			if sess.projectDir != "" && !global {
				return initProjectConfig(cmd, sess.projectDir, force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "initialize the user configuration even inside a project")
	return cmd
}

func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, config.FileName)
	if err := checkWritable(configPath, force); err != nil {
		return err
	}
	if err := config.New().Save(configPath); err != nil {
		return fmt.Errorf("failed to save project config: %w", err)
	}

	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", configPath)
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", filepath.Join(projectDir, ".gitignore"))
	}
	return nil
}

func initGlobalConfig(cmd *cobra.Command, force bool) error {
	if _, err := config.EnsureConfigDir(); err != nil {
		return err
	}
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if err := checkWritable(configPath, force); err != nil {
		return err
	}
	if err := config.New().Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", configPath)
	return nil
}

func checkWritable(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after files, environment and flags.
func NewConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := sessionFrom(cmd.Context()).cfg
			switch format {
			case config.FormatJSON:
				return writeJSON(cmd.OutOrStdout(), cfg)
			case config.FormatYAML:
				return writeYAML(cmd.OutOrStdout(), cfg)
			}
			return fmt.Errorf("%w: config show supports yaml or json, got %q",
				scenario.ErrInvalidConfiguration, format)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", config.FormatYAML, "output format: yaml or json")
	return cmd
}

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := sessionFrom(cmd.Context())
			if err := sess.cfg.Validate(); err != nil {
				return fmt.Errorf("%w:\n%w", scenario.ErrInvalidConfiguration, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			if p := sess.cfg.Path(); p != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  file: %s\n", p)
			}
			if sess.projectDir != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  project: %s\n", sess.projectDir)
			}
			return nil
		},
	}
}

// NewConfigPathCmd creates the config path command.
func NewConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print configuration file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := sessionFrom(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), sess.cfg.Path())
			if sess.projectDir != "" {
				fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(sess.projectDir, config.FileName))
			}
			return nil
		},
	}
}
