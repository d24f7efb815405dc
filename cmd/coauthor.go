package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"gitmob/internal/coauthor"
	"gitmob/internal/config"
	"gitmob/internal/ui"
)

// Coauthor is one invocation of the coauthor command. Each field is
// independently optional and any combination may be requested.
type Coauthor struct {
	// Add holds key, name and email when an add was requested.
	Add []string
	// Delete is the key to delete; empty means no delete.
	Delete string
	// List requests a full listing.
	List bool
}

// Handle runs the requested operations in the order delete, list, add.
// A delete of an unknown key is reported on errOut and does not stop the
// remaining operations. Repository failures abort and are returned.
func (c *Coauthor) Handle(ctx context.Context, repo coauthor.Repository, out, errOut io.Writer) error {
	if c.Delete != "" {
		_, found, err := repo.Get(ctx, c.Delete)
		if err != nil {
			return fmt.Errorf("failed to look up co-author: %w", err)
		}
		if found {
			if err := repo.Remove(ctx, c.Delete); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(errOut, ui.ErrorText(errOut, "No co-author found with key: "+c.Delete))
		}
	}

	if c.List {
		coauthors, err := repo.List(ctx, true)
		if err != nil {
			return fmt.Errorf("failed to list co-authors: %w", err)
		}
		if len(coauthors) > 0 {
			fmt.Fprintln(out, strings.Join(coauthors, "\n"))
		}
	}

	if len(c.Add) == 3 {
		key, name, email := c.Add[0], c.Add[1], c.Add[2]
		identity := coauthor.FormatIdentity(name, email)
		if err := repo.Add(ctx, key, identity); err != nil {
			return err
		}
		fmt.Fprintln(out, identity)
	}

	return nil
}

type coauthorOptions struct {
	root   *rootOptions
	add    bool
	delete string
	list   bool
}

func newCoauthorCmd(root *rootOptions) *cobra.Command {
	opts := &coauthorOptions{root: root}

	cmd := &cobra.Command{
		Use:     "coauthor",
		Aliases: []string{"co-author"},
		Short:   "Add, delete or list co-authors",
		Long: `Manage the co-author directory used to credit the people you work with.

Each co-author is identified by a short key and stored as "Name <email>".
The flags can be combined; they run in the order delete, list, add.

Examples:
  # Add a co-author
  git mob coauthor --add lm "Leo Messi" leo.messi@example.com

  # Remove a co-author
  git mob coauthor --delete lm

  # List co-authors with their keys
  git mob coauthor --list`,
		Args: opts.validateArgs,
		RunE: opts.run,
	}

	cmd.Flags().BoolVarP(&opts.add, "add", "a", false, "add a co-author: takes COAUTHOR_KEY COAUTHOR_NAME COAUTHOR_EMAIL")
	cmd.Flags().StringVarP(&opts.delete, "delete", "d", "", "remove the co-author with `COAUTHOR_KEY`")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "list co-authors with their keys")

	return cmd
}

func (o *coauthorOptions) validateArgs(cmd *cobra.Command, args []string) error {
	if o.add && len(args) != 3 {
		return fmt.Errorf("--add requires exactly 3 values (COAUTHOR_KEY COAUTHOR_NAME COAUTHOR_EMAIL), got %d", len(args))
	}
	if !o.add && len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}
	if cmd.Flags().Changed("delete") && o.delete == "" {
		return fmt.Errorf("--delete requires a non-empty COAUTHOR_KEY")
	}
	if o.add && args[0] == "" {
		return fmt.Errorf("--add requires a non-empty COAUTHOR_KEY")
	}
	return nil
}

func (o *coauthorOptions) run(cmd *cobra.Command, args []string) error {
	if !o.add && o.delete == "" && !o.list {
		return cmd.Help()
	}

	cfg, err := config.Load(config.ResolvePath(o.root.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	c := &Coauthor{Delete: o.delete, List: o.list}
	if o.add {
		c.Add = args
	}

	return c.Handle(cmd.Context(), repo, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
