package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/formdeck/formdeck/pkg/form"
	"github.com/formdeck/formdeck/pkg/tree"
)

// newCommand creates the "new" command for creating a document.
func (c *CLI) newCommand() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "new <id>",
		Short: "Create an empty document in the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.newStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			doc := form.New(title)
			doc.ID = id
			if title == "" {
				doc.Title = id
			}
			doc.Body = tree.Tree{tree.New(tree.KindForm)}

			if err := st.Put(cmd.Context(), doc); err != nil {
				return err
			}

			printSuccess("Created %s", StyleHighlight.Render(id))
			printNextStep("Open it", fmt.Sprintf("formdeck edit %s", id))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "document title (defaults to the id)")
	return cmd
}

// listCommand creates the "list" command for listing stored documents.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.newStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			sums, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(sums) == 0 {
				printInfo("No documents yet")
				printDetail("formdeck new <id> creates one")
				return nil
			}

			rows := make([][]string, len(sums))
			for i, s := range sums {
				rows[i] = []string{s.ID, s.Title, fmt.Sprintf("%d", s.Nodes), formatRelativeTime(s.UpdatedAt)}
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("ID", "Title", "Nodes", "Updated").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 0 {
						return StyleHighlight
					}
					if col >= 2 {
						return StyleDim
					}
					return StyleValue
				})

			fmt.Println(t.Render())
			return nil
		},
	}
}

// deleteCommand creates the "delete" command for removing a document.
func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.newStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess("Deleted %s", id)
			return nil
		},
	}
}

// formatRelativeTime renders t relative to now for listing output.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
