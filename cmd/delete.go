package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/memex/internal/codec"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:     "delete <ref>",
	Aliases: []string{"rm"},
	Short:   "Delete one message",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	s := mustOpen()
	defer s.close()

	target, ref, err := resolveRef(s.engine.Entries(), args[0])
	if err != nil {
		return err
	}
	if !confirm(fmt.Sprintf("Delete #%d %q", ref, codec.TextAndComment(target)), deleteYes) {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}
	exitOnErr(s.engine.DeleteOne(target.ID))
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d.\n", ref)
	return nil
}
