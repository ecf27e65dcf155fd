package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inamate/inamate/board-go/internal/auth"
)

var passcodeCmd = &cobra.Command{
	Use:   "hash-passcode <passcode>",
	Short: "Print the ACCESS_PASSCODE_HASH value for a passcode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPasscode(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(passcodeCmd)
}
