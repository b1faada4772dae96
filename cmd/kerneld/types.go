package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func typesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "types", PersistentPreRunE: bootstrapInit}
	cmd.AddCommand(typesPublishCmd())
	return cmd
}

func typesPublishCmd() *cobra.Command {
	var codeID, version, publisher string
	cmd := &cobra.Command{
		Use:   "publish [type-name]",
		Short: "publish a new ADO type/version into the registry (owner-only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := kd.db.Publish(kd.cfg.ADODB.RegistryOwner, args[0], codeID, version, nil, publisher)
			if err != nil {
				return err
			}
			fmt.Printf("published %s@%s (tx=%s)\n", args[0], version, res.TxTag)
			return nil
		},
	}
	cmd.Flags().StringVar(&codeID, "code-id", "", "code id to publish under")
	cmd.Flags().StringVar(&version, "version", "", "semantic version string")
	cmd.Flags().StringVar(&publisher, "publisher", "", "publisher address receiving action fees")
	cmd.MarkFlagRequired("code-id")
	cmd.MarkFlagRequired("version")
	cmd.MarkFlagRequired("publisher")
	return cmd
}
