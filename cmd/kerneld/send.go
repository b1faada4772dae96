package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"andromeda-kernel/core"
)

func sendCmd() *cobra.Command {
	var packetFile, sender string
	cmd := &cobra.Command{
		Use:               "send",
		Short:             "dispatch an AMP packet read from a JSON file through the kernel",
		PersistentPreRunE: bootstrapInit,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(packetFile)
			if err != nil {
				return err
			}
			var pkt core.AMPPkt
			if err := json.Unmarshal(raw, &pkt); err != nil {
				return fmt.Errorf("decode packet: %w", err)
			}
			resp, err := kd.kernel.Send(context.Background(), sender, pkt)
			if err != nil {
				return err
			}
			enc, _ := json.MarshalIndent(resp, "", "  ")
			fmt.Println(string(enc))
			return nil
		},
	}
	cmd.Flags().StringVar(&packetFile, "packet", "", "path to a JSON-encoded AMPPkt")
	cmd.Flags().StringVar(&sender, "sender", "", "address of the tx signer dispatching this packet")
	cmd.MarkFlagRequired("packet")
	cmd.MarkFlagRequired("sender")
	return cmd
}
