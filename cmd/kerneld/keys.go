package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"andromeda-kernel/core"
)

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "keys", PersistentPreRunE: bootstrapInit}
	cmd.AddCommand(keysSetCmd(), keysGetCmd())
	return cmd
}

func keysSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [address]",
		Short: "record a well-known collaborator address (owner-only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return kd.kernel.UpsertKeyAddress(kd.cfg.Kernel.Owner, args[0], args[1])
		},
	}
}

func keysGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "look up a collaborator address recorded via keys set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := kd.kernel.KeyAddress(args[0])
			if err != nil {
				return err
			}
			fmt.Println(addr)
			return nil
		},
	}
}

func channelsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "channels", PersistentPreRunE: bootstrapInit}
	cmd.AddCommand(channelsAssignCmd())
	return cmd
}

func channelsAssignCmd() *cobra.Command {
	var chainName, execChannel, ics20Channel, remoteKernel string
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "record the IBC channel pair held open to a remote chain (owner-only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return kd.kernel.AssignChannels(kd.cfg.Kernel.Owner, core.ChannelInfo{
				ChainName:           chainName,
				DirectChannel:       execChannel,
				ICS20Channel:        ics20Channel,
				RemoteKernelAddress: remoteKernel,
			})
		},
	}
	cmd.Flags().StringVar(&chainName, "chain", "", "remote chain name")
	cmd.Flags().StringVar(&execChannel, "exec-channel", "", "AMP execute channel id")
	cmd.Flags().StringVar(&ics20Channel, "ics20-channel", "", "ICS-20 transfer channel id")
	cmd.Flags().StringVar(&remoteKernel, "remote-kernel", "", "remote kernel address")
	return cmd
}
