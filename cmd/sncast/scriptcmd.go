package main

import (
	"fmt"

	"github.com/NethermindEth/sncast/clients/provider"
	"github.com/NethermindEth/sncast/script"
	"github.com/spf13/cobra"
)

func newScriptCmd(flags *globalFlags) *cobra.Command {
	scriptCmd := &cobra.Command{
		Use:   "script",
		Short: "Execute deployment scripts.",
	}

	runCmd := &cobra.Command{
		Use:   "run <path>",
		Short: "Run a script file of ordered contract calls.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			log, err := flags.logger()
			if err != nil {
				return err
			}

			steps, err := script.LoadFile(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client := provider.NewClient(cfg.URL, log)
			sender, err := resolveSender(ctx, client, cfg)
			if err != nil {
				return err
			}
			runner := script.NewRunner(client, sender, cfg.WaitParams, log)

			fmt.Fprintln(cmd.OutOrStdout(), "command: script")
			if err := runner.Run(ctx, steps); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "status: failure")
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status: success")
			return nil
		},
	}

	scriptCmd.AddCommand(runCmd)
	return scriptCmd
}
