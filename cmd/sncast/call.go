package main

import (
	"fmt"

	"github.com/NethermindEth/sncast/clients/provider"
	"github.com/NethermindEth/sncast/core/felt"
	"github.com/NethermindEth/sncast/script"
	"github.com/spf13/cobra"
)

func newCallCmd(flags *globalFlags) *cobra.Command {
	var (
		contractAddress string
		function        string
		calldata        []string
	)

	callCmd := &cobra.Command{
		Use:   "call",
		Short: "Call a read-only contract entry point on Starknet.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			log, err := flags.logger()
			if err != nil {
				return err
			}

			address, err := felt.AddressFromString(contractAddress)
			if err != nil {
				return err
			}
			req := &script.CallRequest{
				ContractAddress: address,
				FunctionName:    function,
			}
			for _, input := range calldata {
				arg, err := felt.FromString(input)
				if err != nil {
					return fmt.Errorf("calldata %q: %w", input, err)
				}
				req.Calldata = append(req.Calldata, arg)
			}

			// Calls are read-only, no sender account is needed.
			client := provider.NewClient(cfg.URL, log)
			runner := script.NewRunner(client, nil, cfg.WaitParams, log)

			res, err := runner.Call(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "command: call")
			fmt.Fprintln(cmd.OutOrStdout(), "response:", res)
			fmt.Fprintln(cmd.OutOrStdout(), "status: success")
			return nil
		},
	}

	callCmd.Flags().StringVar(&contractAddress, contractAddressF, "", contractAddressUsage)
	callCmd.Flags().StringVar(&function, functionF, "", functionUsage)
	callCmd.Flags().StringSliceVar(&calldata, calldataF, nil, calldataUsage)

	for _, required := range []string{contractAddressF, functionF} {
		if err := callCmd.MarkFlagRequired(required); err != nil {
			panic(err)
		}
	}

	return callCmd
}
