package main

import (
	"fmt"

	"github.com/NethermindEth/sncast/clients/provider"
	"github.com/NethermindEth/sncast/core/felt"
	"github.com/NethermindEth/sncast/script"
	"github.com/spf13/cobra"
)

const (
	contractAddressF = "contract-address"
	functionF        = "function"
	calldataF        = "calldata"
	maxFeeF          = "max-fee"
	nonceF           = "nonce"
	waitF            = "wait"

	contractAddressUsage = "Address of the contract to interact with."
	functionUsage        = "Name of the function to invoke or call."
	calldataUsage        = "Arguments of the function, as felts."
	maxFeeUsage          = "Max fee for the transaction. When not used, the fee is estimated."
	nonceUsage           = "Nonce of the transaction. When not used, the pending nonce is fetched."
	waitUsage            = "Wait until the transaction is accepted."
)

func newInvokeCmd(flags *globalFlags) *cobra.Command {
	var (
		contractAddress string
		function        string
		calldata        []string
		maxFee          string
		nonce           string
		wait            bool
	)

	invokeCmd := &cobra.Command{
		Use:   "invoke",
		Short: "Invoke a contract entry point on Starknet.",
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
			req := &script.InvocationRequest{
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
			if maxFee != "" {
				if req.MaxFee, err = felt.FromString(maxFee); err != nil {
					return fmt.Errorf("max fee %q: %w", maxFee, err)
				}
			}
			if nonce != "" {
				if req.Nonce, err = felt.FromString(nonce); err != nil {
					return fmt.Errorf("nonce %q: %w", nonce, err)
				}
			}

			ctx := cmd.Context()
			client := provider.NewClient(cfg.URL, log)
			sender, err := resolveSender(ctx, client, cfg)
			if err != nil {
				return err
			}
			runner := script.NewRunner(client, sender, cfg.WaitParams, log)

			res, err := runner.Invoke(ctx, req)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "command: invoke")
			fmt.Fprintln(cmd.OutOrStdout(), "transaction_hash:", res.TransactionHash)

			if wait {
				if _, err := runner.WaitForTransaction(ctx, res.TransactionHash); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status: success")
			return nil
		},
	}

	invokeCmd.Flags().StringVar(&contractAddress, contractAddressF, "", contractAddressUsage)
	invokeCmd.Flags().StringVar(&function, functionF, "", functionUsage)
	invokeCmd.Flags().StringSliceVar(&calldata, calldataF, nil, calldataUsage)
	invokeCmd.Flags().StringVar(&maxFee, maxFeeF, "", maxFeeUsage)
	invokeCmd.Flags().StringVar(&nonce, nonceF, "", nonceUsage)
	invokeCmd.Flags().BoolVar(&wait, waitF, false, waitUsage)

	for _, required := range []string{contractAddressF, functionF} {
		if err := invokeCmd.MarkFlagRequired(required); err != nil {
			panic(err)
		}
	}

	return invokeCmd
}
