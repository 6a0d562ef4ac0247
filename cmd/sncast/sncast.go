package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/NethermindEth/sncast/clients/provider"
	"github.com/NethermindEth/sncast/config"
	"github.com/NethermindEth/sncast/core/felt"
	"github.com/NethermindEth/sncast/utils"
	"github.com/spf13/cobra"
)

var Version string

const (
	urlF          = "url"
	accountF      = "account"
	accountsFileF = "accounts-file"
	manifestF     = "path-to-snfoundry-toml"
	profileF      = "profile"
	verbosityF    = "verbosity"

	defaultManifest = "snfoundry.toml"

	urlUsage          = "RPC provider url address."
	accountUsage      = "Account to be used; an address or a name from the accounts file."
	accountsFileUsage = "Path to the file holding accounts info."
	manifestUsage     = "Path to the snfoundry.toml manifest. Defaults to snfoundry.toml in the working directory."
	profileUsage      = "Profile name in the snfoundry.toml manifest."
	verbosityUsage    = "Verbosity of the logs. Options: debug, info, warn, error."
)

type globalFlags struct {
	url          string
	account      string
	accountsFile string
	manifest     string
	profile      string
	verbosity    utils.LogLevel
}

func NewCmd() *cobra.Command {
	flags := &globalFlags{verbosity: utils.INFO}

	sncastCmd := &cobra.Command{
		Use:           "sncast",
		Short:         "Starknet contract interaction tool.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	sncastCmd.PersistentFlags().StringVar(&flags.url, urlF, "", urlUsage)
	sncastCmd.PersistentFlags().StringVar(&flags.account, accountF, "", accountUsage)
	sncastCmd.PersistentFlags().StringVar(&flags.accountsFile, accountsFileF, "", accountsFileUsage)
	sncastCmd.PersistentFlags().StringVar(&flags.manifest, manifestF, "", manifestUsage)
	sncastCmd.PersistentFlags().StringVar(&flags.profile, profileF, "", profileUsage)
	sncastCmd.PersistentFlags().Var(&flags.verbosity, verbosityF, verbosityUsage)

	sncastCmd.AddCommand(newInvokeCmd(flags))
	sncastCmd.AddCommand(newCallCmd(flags))
	sncastCmd.AddCommand(newScriptCmd(flags))

	return sncastCmd
}

// loadConfig merges the manifest profile with CLI flags; flags win.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg := config.Default()

	manifest := f.manifest
	if manifest == "" {
		if _, err := os.Stat(defaultManifest); err == nil {
			manifest = defaultManifest
		}
	}
	if manifest != "" {
		loaded, err := config.Load(manifest, f.profile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if f.profile != "" {
		return nil, fmt.Errorf("profile %q given but no %s manifest found", f.profile, defaultManifest)
	}

	if f.url != "" {
		cfg.URL = f.url
	}
	if f.account != "" {
		cfg.Account = f.account
	}
	if f.accountsFile != "" {
		cfg.AccountsFile = f.accountsFile
	}

	if cfg.URL == "" {
		return nil, config.ErrMissingURL
	}
	return cfg, nil
}

func (f *globalFlags) logger() (utils.SimpleLogger, error) {
	return utils.NewZapLogger(f.verbosity, true)
}

// resolveSender turns the configured account into a sender address. A hex
// account is used directly; anything else is looked up by name in the
// accounts file for the network the node reports.
func resolveSender(ctx context.Context, client *provider.Client, cfg *config.Config) (*felt.Address, error) {
	if cfg.Account == "" {
		return nil, config.ErrMissingAccount
	}

	if address, err := felt.AddressFromString(cfg.Account); err == nil {
		return address, nil
	} else if errors.Is(err, felt.ErrAddressOutOfRange) {
		return nil, err
	}

	if cfg.AccountsFile == "" {
		return nil, fmt.Errorf("account %q is not an address and no accounts file was given", cfg.Account)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	network, err := config.NetworkFromChainID(chainID)
	if err != nil {
		return nil, err
	}

	account, err := config.LoadAccount(cfg.AccountsFile, cfg.Account, network)
	if err != nil {
		return nil, err
	}
	return account.Address, nil
}
