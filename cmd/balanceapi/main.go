// Command balanceapi is the HTTP façade entrypoint: it loads settings,
// builds one chain provider per configured network, and serves the
// /v1/balances/... routes over gin.
//
// Grounded on original_source's apps/api/src/main.rs (settings load →
// provider construction from settings → figment-configured launch),
// adapted from Rocket to gin/net-http.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/web3-fighter/balance-aggregator/internal/chain"
	"github.com/web3-fighter/balance-aggregator/internal/config"
	"github.com/web3-fighter/balance-aggregator/internal/httpapi"
	"github.com/web3-fighter/balance-aggregator/internal/jsonrpc"
	"github.com/web3-fighter/balance-aggregator/internal/provider"
	"github.com/web3-fighter/balance-aggregator/internal/provider/evm"
	"github.com/web3-fighter/balance-aggregator/internal/provider/evmbase"
	"github.com/web3-fighter/balance-aggregator/internal/provider/solana"
	"github.com/web3-fighter/balance-aggregator/internal/provider/svmbase"
	"github.com/web3-fighter/balance-aggregator/internal/tracing"
	"github.com/web3-fighter/balance-aggregator/internal/transport"
)

func main() {
	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "balanceapi: %s\n", err)
		os.Exit(1)
	}

	logger, err := tracing.New(settings.Tracing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "balanceapi: tracing: %s\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	registry, err := buildRegistry(settings)
	if err != nil {
		logger.Fatalw("building provider registry", "error", err)
	}

	router := httpapi.NewRouter(httpapi.NewBalanceHandler(registry))

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	logger.Infow("balanceapi starting", "addr", addr, "chains", len(settings.Chains),
		"gomaxprocs", runtime.GOMAXPROCS(0), "go", runtime.Version(), "os", runtime.GOOS, "arch", runtime.GOARCH)

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("server exited", "error", err)
	}
}

// loadSettings loads config/{default,RUN_MODE}.<fmt> + environment,
// falling back to config.Dev()'s in-memory preset when the loaded settings
// configure no chains (for instance when no config/ directory exists).
func loadSettings() (*config.Settings, error) {
	settings, err := config.New()
	if err != nil {
		return nil, err
	}
	if len(settings.Chains) == 0 {
		settings = config.Dev()
	}
	return settings, nil
}

// buildRegistry constructs one ChainProvider per settings.Chains entry
// that names a supported chain tag, wiring the EVM chains' optional
// Ankr/explorer asset sources and Solana's dedicated client stack.
func buildRegistry(settings *config.Settings) (*provider.Registry, error) {
	var providers []provider.ChainProvider

	for tag, chainSettings := range settings.Chains {
		resolved, err := chain.Parse(tag)
		if err != nil {
			continue // unsupported chain tag in config; skip rather than fail startup
		}
		if chainSettings.URL == "" {
			continue
		}

		rpcClient := jsonrpc.New(transport.New(transport.Config{
			BaseURL: chainSettings.URL,
			RetryPolicy: transport.RetryPolicy{
				Host:       chainSettings.URL,
				MaxRetries: 3,
			},
		}))

		if resolved == chain.Solana {
			providers = append(providers, solana.New(svmbase.New(rpcClient)))
			continue
		}

		p, err := buildEVMProvider(resolved, chainSettings, rpcClient)
		if err != nil {
			return nil, fmt.Errorf("balanceapi: building %s provider: %w", resolved, err)
		}
		providers = append(providers, p)
	}

	return provider.NewRegistry(providers...), nil
}

func buildEVMProvider(resolved chain.Chain, settings config.ChainSettings, rpc *jsonrpc.Client) (*evm.Provider, error) {
	cfg := evm.Config{
		Chain:  resolved,
		Client: evmbase.New(rpc),
	}

	if settings.AnkrURL != "" {
		ankrRPC := jsonrpc.New(transport.New(transport.Config{BaseURL: settings.AnkrURL}))
		cfg.Ankr = evm.NewAnkr(ankrRPC)
	} else if settings.ExplorerURL != "" {
		explorer, err := evm.NewExplorer(settings.ExplorerURL, settings.ExplorerKey, explorerShortName(resolved, settings), 15*time.Second)
		if err != nil {
			return nil, err
		}
		cfg.Explorer = explorer
	}

	return evm.New(cfg), nil
}

// explorerShortName resolves the etherscan-family chain short name,
// honoring an explicit override before falling back to the well-known
// per-chain default.
func explorerShortName(c chain.Chain, settings config.ChainSettings) string {
	if settings.ExplorerShort != "" {
		return settings.ExplorerShort
	}
	switch c {
	case chain.Ethereum:
		return "ETH"
	case chain.SmartChain:
		return "BSC"
	case chain.Arbitrum:
		return "ARBITRUM"
	case chain.Polygon:
		return "MATIC"
	default:
		return ""
	}
}
