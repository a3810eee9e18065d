package eth

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"go.uber.org/zap"
)

const erc20ABIJSON = `[
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"}
]`

const rewardABIJSON = `[
	{"inputs":[{"name":"to","type":"address"},{"name":"id","type":"uint256"},{"name":"amount","type":"uint256"},{"name":"data","type":"bytes"}],"name":"mint","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

// Gateway is the chain client: balance and block reads plus reward minting.
// It is constructed once in main and injected; nothing here is process-global.
type Gateway struct {
	client     *ethclient.Client
	chainID    *big.Int
	provider   string
	contract   common.Address
	minterKey  *ecdsa.PrivateKey
	minterAddr common.Address
	erc20ABI   abi.ABI
	rewardABI  abi.ABI
	log        *zap.Logger
}

type GatewayConfig struct {
	ProviderURL     string
	ChainID         int64
	ContractAddress string // ERC-1155 reward contract
	MinterKeyHex    string // backend signer; empty disables minting
}

func NewGateway(ctx context.Context, cfg GatewayConfig, log *zap.Logger) (*Gateway, error) {
	client, err := ethclient.DialContext(ctx, cfg.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.ProviderURL, err)
	}

	erc20, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	reward, err := abi.JSON(strings.NewReader(rewardABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse reward abi: %w", err)
	}

	g := &Gateway{
		client:    client,
		chainID:   big.NewInt(cfg.ChainID),
		provider:  cfg.ProviderURL,
		contract:  common.HexToAddress(cfg.ContractAddress),
		erc20ABI:  erc20,
		rewardABI: reward,
		log:       log,
	}

	if cfg.MinterKeyHex != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.MinterKeyHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse minter key: %w", err)
		}
		g.minterKey = key
		g.minterAddr = crypto.PubkeyToAddress(key.PublicKey)
	}

	return g, nil
}

func (g *Gateway) Close() {
	g.client.Close()
}

// Connected probes the RPC endpoint.
func (g *Gateway) Connected(ctx context.Context) bool {
	_, err := g.client.ChainID(ctx)
	return err == nil
}

type ChainInfo struct {
	ChainID     int64  `json:"chain_id"`
	BlockNumber uint64 `json:"block_number"`
	Provider    string `json:"provider"`
}

func (g *Gateway) ChainInfo(ctx context.Context) (*ChainInfo, error) {
	id, err := g.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	num, err := g.client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("block number: %w", err)
	}
	return &ChainInfo{ChainID: id.Int64(), BlockNumber: num, Provider: g.provider}, nil
}

// Balance returns the native balance of address in ether units.
func (g *Gateway) Balance(ctx context.Context, address string) (*big.Float, error) {
	wei, err := g.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", address, err)
	}
	return new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether)), nil
}

type GasInfo struct {
	GasPriceWei  string `json:"gas_price_wei"`
	GasPriceGwei string `json:"gas_price_gwei"`
	BlockNumber  uint64 `json:"block_number"`
}

func (g *Gateway) Gas(ctx context.Context) (*GasInfo, error) {
	price, err := g.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("gas price: %w", err)
	}
	num, err := g.client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("block number: %w", err)
	}
	gwei := new(big.Float).Quo(new(big.Float).SetInt(price), big.NewFloat(params.GWei))
	return &GasInfo{
		GasPriceWei:  price.String(),
		GasPriceGwei: gwei.Text('f', 3),
		BlockNumber:  num,
	}, nil
}

type BlockInfo struct {
	BlockNumber uint64 `json:"block_number"`
	Timestamp   uint64 `json:"timestamp"`
	Hash        string `json:"hash"`
	TxCount     int    `json:"tx_count"`
}

func (g *Gateway) LatestBlock(ctx context.Context) (*BlockInfo, error) {
	block, err := g.client.BlockByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("latest block: %w", err)
	}
	return &BlockInfo{
		BlockNumber: block.NumberU64(),
		Timestamp:   block.Time(),
		Hash:        block.Hash().Hex(),
		TxCount:     len(block.Transactions()),
	}, nil
}

type TokenBalance struct {
	Token    string  `json:"token"`
	Balance  float64 `json:"balance"`
	Decimals uint8   `json:"decimals"`
	Wallet   string  `json:"wallet"`
}

// TokenBalanceOf reads an ERC-20 balance, decimals and symbol for wallet.
func (g *Gateway) TokenBalanceOf(ctx context.Context, tokenAddress, wallet string) (*TokenBalance, error) {
	token := common.HexToAddress(tokenAddress)
	owner := common.HexToAddress(wallet)

	raw, err := g.callContract(ctx, token, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	balance := raw[0].(*big.Int)

	raw, err = g.callContract(ctx, token, "decimals")
	if err != nil {
		return nil, err
	}
	decimals := raw[0].(uint8)

	raw, err = g.callContract(ctx, token, "symbol")
	if err != nil {
		return nil, err
	}
	symbol := raw[0].(string)

	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	readable, _ := new(big.Float).Quo(new(big.Float).SetInt(balance), scale).Float64()

	return &TokenBalance{Token: symbol, Balance: readable, Decimals: decimals, Wallet: wallet}, nil
}

func (g *Gateway) callContract(ctx context.Context, to common.Address, method string, args ...any) ([]any, error) {
	data, err := g.erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	out, err := g.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	res, err := g.erc20ABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return res, nil
}

// MintPoints mints `amount` units of the ERC-1155 reward token `tokenID`
// to wallet and returns the broadcast transaction hash. The caller owns
// claimed-flag bookkeeping; this only talks to the chain.
func (g *Gateway) MintPoints(ctx context.Context, wallet string, tokenID, amount int64) (string, error) {
	if g.minterKey == nil {
		return "", fmt.Errorf("minter key not configured")
	}

	data, err := g.rewardABI.Pack("mint",
		common.HexToAddress(wallet), big.NewInt(tokenID), big.NewInt(amount), []byte{})
	if err != nil {
		return "", fmt.Errorf("pack mint: %w", err)
	}

	nonce, err := g.client.PendingNonceAt(ctx, g.minterAddr)
	if err != nil {
		return "", fmt.Errorf("pending nonce: %w", err)
	}
	gasPrice, err := g.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("gas price: %w", err)
	}

	gasLimit, err := g.client.EstimateGas(ctx, ethereum.CallMsg{
		From: g.minterAddr,
		To:   &g.contract,
		Data: data,
	})
	if err != nil {
		// Estimation fails on some RPC providers for state-changing calls.
		gasLimit = 300_000
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &g.contract,
		Value:    big.NewInt(0),
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(g.chainID), g.minterKey)
	if err != nil {
		return "", fmt.Errorf("sign tx: %w", err)
	}
	if err := g.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send tx: %w", err)
	}

	g.log.Info("mint broadcast",
		zap.String("wallet", wallet),
		zap.Int64("token_id", tokenID),
		zap.Int64("amount", amount),
		zap.String("tx", signed.Hash().Hex()),
	)
	return signed.Hash().Hex(), nil
}
