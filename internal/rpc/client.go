package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// Reader is the narrow capability surface the measurement components
// consume. Tests substitute fixture implementations; production code uses
// *Client.
type Reader interface {
	Status(ctx context.Context) (types.ChainStatus, error)
	Block(ctx context.Context, height int64) (types.BlockInfo, error)
	BlockResults(ctx context.Context, height int64) (types.BlockResults, error)
	Validators(ctx context.Context) ([]types.ValidatorRecord, error)
	Reporters(ctx context.Context) ([]types.ReporterRecord, error)
	MinGasPrices(ctx context.Context) ([]types.DecCoin, error)
	CurrentTip(ctx context.Context, queryData string) (int64, error)
	TotalTips(ctx context.Context) (int64, error)
	AvailableTips(ctx context.Context, selectorAddress string) (int64, error)
}

// Client talks to one CometBFT RPC endpoint and one Cosmos REST (LCD)
// endpoint over plain HTTP. Every call carries a timeout and a fixed retry
// budget; exhausting the budget surfaces a *TransportError.
type Client struct {
	rpcBase    string
	restBase   string
	HTTPClient *http.Client

	attempts int
	backoff  time.Duration
}

// NewClient creates a client for the given RPC and REST base URLs.
func NewClient(rpcEndpoint, restEndpoint string) *Client {
	return &Client{
		rpcBase:  strings.TrimRight(rpcEndpoint, "/"),
		restBase: strings.TrimRight(restEndpoint, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		attempts: 3,
		backoff:  500 * time.Millisecond,
	}
}

// getJSON fetches rawURL and decodes the body into out, retrying request
// failures and 5xx responses up to the attempt budget.
func (c *Client) getJSON(ctx context.Context, op, rawURL string, out interface{}) error {
	var last *TransportError
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return &TransportError{Op: op, URL: rawURL, Err: ctx.Err()}
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return &TransportError{Op: op, URL: rawURL, Err: err}
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			last = &TransportError{Op: op, URL: rawURL, Err: err}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			last = &TransportError{
				Op:     op,
				URL:    rawURL,
				Status: resp.StatusCode,
				Err:    fmt.Errorf("%s", strings.TrimSpace(string(body))),
			}
			if resp.StatusCode < 500 {
				return last
			}
			continue
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return &TransportError{Op: op, URL: rawURL, Err: fmt.Errorf("decoding response: %w", err)}
		}
		return nil
	}
	return last
}

// Status returns the chain ID and latest block height.
func (c *Client) Status(ctx context.Context) (types.ChainStatus, error) {
	var out struct {
		Result struct {
			NodeInfo struct {
				Network string `json:"network"`
			} `json:"node_info"`
			SyncInfo struct {
				LatestBlockHeight string `json:"latest_block_height"`
			} `json:"sync_info"`
		} `json:"result"`
	}
	if err := c.getJSON(ctx, "status", c.rpcBase+"/status", &out); err != nil {
		return types.ChainStatus{}, err
	}
	height, err := strconv.ParseInt(out.Result.SyncInfo.LatestBlockHeight, 10, 64)
	if err != nil {
		return types.ChainStatus{}, &TransportError{Op: "status", Err: fmt.Errorf("parsing height: %w", err)}
	}
	return types.ChainStatus{
		ChainID:      out.Result.NodeInfo.Network,
		LatestHeight: height,
	}, nil
}

// Block returns the header height, header time and transaction count of
// one block.
func (c *Client) Block(ctx context.Context, height int64) (types.BlockInfo, error) {
	var out struct {
		Result struct {
			Block struct {
				Header struct {
					Height string    `json:"height"`
					Time   time.Time `json:"time"`
				} `json:"header"`
				Data struct {
					Txs []string `json:"txs"`
				} `json:"data"`
			} `json:"block"`
		} `json:"result"`
	}
	u := fmt.Sprintf("%s/block?height=%d", c.rpcBase, height)
	if err := c.getJSON(ctx, "block", u, &out); err != nil {
		return types.BlockInfo{}, err
	}
	h, err := strconv.ParseInt(out.Result.Block.Header.Height, 10, 64)
	if err != nil {
		return types.BlockInfo{}, &TransportError{Op: "block", Err: fmt.Errorf("parsing height: %w", err)}
	}
	return types.BlockInfo{
		Height:  h,
		Time:    out.Result.Block.Header.Time,
		TxCount: len(out.Result.Block.Data.Txs),
	}, nil
}

// BlockResults returns the block-level events and per-transaction results
// for one height. Begin/end-block and finalize events are merged into one
// event list.
func (c *Client) BlockResults(ctx context.Context, height int64) (types.BlockResults, error) {
	var out struct {
		Result struct {
			Height              string           `json:"height"`
			TxsResults          []types.TxResult `json:"txs_results"`
			FinalizeBlockEvents []types.Event    `json:"finalize_block_events"`
			BeginBlockEvents    []types.Event    `json:"begin_block_events"`
			EndBlockEvents      []types.Event    `json:"end_block_events"`
		} `json:"result"`
	}
	u := fmt.Sprintf("%s/block_results?height=%d", c.rpcBase, height)
	if err := c.getJSON(ctx, "block_results", u, &out); err != nil {
		return types.BlockResults{}, err
	}

	events := make([]types.Event, 0, len(out.Result.FinalizeBlockEvents)+len(out.Result.BeginBlockEvents)+len(out.Result.EndBlockEvents))
	events = append(events, out.Result.BeginBlockEvents...)
	events = append(events, out.Result.FinalizeBlockEvents...)
	events = append(events, out.Result.EndBlockEvents...)

	return types.BlockResults{
		Height:    height,
		Events:    events,
		TxResults: out.Result.TxsResults,
	}, nil
}

// Validators lists the validator set from the staking module.
func (c *Client) Validators(ctx context.Context) ([]types.ValidatorRecord, error) {
	var out struct {
		Validators []struct {
			OperatorAddress string `json:"operator_address"`
			Tokens          string `json:"tokens"`
			Status          string `json:"status"`
			Jailed          bool   `json:"jailed"`
			Commission      struct {
				CommissionRates struct {
					Rate string `json:"rate"`
				} `json:"commission_rates"`
			} `json:"commission"`
		} `json:"validators"`
	}
	u := c.restBase + "/cosmos/staking/v1beta1/validators?pagination.limit=1000"
	if err := c.getJSON(ctx, "validators", u, &out); err != nil {
		return nil, err
	}

	records := make([]types.ValidatorRecord, 0, len(out.Validators))
	for _, v := range out.Validators {
		tokens, err := strconv.ParseInt(v.Tokens, 10, 64)
		if err != nil {
			return nil, &TransportError{Op: "validators", Err: fmt.Errorf("parsing tokens for %s: %w", v.OperatorAddress, err)}
		}
		rate, _ := strconv.ParseFloat(v.Commission.CommissionRates.Rate, 64)
		records = append(records, types.ValidatorRecord{
			Address:        v.OperatorAddress,
			Tokens:         tokens,
			Status:         bondStatus(v.Status, v.Jailed),
			CommissionRate: rate,
		})
	}
	return records, nil
}

func bondStatus(status string, jailed bool) types.BondStatus {
	if jailed {
		return types.StatusJailed
	}
	switch status {
	case "BOND_STATUS_BONDED":
		return types.StatusBonded
	case "BOND_STATUS_UNBONDING":
		return types.StatusUnbonding
	default:
		return types.StatusUnbonded
	}
}

// Reporters lists the oracle reporter set. Reporter power arrives in whole
// TRB and is normalized to loya here so power and validator tokens share
// units downstream. Commission rates arrive as 18-decimal fixed-point
// strings.
func (c *Client) Reporters(ctx context.Context) ([]types.ReporterRecord, error) {
	var out struct {
		Reporters []struct {
			Address  string `json:"address"`
			Power    string `json:"power"`
			Metadata struct {
				Moniker        string `json:"moniker"`
				CommissionRate string `json:"commission_rate"`
				Jailed         bool   `json:"jailed"`
			} `json:"metadata"`
		} `json:"reporters"`
	}
	u := c.restBase + "/tellor-io/layer/reporter/reporters"
	if err := c.getJSON(ctx, "reporters", u, &out); err != nil {
		return nil, err
	}

	records := make([]types.ReporterRecord, 0, len(out.Reporters))
	for _, r := range out.Reporters {
		// Some reporters come back with no power field at all; treat those
		// as zero power rather than dropping the record.
		power, _ := strconv.ParseInt(r.Power, 10, 64)

		status := types.ReporterInactive
		if r.Metadata.Jailed {
			status = types.ReporterJailed
		} else if power > 0 {
			status = types.ReporterActive
		}

		records = append(records, types.ReporterRecord{
			SelectorAddress: r.Address,
			Moniker:         r.Metadata.Moniker,
			Power:           power * types.LoyaPerTRB,
			Status:          status,
			CommissionRate:  parseFixedPointRate(r.Metadata.CommissionRate),
		})
	}
	return records, nil
}

// parseFixedPointRate converts an 18-decimal fixed-point rate string
// ("250000000000000000" == 0.25) to a float in [0, 1].
func parseFixedPointRate(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / 1e18
}

// MinGasPrices returns the minimum gas prices from the globalfee module.
func (c *Client) MinGasPrices(ctx context.Context) ([]types.DecCoin, error) {
	var out struct {
		MinimumGasPrices []struct {
			Denom  string `json:"denom"`
			Amount string `json:"amount"`
		} `json:"minimum_gas_prices"`
	}
	u := c.restBase + "/cosmos/globalfee/v1beta1/minimum_gas_prices"
	if err := c.getJSON(ctx, "min_gas_prices", u, &out); err != nil {
		return nil, err
	}

	coins := make([]types.DecCoin, 0, len(out.MinimumGasPrices))
	for _, p := range out.MinimumGasPrices {
		amount, err := strconv.ParseFloat(p.Amount, 64)
		if err != nil {
			return nil, &TransportError{Op: "min_gas_prices", Err: fmt.Errorf("parsing amount %q: %w", p.Amount, err)}
		}
		coins = append(coins, types.DecCoin{Denom: p.Denom, Amount: amount})
	}
	return coins, nil
}

// CurrentTip returns the outstanding tip in loya for one query feed.
func (c *Client) CurrentTip(ctx context.Context, queryData string) (int64, error) {
	var out struct {
		Tips string `json:"tips"`
	}
	u := c.restBase + "/tellor-io/layer/oracle/get_current_tip?query_data=" + url.QueryEscape(queryData)
	if err := c.getJSON(ctx, "current_tip", u, &out); err != nil {
		return 0, err
	}
	tip, err := strconv.ParseInt(out.Tips, 10, 64)
	if err != nil {
		return 0, &TransportError{Op: "current_tip", Err: fmt.Errorf("parsing tip %q: %w", out.Tips, err)}
	}
	return tip, nil
}

// TotalTips returns the cumulative tips paid on the chain, in loya.
func (c *Client) TotalTips(ctx context.Context) (int64, error) {
	var out struct {
		TotalTips string `json:"total_tips"`
	}
	u := c.restBase + "/tellor-io/layer/oracle/get_total_tips"
	if err := c.getJSON(ctx, "total_tips", u, &out); err != nil {
		return 0, err
	}
	total, err := strconv.ParseInt(out.TotalTips, 10, 64)
	if err != nil {
		return 0, &TransportError{Op: "total_tips", Err: fmt.Errorf("parsing total tips %q: %w", out.TotalTips, err)}
	}
	return total, nil
}

// AvailableTips returns the claimable reporting rewards in loya for one
// selector account.
func (c *Client) AvailableTips(ctx context.Context, selectorAddress string) (int64, error) {
	var out struct {
		AvailableTips string `json:"available_tips"`
	}
	u := c.restBase + "/tellor-io/layer/reporter/available-tips?selector_address=" + url.QueryEscape(selectorAddress)
	if err := c.getJSON(ctx, "available_tips", u, &out); err != nil {
		return 0, err
	}
	// The module returns a decimal string; keep integer loya.
	v, err := strconv.ParseFloat(out.AvailableTips, 64)
	if err != nil {
		return 0, &TransportError{Op: "available_tips", Err: fmt.Errorf("parsing tips %q: %w", out.AvailableTips, err)}
	}
	return int64(v), nil
}
