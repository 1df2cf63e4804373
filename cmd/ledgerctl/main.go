package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const (
	actionStatus   = "Show status"
	actionBlocks   = "List blocks"
	actionPending  = "Show pending transactions"
	actionAddTx    = "Add transaction"
	actionMine     = "Mine block"
	actionValidate = "Validate chain"
	actionSave     = "Save ledger"
	actionQuit     = "Quit"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "Base URL of the ledger server")
	flag.Parse()

	cli := &client{
		base: *addr,
		http: &http.Client{Timeout: 5 * time.Minute},
	}

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("PoW ", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Ledger", pterm.FgDarkGray.ToStyle()),
	).Render()
	pterm.Info.Printfln("Connected to %s", cli.base)

	for {
		action, _ := pterm.DefaultInteractiveSelect.
			WithOptions([]string{
				actionStatus, actionBlocks, actionPending, actionAddTx,
				actionMine, actionValidate, actionSave, actionQuit,
			}).
			WithDefaultText("Choose an action").
			Show()
		pterm.Println()

		var err error
		switch action {
		case actionStatus:
			err = cli.showStatus()
		case actionBlocks:
			err = cli.listBlocks()
		case actionPending:
			err = cli.showPending()
		case actionAddTx:
			err = cli.addTransaction()
		case actionMine:
			err = cli.mine()
		case actionValidate:
			err = cli.validate()
		case actionSave:
			err = cli.save()
		case actionQuit:
			pterm.Info.Println("Bye")
			return
		}
		if err != nil {
			pterm.Error.Println(err)
		}
		pterm.Println()
	}
}

type client struct {
	base string
	http *http.Client
}

type statusResponse struct {
	Blocks              int     `json:"blocks"`
	PendingTransactions int     `json:"pending_transactions"`
	Difficulty          int     `json:"difficulty"`
	MiningReward        float64 `json:"mining_reward"`
}

type transactionView struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"`
}

type blockView struct {
	Index        int               `json:"index"`
	Timestamp    int64             `json:"timestamp"`
	Transactions []transactionView `json:"transactions"`
	PreviousHash string            `json:"previous_hash"`
	Nonce        int               `json:"nonce"`
	Hash         string            `json:"hash"`
}

type mineResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Result  struct {
		Block      blockView `json:"block"`
		DurationMS float64   `json:"mining_duration_ms"`
	} `json:"result"`
}

func (c *client) showStatus() error {
	var status statusResponse
	if err := c.getJSON("/api/v1/ledger/status", &status); err != nil {
		return err
	}

	box := pterm.DefaultBox.WithTitle(pterm.LightYellow("|LEDGER STATUS|")).WithTitleTopCenter()
	box.Printfln("Blocks: %d\nPending transactions: %d\nDifficulty: %d\nMining reward: %v",
		status.Blocks, status.PendingTransactions, status.Difficulty, status.MiningReward)
	return nil
}

func (c *client) listBlocks() error {
	var blocks []blockView
	if err := c.getJSON("/api/v1/ledger/blocks", &blocks); err != nil {
		return err
	}

	rows := pterm.TableData{{"Index", "Transactions", "Nonce", "Hash"}}
	for _, b := range blocks {
		rows = append(rows, []string{
			strconv.Itoa(b.Index),
			strconv.Itoa(len(b.Transactions)),
			strconv.Itoa(b.Nonce),
			shorten(b.Hash),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func (c *client) showPending() error {
	var pending []transactionView
	if err := c.getJSON("/api/v1/ledger/pending", &pending); err != nil {
		return err
	}

	if len(pending) == 0 {
		pterm.Info.Println("No pending transactions")
		return nil
	}

	rows := pterm.TableData{{"Sender", "Recipient", "Amount"}}
	for _, tx := range pending {
		rows = append(rows, []string{tx.Sender, tx.Recipient, fmt.Sprintf("%v", tx.Amount)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func (c *client) addTransaction() error {
	sender, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Sender").Show()
	recipient, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Recipient").Show()
	amountStr, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Amount").Show()
	pterm.Println()

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", amountStr)
	}

	var resp struct {
		Success        bool   `json:"success"`
		Error          string `json:"error"`
		NextBlockIndex int    `json:"next_block_index"`
	}
	err = c.postJSON("/api/v1/ledger/transactions", map[string]any{
		"sender":    sender,
		"recipient": recipient,
		"amount":    amount,
	}, &resp)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("transaction rejected: %s", resp.Error)
	}

	pterm.Success.Printfln("Transaction accepted, expected in block %d", resp.NextBlockIndex)
	return nil
}

func (c *client) mine() error {
	miner, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Miner address").Show()
	pterm.Println()

	spinner, _ := pterm.DefaultSpinner.Start("Mining...")
	var resp mineResponse
	err := c.postJSON("/api/v1/ledger/mine", map[string]any{"miner_address": miner}, &resp)
	if err != nil {
		spinner.Fail(err.Error())
		return nil
	}
	if !resp.Success {
		spinner.Fail(resp.Error)
		return nil
	}
	spinner.Success(fmt.Sprintf("Block %d mined in %.1fms, nonce %d, hash %s",
		resp.Result.Block.Index, resp.Result.DurationMS, resp.Result.Block.Nonce, shorten(resp.Result.Block.Hash)))
	return nil
}

func (c *client) validate() error {
	var resp struct {
		Valid  bool   `json:"valid"`
		Error  string `json:"error"`
		Index  int    `json:"index"`
		Reason string `json:"reason"`
	}
	if err := c.getJSON("/api/v1/ledger/validate", &resp); err != nil {
		return err
	}

	if resp.Valid {
		pterm.Success.Println("Chain is valid")
	} else {
		pterm.Error.Printfln("Chain invalid at block %d: %s", resp.Index, resp.Reason)
	}
	return nil
}

func (c *client) save() error {
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := c.postJSON("/api/v1/ledger/save", map[string]any{}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("save failed: %s", resp.Error)
	}
	pterm.Success.Println("Ledger saved")
	return nil
}

func (c *client) getJSON(path string, out any) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) postJSON(path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func shorten(hash string) string {
	if len(hash) > 16 {
		return hash[:16] + "..."
	}
	return hash
}
