// Package render formats selection summaries, listings and poll progress for the terminal.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/AlexZinkM/devnet-accounts/accounts"
	"github.com/AlexZinkM/devnet-accounts/contracts"
	"github.com/AlexZinkM/devnet-accounts/internal/common"
	"github.com/AlexZinkM/devnet-accounts/internal/config"
	"github.com/AlexZinkM/devnet-accounts/internal/model"
	"github.com/AlexZinkM/devnet-accounts/internal/poll"
)

var (
	rootStyle    = lipgloss.NewStyle().Bold(true)
	fundedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle   = lipgloss.NewStyle().Faint(true)
)

func statusStyle(s accounts.SelectionStatus) lipgloss.Style {
	switch s {
	case accounts.SelectedKnown:
		return fundedStyle
	case accounts.SelectedPending:
		return pendingStyle
	default:
		return emptyStyle
	}
}

func field(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

// Selection renders the outcome of an account selection:
//
//	Accounts
//	├── Funded (n)
//	├── Pending (n)
//	└── Empty (n)
//	<address> (status)
//	├── File
//	├── Explorer
//	└── Transaction
func Selection(sel *accounts.Selection, network config.Network) string {
	counts := tree.Root(rootStyle.Render("Accounts")).
		Child(
			fundedStyle.Render(fmt.Sprintf("Funded (%d)", sel.Counts.Funded)),
			pendingStyle.Render(fmt.Sprintf("Pending (%d)", sel.Counts.Pending)),
			emptyStyle.Render(fmt.Sprintf("Empty (%d)", sel.Counts.Empty)),
		)

	address := sel.Account.Data.Address.Public
	chosen := tree.Root(rootStyle.Render(address) + " " + statusStyle(sel.Status).Render("("+string(sel.Status)+")")).
		Child(
			field("File", sel.Path),
			field("Explorer", network.WalletURL(address)),
		)

	switch {
	case sel.Transaction == model.ManualTransaction:
		chosen.Child(field("Transaction", "faucet rate limited, fund manually"))
	case sel.Transaction != "":
		chosen.Child(field("Transaction", network.TransactionURL(sel.Transaction)))
	}
	if sel.Balance.Code == model.StatusOK {
		chosen.Child(field("Balance", fmt.Sprintf("%s (%d transactions left)", sel.Balance.BalanceDisplay, sel.Balance.TransactionsLeft)))
	}

	return counts.String() + "\n" + chosen.String()
}

// Status renders a single status query
func Status(address string, status model.AccountStatus) string {
	t := tree.Root(rootStyle.Render(address))
	switch status.Code {
	case model.StatusOK:
		style := emptyStyle
		if status.Useable {
			style = fundedStyle
		}
		t.Child(
			field("Balance", status.BalanceDisplay),
			field("Nonce", fmt.Sprint(status.Nonce)),
			field("Transactions left", style.Render(fmt.Sprint(status.TransactionsLeft))),
		)
	case model.StatusNotFound:
		t.Child(emptyStyle.Render("not found on chain"))
	default:
		t.Child(pendingStyle.Render("network unreachable"))
	}
	return t.String()
}

// Entries renders a GetAll result as one tree per group, keys sorted
func Entries(title string, all map[string]map[string]model.Entry) string {
	root := tree.Root(rootStyle.Render(title))
	for _, group := range sortedKeys(all) {
		entries := all[group]
		node := tree.Root(fmt.Sprintf("%s (%d)", group, len(entries)))
		for _, key := range sortedKeys(entries) {
			e := entries[key]
			node.Child(fmt.Sprintf("%s  %s  %s", key, e.Address, labelStyle.Render(e.Network)))
		}
		root.Child(node)
	}
	return root.String()
}

// Contracts renders a contracts.List result
func Contracts(all map[string][]contracts.Deployed) string {
	root := tree.Root(rootStyle.Render("Contracts"))
	for _, group := range sortedKeys(all) {
		node := tree.Root(fmt.Sprintf("%s (%d)", group, len(all[group])))
		for _, d := range all[group] {
			node.Child(fmt.Sprintf("%s  %s  %s", d.Key, d.Address, labelStyle.Render(d.Network)))
		}
		root.Child(node)
	}
	return root.String()
}

var spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Progress renders one poll progress line, without a trailing newline
func Progress(label string, p poll.Progress) string {
	var b strings.Builder
	switch p.State {
	case poll.Found:
		b.WriteString(fundedStyle.Render("✓"))
	case poll.Aborted, poll.TimedOut:
		b.WriteString(pendingStyle.Render("✗"))
	default:
		b.WriteString(spinner[int(p.Elapsed/(100*time.Millisecond))%len(spinner)])
	}

	fmt.Fprintf(&b, " %s %s", label, common.FormatCountdown(int64(p.Elapsed.Seconds())))
	if p.Attempts > 0 {
		fmt.Fprintf(&b, " %s", labelStyle.Render(fmt.Sprintf("attempt %d", p.Attempts)))
	}
	if p.Estimate != "" {
		fmt.Fprintf(&b, " %s %s", labelStyle.Render("next slot"), p.Estimate)
	}
	if p.State != poll.Polling && p.State != poll.Idle {
		fmt.Fprintf(&b, " %s", p.State)
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
