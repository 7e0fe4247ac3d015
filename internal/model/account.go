package model

import "time"

// AccountType is the data.type of fee payer accounts
const AccountType = "deployer"

// ManualTransaction marks a faucet attempt that was rate limited and has to be funded by hand
const ManualTransaction = "manual"

// Account represents a fee payer account record
type Account struct {
	Meta    Meta        `json:"meta"`
	Data    AccountData `json:"data"`
	Comment string      `json:"comment"`

	// QR travels in the plaintext header only
	QR string `json:"-"`
}

// AccountData is the data block of an account record
type AccountData struct {
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	GroupName string            `json:"groupName"`
	Network   string            `json:"network"`
	Time      Time              `json:"time"`
	Address   Address           `json:"address"`
	Explorer  map[string]string `json:"explorer"`
	Faucets   []FaucetAttempt   `json:"faucets"`
}

// FaucetAttempt is evidence of a funding request
type FaucetAttempt struct {
	Network     string `json:"network"`
	Timestamp   int64  `json:"timestamp"`
	Transaction string `json:"transaction"`
}

// Manual reports whether the attempt was rate limited
func (f FaucetAttempt) Manual() bool {
	return f.Transaction == ManualTransaction
}

// Age returns how long ago the attempt was made
func (f FaucetAttempt) Age(now time.Time) time.Duration {
	return now.Sub(time.Unix(f.Timestamp, 0))
}

// Kind implements Record
func (a *Account) Kind() Kind {
	return KindAccounts
}

// Header implements Record
func (a *Account) Header() Header {
	return Header{
		Name:        a.Data.Name,
		GroupName:   a.Data.GroupName,
		Type:        a.Data.Type,
		Network:     a.Data.Network,
		CreatedUnix: a.Data.Time.Unix,
		Address:     a.Data.Address.Public,
		Explorer:    a.Data.Explorer,
		Faucets:     a.Data.Faucets,
		QR:          a.QR,
	}
}

// FaucetFor returns the first faucet attempt made on network
func (a *Account) FaucetFor(network string) (FaucetAttempt, bool) {
	for _, f := range a.Data.Faucets {
		if f.Network == network {
			return f, true
		}
	}
	return FaucetAttempt{}, false
}

// StatusCode classifies a status query
type StatusCode int

const (
	StatusOK           StatusCode = 200
	StatusNotFound     StatusCode = 400
	StatusNetworkError StatusCode = 503
)

// AccountStatus is the live status of an account, recomputed on every fetch
type AccountStatus struct {
	Code             StatusCode `json:"code"`
	Balance          uint64     `json:"balance"` // smallest unit
	BalanceDisplay   string     `json:"balanceDisplay"`
	Nonce            uint64     `json:"nonce"`
	TransactionsLeft uint64     `json:"transactionsLeft"`
	Useable          bool       `json:"useable"`
}
