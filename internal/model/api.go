package model

// CreateAccountsRequest represents request for POST /accounts
type CreateAccountsRequest struct {
	Names     []string `json:"names"`
	GroupName string   `json:"groupName"`
}

// CreatedAccount is one entry of CreateAccountsResponse
type CreatedAccount struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	FilePath    string `json:"filePath"`
	Transaction string `json:"transaction"`
}

// CreateAccountsResponse represents response for POST /accounts
type CreateAccountsResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Accounts []CreatedAccount `json:"accounts,omitempty"`
}

// StatusResponse represents response for GET /accounts/status
type StatusResponse struct {
	Address string `json:"address"`
	Network string `json:"network"`
	AccountStatus
}

// SelectionCounts is the funded/pending/empty breakdown of a selection
type SelectionCounts struct {
	Funded  int `json:"funded"`
	Pending int `json:"pending"`
	Empty   int `json:"empty"`
}

// SelectResponse represents response for POST /accounts/select
type SelectResponse struct {
	Status      string          `json:"status"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	Explorer    string          `json:"explorer,omitempty"`
	Transaction string          `json:"transaction,omitempty"`
	Counts      SelectionCounts `json:"counts"`
}

// Entry is a validated credential header plus where it was read from
type Entry struct {
	FilePath string `json:"filePath"`
	Header
}

// SelectRequest represents request for POST /accounts/select
type SelectRequest struct {
	Name      string `json:"name"`
	GroupName string `json:"groupName"`
}
