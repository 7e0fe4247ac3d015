package model

// ContractType is the data.type of deployed contract records
const ContractType = "contract"

// Contract represents a deployed smart contract record
type Contract struct {
	Meta    Meta         `json:"meta"`
	Data    ContractData `json:"data"`
	Comment string       `json:"comment"`
}

// ContractData is the data block of a contract record
type ContractData struct {
	Name            string            `json:"name"`
	Type            string            `json:"type"`
	GroupName       string            `json:"groupName"`
	Network         string            `json:"network"`
	Time            Time              `json:"time"`
	FeePayer        FeePayer          `json:"feePayer"`
	Address         Address           `json:"address"` // destination keypair
	Explorer        map[string]string `json:"explorer"`
	VerificationKey VerificationKey   `json:"verificationKey"`
	SmartContract   SmartContract     `json:"smartContract"`
	Transaction     TransactionRef    `json:"transaction"`
}

// FeePayer identifies the account that paid for the deployment
type FeePayer struct {
	Name     string `json:"name"`
	Public   string `json:"public"`
	Explorer string `json:"explorer"`
}

// VerificationKey is the artifact of compiling a proof based contract
type VerificationKey struct {
	Data string `json:"data"`
	Hash string `json:"hash"`
}

// SmartContract describes the deployed class
type SmartContract struct {
	ClassName string   `json:"className"`
	Methods   []string `json:"methods"`
	Content   string   `json:"content"`
}

// TransactionRef points at a transaction on chain
type TransactionRef struct {
	Hash     string `json:"hash"`
	Explorer string `json:"explorer"`
}

// Kind implements Record
func (c *Contract) Kind() Kind {
	return KindContracts
}

// Header implements Record
func (c *Contract) Header() Header {
	return Header{
		Name:        c.Data.Name,
		GroupName:   c.Data.GroupName,
		Type:        c.Data.Type,
		Network:     c.Data.Network,
		CreatedUnix: c.Data.Time.Unix,
		Address:     c.Data.Address.Public,
		Explorer:    c.Data.Explorer,
	}
}
