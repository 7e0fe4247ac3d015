package model

// Kind selects the credential subfolder a record lives in
type Kind string

const (
	KindAccounts  Kind = "accounts"
	KindContracts Kind = "contracts"
)

// FileVersion is written into meta.version of every credential file
const FileVersion = "1"

// CredentialFile represents the on-disk .json credential structure.
// Header is plaintext and searchable, Body holds the encrypted record.
type CredentialFile struct {
	Header Header   `json:"header"`
	Body   Envelope `json:"body"`
}

// Header holds the non-sensitive fields of a record
type Header struct {
	Name        string            `json:"name"`
	GroupName   string            `json:"groupName"`
	Type        string            `json:"type"`
	Network     string            `json:"network"`
	CreatedUnix int64             `json:"createdUnix"`
	Address     string            `json:"address"`
	Explorer    map[string]string `json:"explorer,omitempty"`
	Faucets     []FaucetAttempt   `json:"faucets,omitempty"`
	QR          string            `json:"QR,omitempty"` // base64 PNG of the address
}

// Envelope is a hex encoded IV plus ciphertext
type Envelope struct {
	IV      string `json:"iv"`
	Content string `json:"content"`
}

// Record is anything that can be persisted as a credential file
type Record interface {
	Kind() Kind
	Header() Header
}

// Meta is the file meta block of a record
type Meta struct {
	FileName string `json:"fileName"`
	Version  string `json:"version"`
}

// Time is the creation time of a record
type Time struct {
	Unix   int64  `json:"unix"`
	Format string `json:"format"`
}

// Address is a keypair in its base58 string form
type Address struct {
	Public  string `json:"public"`
	Private string `json:"private"`
}
