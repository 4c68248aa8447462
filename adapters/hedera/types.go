package hedera

import "net/http"

const (
	// ProtocolID marks directory entry messages on the topic.
	ProtocolID = "dir-1"

	OperationRegister = "register"

	// compressThreshold is the payload size above which registration
	// messages are brotli-compressed before submission.
	compressThreshold = 1024

	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

type entryMessage struct {
	Protocol  string `json:"p"`
	Operation string `json:"op"`

	Subject     string `json:"subject,omitempty"`
	Tag         string `json:"tag,omitempty"`
	Implementer string `json:"implementer,omitempty"`
	Metadata    string `json:"metadata,omitempty"`

	// Compressed carries a base64 brotli-compressed entryMessage when the
	// plain form exceeds the size threshold.
	Compressed string `json:"z,omitempty"`
}

// ClientConfig configures a registration Client.
type ClientConfig struct {
	OperatorAccountID  string
	OperatorPrivateKey string
	Network            string
}

// CreateTopicOptions controls directory topic creation.
type CreateTopicOptions struct {
	Memo                string
	UseOperatorAsAdmin  bool
	UseOperatorAsSubmit bool
}

// OperationResult reports one submitted registration.
type OperationResult struct {
	TopicID        string
	TransactionID  string
	SequenceNumber int64
}

// ResolverConfig configures a read-only Resolver.
type ResolverConfig struct {
	// TopicID is the directory topic to replay.
	TopicID string

	// Network selects the default mirror node when MirrorBaseURL is
	// empty. Defaults to testnet.
	Network string

	MirrorBaseURL string
	MirrorAPIKey  string
	HTTPClient    *http.Client
}
