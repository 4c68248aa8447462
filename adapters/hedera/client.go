package hedera

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andybalholm/brotli"
	hiero "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/Ravi280797/standards-implementations/pkg/directory"
	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

// Client submits directory registrations to a Hedera Consensus Service
// topic on behalf of a configured operator account.
type Client struct {
	hederaClient *hiero.Client
	operatorID   hiero.AccountID
	operatorKey  hiero.PrivateKey
}

// NewClient creates a new Client.
func NewClient(config ClientConfig) (*Client, error) {
	network, err := normalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(config.OperatorAccountID) == "" {
		return nil, fmt.Errorf("operator account ID is required")
	}
	if strings.TrimSpace(config.OperatorPrivateKey) == "" {
		return nil, fmt.Errorf("operator private key is required")
	}

	operatorID, err := hiero.AccountIDFromString(strings.TrimSpace(config.OperatorAccountID))
	if err != nil {
		return nil, fmt.Errorf("invalid operator account ID: %w", err)
	}
	operatorKey, err := parsePrivateKey(config.OperatorPrivateKey)
	if err != nil {
		return nil, err
	}

	var hederaClient *hiero.Client
	if network == NetworkMainnet {
		hederaClient = hiero.ClientForMainnet()
	} else {
		hederaClient = hiero.ClientForTestnet()
	}
	hederaClient.SetOperator(operatorID, operatorKey)

	return &Client{
		hederaClient: hederaClient,
		operatorID:   operatorID,
		operatorKey:  operatorKey,
	}, nil
}

// CreateDirectoryTopic creates a fresh topic for directory entries and
// returns its ID.
func (c *Client) CreateDirectoryTopic(options CreateTopicOptions) (string, error) {
	transaction := hiero.NewTopicCreateTransaction()
	if strings.TrimSpace(options.Memo) != "" {
		transaction.SetTopicMemo(options.Memo)
	}
	if options.UseOperatorAsAdmin {
		transaction.SetAdminKey(c.operatorKey.PublicKey())
	}
	if options.UseOperatorAsSubmit {
		transaction.SetSubmitKey(c.operatorKey.PublicKey())
	}

	response, err := transaction.Execute(c.hederaClient)
	if err != nil {
		return "", fmt.Errorf("failed to execute create topic transaction: %w", err)
	}
	receipt, err := response.GetReceipt(c.hederaClient)
	if err != nil {
		return "", fmt.Errorf("failed to get create topic receipt: %w", err)
	}
	if receipt.TopicID == nil {
		return "", fmt.Errorf("topic ID missing in create topic receipt")
	}

	return receipt.TopicID.String(), nil
}

// Register submits an entry for (subject, tag). Registering the zero
// implementer clears the entry for resolvers replaying the topic.
func (c *Client) Register(
	directoryTopicID string,
	subject shared.Identity,
	tag directory.InterfaceTag,
	implementer shared.Identity,
	metadata string,
) (OperationResult, error) {
	if subject.IsZero() {
		return OperationResult{}, directory.NewMalformedInputError("subject", "zero identity")
	}
	if tag.IsZero() {
		return OperationResult{}, directory.NewMalformedInputError("tag", "zero tag")
	}

	message := entryMessage{
		Protocol:    ProtocolID,
		Operation:   OperationRegister,
		Subject:     subject.String(),
		Tag:         tag.String(),
		Implementer: implementer.String(),
		Metadata:    metadata,
	}
	payload, err := encodeEntryMessage(message)
	if err != nil {
		return OperationResult{}, err
	}

	return c.submitMessage(directoryTopicID, payload)
}

func (c *Client) submitMessage(directoryTopicID string, payload []byte) (OperationResult, error) {
	topicID, err := hiero.TopicIDFromString(strings.TrimSpace(directoryTopicID))
	if err != nil {
		return OperationResult{}, fmt.Errorf("invalid directory topic ID: %w", err)
	}

	transaction := hiero.NewTopicMessageSubmitTransaction().
		SetTopicID(topicID).
		SetMessage(payload)

	response, err := transaction.Execute(c.hederaClient)
	if err != nil {
		return OperationResult{}, fmt.Errorf("failed to execute message submit transaction: %w", err)
	}
	receipt, err := response.GetReceipt(c.hederaClient)
	if err != nil {
		return OperationResult{}, fmt.Errorf("failed to get message submit receipt: %w", err)
	}

	return OperationResult{
		TopicID:        topicID.String(),
		TransactionID:  response.TransactionID.String(),
		SequenceNumber: int64(receipt.TopicSequenceNumber),
	}, nil
}

// encodeEntryMessage marshals a registration, brotli-compressing payloads
// above the topic message threshold.
func encodeEntryMessage(message entryMessage) ([]byte, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal directory entry message: %w", err)
	}
	if len(payload) <= compressThreshold {
		return payload, nil
	}

	var compressed bytes.Buffer
	writer := brotli.NewWriter(&compressed)
	if _, err := writer.Write(payload); err != nil {
		return nil, fmt.Errorf("failed to compress directory entry message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress directory entry message: %w", err)
	}

	wrapper := entryMessage{
		Protocol:   ProtocolID,
		Operation:  OperationRegister,
		Compressed: base64.StdEncoding.EncodeToString(compressed.Bytes()),
	}
	wrapped, err := json.Marshal(wrapper)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal compressed wrapper: %w", err)
	}
	return wrapped, nil
}

func parsePrivateKey(raw string) (hiero.PrivateKey, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return hiero.PrivateKey{}, fmt.Errorf("private key cannot be empty")
	}

	ed25519Key, edErr := hiero.PrivateKeyFromStringEd25519(candidate)
	if edErr == nil {
		return ed25519Key, nil
	}

	ecdsaKey, ecdsaErr := hiero.PrivateKeyFromStringECDSA(candidate)
	if ecdsaErr == nil {
		return ecdsaKey, nil
	}

	return hiero.PrivateKey{}, fmt.Errorf("failed to parse private key as ed25519 (%v) or ECDSA (%v)", edErr, ecdsaErr)
}
