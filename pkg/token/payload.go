package token

import (
	"encoding/binary"
	"fmt"

	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

// Hook payload layout: fixed-width fields first, then length-prefixed
// variable blobs.
//
//	operator      20 bytes
//	from          20 bytes
//	to            20 bytes
//	amount         8 bytes, big endian
//	len(userData)  4 bytes, big endian
//	userData       variable
//	len(opData)    4 bytes, big endian
//	operatorData   variable
const payloadFixedLength = 3*shared.IdentityLength + 8

// HookPayload is the decoded form of a packed hook payload.
type HookPayload struct {
	Operator     shared.Identity
	From         shared.Identity
	To           shared.Identity
	Amount       uint64
	UserData     []byte
	OperatorData []byte
}

// EncodeHookPayload packs the transfer tuple delivered to sender and
// recipient hooks.
func EncodeHookPayload(
	operator shared.Identity,
	from shared.Identity,
	to shared.Identity,
	amount uint64,
	userData []byte,
	operatorData []byte,
) []byte {
	payload := make([]byte, 0, payloadFixedLength+8+len(userData)+len(operatorData))

	payload = append(payload, operator[:]...)
	payload = append(payload, from[:]...)
	payload = append(payload, to[:]...)
	payload = binary.BigEndian.AppendUint64(payload, amount)
	payload = binary.BigEndian.AppendUint32(payload, uint32(len(userData)))
	payload = append(payload, userData...)
	payload = binary.BigEndian.AppendUint32(payload, uint32(len(operatorData)))
	payload = append(payload, operatorData...)

	return payload
}

// DecodeHookPayload unpacks a payload produced by EncodeHookPayload.
func DecodeHookPayload(payload []byte) (HookPayload, error) {
	var decoded HookPayload

	if len(payload) < payloadFixedLength+8 {
		return decoded, fmt.Errorf("hook payload too short: %d bytes", len(payload))
	}

	offset := 0
	copy(decoded.Operator[:], payload[offset:offset+shared.IdentityLength])
	offset += shared.IdentityLength
	copy(decoded.From[:], payload[offset:offset+shared.IdentityLength])
	offset += shared.IdentityLength
	copy(decoded.To[:], payload[offset:offset+shared.IdentityLength])
	offset += shared.IdentityLength

	decoded.Amount = binary.BigEndian.Uint64(payload[offset : offset+8])
	offset += 8

	userData, offset, err := readBlob(payload, offset, "user data")
	if err != nil {
		return decoded, err
	}
	operatorData, offset, err := readBlob(payload, offset, "operator data")
	if err != nil {
		return decoded, err
	}
	if offset != len(payload) {
		return decoded, fmt.Errorf("hook payload has %d trailing bytes", len(payload)-offset)
	}

	decoded.UserData = userData
	decoded.OperatorData = operatorData
	return decoded, nil
}

func readBlob(payload []byte, offset int, field string) ([]byte, int, error) {
	if len(payload)-offset < 4 {
		return nil, 0, fmt.Errorf("hook payload truncated before %s length", field)
	}
	length := int(binary.BigEndian.Uint32(payload[offset : offset+4]))
	offset += 4

	if len(payload)-offset < length {
		return nil, 0, fmt.Errorf("hook payload truncated inside %s", field)
	}

	blob := make([]byte, length)
	copy(blob, payload[offset:offset+length])
	return blob, offset + length, nil
}
