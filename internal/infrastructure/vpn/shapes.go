package vpn

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flexID tolerates backend ids arriving as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*f = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) String() string { return string(f) }

// rawKey covers every key shape the backends have been observed to emit:
// the id under "id" or "key_id", the uuid at top level or nested under
// "key", the label under "name" or "email".
type rawKey struct {
	ID      flexID `json:"id"`
	KeyID   flexID `json:"key_id"`
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Port    int    `json:"port"`
	ShortID string `json:"short_id"`
	SNI     string `json:"sni"`
	Key     *struct {
		ID   flexID `json:"id"`
		UUID string `json:"uuid"`
		Name string `json:"name"`
	} `json:"key"`
	AccessURL string `json:"accessUrl"`
}

// normalizedID returns the key id regardless of which field carried it.
func (k *rawKey) normalizedID() string {
	if k.KeyID != "" {
		return k.KeyID.String()
	}
	if k.ID != "" {
		return k.ID.String()
	}
	if k.Key != nil {
		return k.Key.ID.String()
	}
	return ""
}

// normalizedUUID returns the uuid regardless of nesting.
func (k *rawKey) normalizedUUID() string {
	if k.UUID != "" {
		return k.UUID
	}
	if k.Key != nil {
		return k.Key.UUID
	}
	return ""
}

// normalizedName prefers the explicit name, falling back to email.
func (k *rawKey) normalizedName() string {
	if k.Name != "" {
		return k.Name
	}
	if k.Key != nil && k.Key.Name != "" {
		return k.Key.Name
	}
	return k.Email
}

func (k *rawKey) toRemoteKey() RemoteKey {
	return RemoteKey{
		ID:    k.normalizedID(),
		UUID:  k.normalizedUUID(),
		Name:  k.normalizedName(),
		Email: k.Email,
	}
}

// createdKeyRecord decodes a key-creation response, accepting the bare
// record and the one-element list envelope. Returns nil when no id can be
// recovered.
func createdKeyRecord(data []byte) *KeyRecord {
	var raw rawKey
	if err := json.Unmarshal(data, &raw); err == nil && raw.normalizedID() != "" {
		return keyRecordFromRaw(&raw)
	}
	keys, err := decodeKeyList(data)
	if err != nil || len(keys) != 1 || keys[0].normalizedID() == "" {
		return nil
	}
	return keyRecordFromRaw(&keys[0])
}

func keyRecordFromRaw(raw *rawKey) *KeyRecord {
	return &KeyRecord{
		ID:      raw.normalizedID(),
		UUID:    raw.normalizedUUID(),
		Port:    raw.Port,
		ShortID: raw.ShortID,
		SNI:     raw.SNI,
	}
}

// decodeKeyList accepts either a bare array or a {keys: [...], total: n}
// envelope, with "accessKeys" as the Outline spelling of the envelope.
func decodeKeyList(data []byte) ([]rawKey, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var keys []rawKey
		if err := json.Unmarshal(data, &keys); err != nil {
			return nil, fmt.Errorf("failed to decode key array: %w", err)
		}
		return keys, nil
	}

	var envelope struct {
		Keys       []rawKey `json:"keys"`
		AccessKeys []rawKey `json:"accessKeys"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode key envelope: %w", err)
	}
	if envelope.Keys != nil {
		return envelope.Keys, nil
	}
	return envelope.AccessKeys, nil
}

// decodeTrafficMap accepts {uuid: bytes} directly or wrapped in a field
// named "traffic", "history" or Outline's "bytesTransferredByUserId".
func decodeTrafficMap(data []byte) (map[string]int64, error) {
	var envelope struct {
		Traffic map[string]json.Number `json:"traffic"`
		History map[string]json.Number `json:"history"`
		ByUser  map[string]json.Number `json:"bytesTransferredByUserId"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		for _, m := range []map[string]json.Number{envelope.Traffic, envelope.History, envelope.ByUser} {
			if m != nil {
				return numbersToBytes(m), nil
			}
		}
	}

	var flat map[string]json.Number
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("failed to decode traffic map: %w", err)
	}
	return numbersToBytes(flat), nil
}

func numbersToBytes(m map[string]json.Number) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		n, err := v.Int64()
		if err != nil {
			if f, ferr := strconv.ParseFloat(v.String(), 64); ferr == nil {
				n = int64(f)
			}
		}
		out[k] = n
	}
	return out
}
