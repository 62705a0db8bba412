package vpn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeyListShapes(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantIDs  []string
		wantUUID string
	}{
		{
			name:     "bare array with string ids",
			payload:  `[{"id": "3", "uuid": "aaa"}, {"id": "4", "uuid": "bbb"}]`,
			wantIDs:  []string{"3", "4"},
			wantUUID: "aaa",
		},
		{
			name:     "bare array with numeric ids",
			payload:  `[{"id": 3, "uuid": "aaa"}]`,
			wantIDs:  []string{"3"},
			wantUUID: "aaa",
		},
		{
			name:     "keys envelope with key_id",
			payload:  `{"keys": [{"key_id": 7, "uuid": "ccc"}], "total": 1}`,
			wantIDs:  []string{"7"},
			wantUUID: "ccc",
		},
		{
			name:     "uuid nested under key",
			payload:  `{"keys": [{"id": "9", "key": {"uuid": "ddd"}}]}`,
			wantIDs:  []string{"9"},
			wantUUID: "ddd",
		},
		{
			name:     "outline accessKeys envelope",
			payload:  `{"accessKeys": [{"id": "0", "accessUrl": "ss://x"}]}`,
			wantIDs:  []string{"0"},
			wantUUID: "",
		},
		{
			name:    "empty keys envelope",
			payload: `{"keys": [], "total": 0}`,
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := decodeKeyList([]byte(tt.payload))
			require.NoError(t, err)
			require.Len(t, keys, len(tt.wantIDs))

			for i, want := range tt.wantIDs {
				assert.Equal(t, want, keys[i].normalizedID())
			}
			if len(keys) > 0 {
				assert.Equal(t, tt.wantUUID, keys[0].normalizedUUID())
			}
		})
	}
}

func TestDecodeKeyListRejectsGarbage(t *testing.T) {
	_, err := decodeKeyList([]byte(`"not a list"`))
	assert.Error(t, err)
}

func TestRawKeyNormalizedName(t *testing.T) {
	k := rawKey{Email: "1_subscription_2@veilbot.local"}
	assert.Equal(t, "1_subscription_2@veilbot.local", k.normalizedName())

	k.Name = "Amsterdam 1"
	assert.Equal(t, "Amsterdam 1", k.normalizedName())
}

func TestDecodeTrafficMapShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		key     string
		want    int64
	}{
		{
			name:    "flat map",
			payload: `{"aaa": 123, "bbb": 456}`,
			key:     "aaa",
			want:    123,
		},
		{
			name:    "traffic envelope",
			payload: `{"traffic": {"aaa": 789}}`,
			key:     "aaa",
			want:    789,
		},
		{
			name:    "outline transfer metrics",
			payload: `{"bytesTransferredByUserId": {"0": 1048576}}`,
			key:     "0",
			want:    1048576,
		},
		{
			name:    "float counters",
			payload: `{"history": {"aaa": 12.0}}`,
			key:     "aaa",
			want:    12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := decodeTrafficMap([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want, m[tt.key])
		})
	}
}
