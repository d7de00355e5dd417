package barrel

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/iov-one/barrel/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	want := Address{19: 0x2a}
	bech, err := want.Bech32("barrel")
	require.NoError(t, err)

	cases := map[string]struct {
		enc     string
		want    Address
		wantErr *errors.Error
	}{
		"plain hex":        {enc: "000000000000000000000000000000000000002A", want: want},
		"lower case hex":   {enc: "000000000000000000000000000000000000002a", want: want},
		"prefixed hex":     {enc: "hex:000000000000000000000000000000000000002A", want: want},
		"bech32":           {enc: "bech32:" + bech, want: want},
		"too short":        {enc: "2A", wantErr: errors.ErrInvalidInput},
		"not hex":          {enc: strings.Repeat("zz", 20), wantErr: errors.ErrInvalidInput},
		"unknown format":   {enc: "base64:AAAA", wantErr: errors.ErrInvalidType},
		"malformed bech32": {enc: "bech32:barrel1qqqq", wantErr: errors.ErrInvalidInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAddress(tc.enc)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "want %s, got %+v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAddressJSON(t *testing.T) {
	type wrapper struct {
		Addr Address `json:"addr"`
	}
	in := wrapper{Addr: Address{0: 0xff, 19: 1}}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"addr": "FF00000000000000000000000000000000000001"}`, string(raw))

	var out wrapper
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)

	raw, err = json.Marshal(wrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"addr": ""}`, string(raw))
}

func TestAddressCompare(t *testing.T) {
	a, b := Address{19: 1}, Address{19: 2}
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.True(t, a.Equals(a.Clone()))
	assert.NoError(t, a.Validate())
	assert.Error(t, Address{1}.Validate())
	assert.Equal(t, "(nil)", Address(nil).String())
}
