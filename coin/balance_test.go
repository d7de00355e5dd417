package coin

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"github.com/iov-one/barrel/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maxBalance(t *testing.T) Balance {
	t.Helper()
	b, err := ParseBalance("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, err)
	return b
}

func TestBalanceArithmetic(t *testing.T) {
	cases := map[string]struct {
		a, b    Balance
		sub     bool
		want    Balance
		wantErr *errors.Error
	}{
		"add": {
			a:    NewBalance(10),
			b:    NewBalance(32),
			want: NewBalance(42),
		},
		"add zero": {
			a:    NewBalance(7),
			want: NewBalance(7),
		},
		"sub to zero": {
			a:    NewBalance(100),
			b:    NewBalance(100),
			sub:  true,
			want: NewBalance(0),
		},
		"sub below zero": {
			a:       NewBalance(1),
			b:       NewBalance(2),
			sub:     true,
			wantErr: errors.ErrInsufficientAmount,
		},
		"add overflow": {
			a:       maxBalance(t),
			b:       NewBalance(1),
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				got Balance
				err error
			)
			if tc.sub {
				got, err = tc.a.Sub(tc.b)
			} else {
				got, err = tc.a.Add(tc.b)
			}
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "want %s, got %+v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equals(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestBalanceCompare(t *testing.T) {
	assert.True(t, NewBalance(1).LessThan(NewBalance(2)))
	assert.False(t, NewBalance(2).LessThan(NewBalance(2)))
	assert.Equal(t, 1, NewBalance(3).Cmp(NewBalance(2)))
	assert.True(t, Balance{}.IsZero())
	assert.Equal(t, "0", Balance{}.String())
}

func TestBalanceCBOR(t *testing.T) {
	for _, b := range []Balance{{}, NewBalance(1), NewBalance(1 << 40), maxBalance(t)} {
		raw, err := cbor.Marshal(b)
		require.NoError(t, err)
		var got Balance
		require.NoError(t, cbor.Unmarshal(raw, &got))
		assert.True(t, b.Equals(got), "want %s, got %s", b, got)
	}
}

func TestBalanceJSON(t *testing.T) {
	var got Balance
	require.NoError(t, json.Unmarshal([]byte(`"1000"`), &got))
	assert.True(t, NewBalance(1000).Equals(got))

	require.NoError(t, json.Unmarshal([]byte(`42`), &got))
	assert.True(t, NewBalance(42).Equals(got))

	err := got.UnmarshalJSON([]byte(`"-1"`))
	assert.True(t, errors.ErrInvalidAmount.Is(err), "got %+v", err)

	raw, err := json.Marshal(NewBalance(5))
	require.NoError(t, err)
	assert.Equal(t, `"5"`, string(raw))
}
