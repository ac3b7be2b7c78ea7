package scan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactMarshalJSON(t *testing.T) {
	t.Run("known signature keeps sig and block time", func(t *testing.T) {
		fact := Fact{Kind: FactKnown, Signature: "sig-1", BlockTime: ptr(int64(1000))}

		raw, err := json.Marshal(fact)
		require.NoError(t, err)

		assert.JSONEq(t, `{"sig":"sig-1","blockTime":1000}`, string(raw))
	})

	t.Run("terminal kinds collapse to a marker", func(t *testing.T) {
		raw, err := json.Marshal(Fact{Kind: FactNoHistory})
		require.NoError(t, err)
		assert.JSONEq(t, `{"marker":"NO_HISTORY"}`, string(raw))

		raw, err = json.Marshal(Fact{Kind: FactTooManyTx, Signature: "ignored"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"marker":"TOO_MANY_TX"}`, string(raw))
	})

	t.Run("too old keeps its payload", func(t *testing.T) {
		fact := Fact{Kind: FactTooOld, Signature: "sig-2", BlockTime: ptr(int64(500))}

		raw, err := json.Marshal(fact)
		require.NoError(t, err)

		assert.JSONEq(t, `{"marker":"TOO_OLD","sig":"sig-2","blockTime":500}`, string(raw))
	})

	t.Run("unknown kind fails", func(t *testing.T) {
		_, err := json.Marshal(Fact{Kind: FactKind("bogus")})
		assert.Error(t, err)
	})
}

func TestFactUnmarshalJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, fact := range []Fact{
			{Kind: FactKnown, Signature: "sig-1", BlockTime: ptr(int64(1000))},
			{Kind: FactKnown, Signature: "sig-2"},
			{Kind: FactNoHistory},
			{Kind: FactTooManyTx},
			{Kind: FactTooOld, Signature: "sig-3", BlockTime: ptr(int64(42))},
		} {
			raw, err := json.Marshal(fact)
			require.NoError(t, err)

			var decoded Fact
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.Equal(t, fact, decoded)
		}
	})

	t.Run("missing block time stays nil", func(t *testing.T) {
		var fact Fact
		require.NoError(t, json.Unmarshal([]byte(`{"sig":"sig-1"}`), &fact))

		assert.Equal(t, FactKnown, fact.Kind)
		assert.Nil(t, fact.BlockTime)
	})

	t.Run("unknown marker is rejected", func(t *testing.T) {
		var fact Fact
		assert.Error(t, json.Unmarshal([]byte(`{"marker":"SOMETHING_ELSE"}`), &fact))
	})

	t.Run("empty entry is rejected", func(t *testing.T) {
		var fact Fact
		assert.Error(t, json.Unmarshal([]byte(`{}`), &fact))
	})
}
