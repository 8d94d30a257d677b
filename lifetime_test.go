package simpledi_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/simpledi"
)

func TestLifetime(t *testing.T) {
	t.Run("constants", func(t *testing.T) {
		assert.Equal(t, simpledi.Lifetime(0), simpledi.Transient)
		assert.Equal(t, simpledi.Lifetime(1), simpledi.Singleton)
	})

	t.Run("String", func(t *testing.T) {
		tests := []struct {
			lifetime simpledi.Lifetime
			expected string
		}{
			{simpledi.Transient, "Transient"},
			{simpledi.Singleton, "Singleton"},
			{simpledi.Lifetime(999), "Unknown(999)"},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.lifetime.String())
		}
	})

	t.Run("IsValid", func(t *testing.T) {
		assert.True(t, simpledi.Transient.IsValid())
		assert.True(t, simpledi.Singleton.IsValid())
		assert.False(t, simpledi.Lifetime(-1).IsValid())
		assert.False(t, simpledi.Lifetime(2).IsValid())
	})

	t.Run("text round trip", func(t *testing.T) {
		for _, l := range []simpledi.Lifetime{simpledi.Transient, simpledi.Singleton} {
			text, err := l.MarshalText()
			require.NoError(t, err)

			var got simpledi.Lifetime
			require.NoError(t, got.UnmarshalText(text))
			assert.Equal(t, l, got)
		}
	})

	t.Run("lowercase text", func(t *testing.T) {
		var l simpledi.Lifetime
		require.NoError(t, l.UnmarshalText([]byte("singleton")))
		assert.Equal(t, simpledi.Singleton, l)
	})

	t.Run("invalid text", func(t *testing.T) {
		var l simpledi.Lifetime
		err := l.UnmarshalText([]byte("scoped"))

		var lifetimeErr simpledi.LifetimeError
		require.ErrorAs(t, err, &lifetimeErr)
		assert.Equal(t, "scoped", lifetimeErr.Value)
	})

	t.Run("invalid value does not marshal", func(t *testing.T) {
		_, err := simpledi.Lifetime(5).MarshalText()
		assert.Error(t, err)
	})

	t.Run("JSON", func(t *testing.T) {
		type config struct {
			Lifetime simpledi.Lifetime `json:"lifetime"`
		}

		data, err := json.Marshal(config{Lifetime: simpledi.Singleton})
		require.NoError(t, err)
		assert.JSONEq(t, `{"lifetime":"Singleton"}`, string(data))

		var decoded config
		require.NoError(t, json.Unmarshal([]byte(`{"lifetime":"transient"}`), &decoded))
		assert.Equal(t, simpledi.Transient, decoded.Lifetime)

		assert.Error(t, json.Unmarshal([]byte(`{"lifetime":1}`), &decoded))
		assert.Error(t, json.Unmarshal([]byte(`{"lifetime":"forever"}`), &decoded))
	})
}
