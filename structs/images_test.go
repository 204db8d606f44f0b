package structs_test

import (
	"encoding/json"
	"testing"
	"yelo_server/structs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageInput_UnmarshalJSON(t *testing.T) {
	t.Run("bare string form", func(t *testing.T) {
		var in structs.ImageInput
		require.NoError(t, json.Unmarshal([]byte(`"https://cdn.example.com/a.jpg"`), &in))
		assert.Equal(t, "https://cdn.example.com/a.jpg", in.URL)
		assert.False(t, in.IsPrimary)
	})

	t.Run("object form", func(t *testing.T) {
		var in structs.ImageInput
		require.NoError(t, json.Unmarshal([]byte(`{"url":"b.jpg","isPrimary":true,"alt":"hero"}`), &in))
		assert.Equal(t, "b.jpg", in.URL)
		assert.True(t, in.IsPrimary)
		assert.Equal(t, "hero", in.Alt)
	})

	t.Run("object form without flag", func(t *testing.T) {
		var in structs.ImageInput
		require.NoError(t, json.Unmarshal([]byte(`{"url":"c.jpg"}`), &in))
		assert.False(t, in.IsPrimary)
	})

	t.Run("mixed list", func(t *testing.T) {
		var inputs []structs.ImageInput
		payload := `["https://cdn.example.com/a.jpg", {"url":"b.jpg","isPrimary":true}]`
		require.NoError(t, json.Unmarshal([]byte(payload), &inputs))
		require.Len(t, inputs, 2)
		assert.False(t, inputs[0].IsPrimary)
		assert.True(t, inputs[1].IsPrimary)
	})

	t.Run("invalid shape", func(t *testing.T) {
		var in structs.ImageInput
		assert.Error(t, json.Unmarshal([]byte(`42`), &in))
	})
}
