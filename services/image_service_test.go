package services_test

import (
	"errors"
	"testing"
	"yelo_server/lib"
	"yelo_server/services"
	"yelo_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageService() *services.ImageService {
	return services.NewImageService(gecho.NewDefaultLogger())
}

func primaryCount(records []structs.ImageRecord) int {
	n := 0
	for _, rec := range records {
		if rec.IsPrimary {
			n++
		}
	}
	return n
}

func TestNormalize_FirstEntryDefaultsToPrimary(t *testing.T) {
	is := newImageService()

	records := is.Normalize([]structs.ImageInput{
		{URL: "https://cdn.example.com/a.jpg"},
		{URL: "https://cdn.example.com/b.jpg"},
	})

	require.Len(t, records, 2)
	assert.True(t, records[0].IsPrimary)
	assert.False(t, records[1].IsPrimary)
	assert.NotEmpty(t, records[0].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestNormalize_FirstEntryBeatsLaterFlags(t *testing.T) {
	is := newImageService()

	records := is.Normalize([]structs.ImageInput{
		{URL: "https://cdn.example.com/a.jpg", IsPrimary: false},
		structs.NewImageInput("https://cdn.example.com/b.jpg", true, "hero shot"),
	})

	require.Len(t, records, 2)
	assert.True(t, records[0].IsPrimary)
	assert.False(t, records[1].IsPrimary)
	assert.Equal(t, "hero shot", records[1].Alt)
	assert.Equal(t, 1, primaryCount(records))
}

func TestNormalize_MultipleExplicitPrimariesCollapseToFirst(t *testing.T) {
	is := newImageService()

	records := is.Normalize([]structs.ImageInput{
		structs.NewImageInput("a.jpg", true, ""),
		structs.NewImageInput("b.jpg", true, ""),
		structs.NewImageInput("c.jpg", true, ""),
	})

	require.Len(t, records, 3)
	assert.True(t, records[0].IsPrimary)
	assert.Equal(t, 1, primaryCount(records))
}

func TestNormalize_EmptyInput(t *testing.T) {
	is := newImageService()
	assert.Empty(t, is.Normalize(nil))
}

func TestSetPrimary(t *testing.T) {
	is := newImageService()
	records := is.Normalize([]structs.ImageInput{
		{URL: "a.jpg"}, {URL: "b.jpg"}, {URL: "c.jpg"},
	})

	t.Run("moves the flag exclusively", func(t *testing.T) {
		out := is.SetPrimary(records, records[2].ID)
		assert.True(t, out[2].IsPrimary)
		assert.Equal(t, 1, primaryCount(out))
	})

	t.Run("is idempotent", func(t *testing.T) {
		once := is.SetPrimary(records, records[1].ID)
		twice := is.SetPrimary(once, records[1].ID)
		assert.Equal(t, once, twice)
		assert.Equal(t, 1, primaryCount(twice))
	})

	t.Run("unknown id leaves the list untouched", func(t *testing.T) {
		out := is.SetPrimary(records, "no-such-id")
		assert.Equal(t, 1, primaryCount(out))
	})
}

func TestRemove(t *testing.T) {
	is := newImageService()

	t.Run("removing the primary promotes the first remaining", func(t *testing.T) {
		records := is.Normalize([]structs.ImageInput{
			{URL: "a.jpg"}, {URL: "b.jpg"}, {URL: "c.jpg"},
		})

		out := is.Remove(records, records[0].ID)
		require.Len(t, out, 2)
		assert.True(t, out[0].IsPrimary)
		assert.Equal(t, "b.jpg", out[0].URL)
		assert.Equal(t, 1, primaryCount(out))
	})

	t.Run("removing a secondary keeps the primary", func(t *testing.T) {
		records := is.Normalize([]structs.ImageInput{
			{URL: "a.jpg"}, {URL: "b.jpg"},
		})

		out := is.Remove(records, records[1].ID)
		require.Len(t, out, 1)
		assert.True(t, out[0].IsPrimary)
	})

	t.Run("removing the last record leaves an empty list", func(t *testing.T) {
		records := is.Normalize([]structs.ImageInput{{URL: "a.jpg"}})
		out := is.Remove(records, records[0].ID)
		assert.Empty(t, out)
	})
}

func TestReorder(t *testing.T) {
	is := newImageService()
	records := is.Normalize([]structs.ImageInput{
		{URL: "a.jpg"}, {URL: "b.jpg"}, {URL: "c.jpg"},
	})

	t.Run("primary travels with its record", func(t *testing.T) {
		out := is.Reorder(records, 0, 2)
		require.Len(t, out, 3)
		assert.Equal(t, "a.jpg", out[2].URL)
		assert.True(t, out[2].IsPrimary)
		assert.Equal(t, 1, primaryCount(out))
	})

	t.Run("out of range indexes are a no-op", func(t *testing.T) {
		assert.Equal(t, records, is.Reorder(records, -1, 2))
		assert.Equal(t, records, is.Reorder(records, 0, 5))
	})
}

func TestAddSlot(t *testing.T) {
	is := newImageService()

	out := is.AddSlot(nil)
	require.Len(t, out, 1)
	assert.True(t, out[0].IsPrimary)

	out = is.AddSlot(out)
	require.Len(t, out, 2)
	assert.False(t, out[1].IsPrimary)
	assert.Equal(t, 1, primaryCount(out))
}

func TestIngest(t *testing.T) {
	is := newImageService()

	t.Run("drops non-image files", func(t *testing.T) {
		valid, err := is.Ingest([]services.UploadFile{
			{Name: "photo.jpg", ContentType: "image/jpeg"},
			{Name: "invoice.pdf", ContentType: "application/pdf"},
			{Name: "icon.png", ContentType: "image/png"},
		})
		require.NoError(t, err)
		require.Len(t, valid, 2)
		assert.Equal(t, "photo.jpg", valid[0].Name)
		assert.Equal(t, "icon.png", valid[1].Name)
	})

	t.Run("nothing valid is an error", func(t *testing.T) {
		_, err := is.Ingest([]services.UploadFile{
			{Name: "invoice.pdf", ContentType: "application/pdf"},
		})
		var validation *lib.ValidationError
		require.True(t, errors.As(err, &validation))
	})
}
