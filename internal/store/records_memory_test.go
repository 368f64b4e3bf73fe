package store_test

import (
	"context"
	"testing"

	"github.com/serroba/user-lookup-go/internal/records"
	"github.com/serroba/user-lookup-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMemoryStore_FindOne(t *testing.T) {
	s := store.NewRecordMemoryStore()
	s.Insert("users", records.Document{
		"_id":         map[string]any{"$oid": "5c9a3e1f2b6f4a0012345678"},
		"phoneNumber": "+15551234567",
		"email":       "hidden@example.com",
	})
	s.Insert("phones_to_delete", records.Document{"phone": "+15551234567"})

	t.Run("returns projected match", func(t *testing.T) {
		doc, err := s.FindOne(context.Background(), "users",
			records.Eq("phoneNumber", "+15551234567"), records.Projection{"_id", "phoneNumber"})

		require.NoError(t, err)
		assert.Equal(t, "+15551234567", doc["phoneNumber"])
		assert.NotContains(t, doc, "email")
	})

	t.Run("collections are separate", func(t *testing.T) {
		_, err := s.FindOne(context.Background(), "users", records.Eq("phone", "+15551234567"), nil)

		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("returns ErrNotFound for unknown collection", func(t *testing.T) {
		doc, err := s.FindOne(context.Background(), "missing", records.Filter{}, nil)

		assert.Nil(t, doc)
		assert.ErrorIs(t, err, records.ErrNotFound)
	})
}
