package domain

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestItem_UID(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{"guid wins", Item{GUID: "abc", Link: "http://x"}, md5Hex("abc")},
		{"link when guid empty", Item{Link: "http://x"}, md5Hex("http://x")},
		{"both empty", Item{}, md5Hex("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uid := tt.item.UID()
			assert.Equal(t, tt.want, uid)
			assert.Len(t, uid, 32)
		})
	}
}

func TestItem_UIDIgnoresOtherFields(t *testing.T) {
	a := Item{GUID: "g1", Title: "first", Description: "one"}
	b := Item{GUID: "g1", Title: "second", Link: "http://other"}
	assert.Equal(t, a.UID(), b.UID())
}

func TestBatch_Document(t *testing.T) {
	batch := &Batch{
		Title: "Example",
		Link:  "https://example.com",
		Items: []Item{
			{Title: "a", Link: "https://example.com/a", GUID: "ga", PublishedAt: "Mon, 02 Jan 2006 15:04:05 MST"},
			{Title: "b", Link: "https://example.com/b"},
		},
	}

	data, err := batch.Document()
	require.NoError(t, err)

	var decoded Batch
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Example", decoded.Title)
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, "ga", decoded.Items[0].GUID)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 MST", decoded.Items[0].PublishedAt)
	assert.Contains(t, string(data), `"publish":`)
}

func TestBatch_DocumentEmptyItems(t *testing.T) {
	data, err := (&Batch{}).Document()
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(data))
}

func TestBatch_DocumentErrors(t *testing.T) {
	var nilBatch *Batch
	_, err := nilBatch.Document()
	assert.True(t, errors.Is(err, ErrSerialization))

	bad := &Batch{Meta: map[string]any{"score": math.Inf(1)}}
	_, err = bad.Document()
	assert.True(t, errors.Is(err, ErrSerialization))
}

func TestBatch_Rows(t *testing.T) {
	items := []Item{{Title: "1"}, {Title: "2"}, {Title: "3"}}
	batch := &Batch{Items: items}

	assert.Equal(t, items, batch.Rows())

	var nilBatch *Batch
	assert.Nil(t, nilBatch.Rows())
}

func TestRun(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := NewRun(now)
	b := NewRun(now)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, uint32(now.Unix()), a.CreateTime())
	assert.Equal(t, uint32(0), Run{StartedAt: time.Unix(-10, 0)}.CreateTime())
}
