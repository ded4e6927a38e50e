package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LesnyRumcajs/pdp-hackathon/internal/common"
)

func TestDecode_Uploaded(t *testing.T) {
	raw := []byte(`{"stage":"UPLOADED","data":{"file":"cat.png","file_id":"baga1:baga2"}}`)

	ev, err := Decode(raw)
	require.NoError(t, err)

	up, ok := ev.(Uploaded)
	require.True(t, ok, "expected Uploaded, got %T", ev)
	assert.Equal(t, "baga1:baga2", up.FileID)
	assert.Equal(t, "cat.png", up.DisplayName)
	assert.Equal(t, "baga1:baga2", ev.FileIdentifier())
}

func TestDecode_RootsAdded(t *testing.T) {
	raw := []byte(`{"stage":"ROOTS_ADDED","data":{"file":"cat.png","file_id":"baga1:baga2","proofset_id":"42"}}`)

	ev, err := Decode(raw)
	require.NoError(t, err)

	ra, ok := ev.(RootsAdded)
	require.True(t, ok, "expected RootsAdded, got %T", ev)
	assert.Equal(t, "baga1:baga2", ra.FileID)
	assert.Equal(t, "cat.png", ra.DisplayName)
	assert.Equal(t, "42", ra.ProofSetID)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unknown stage", raw: `{"stage":"UNKNOWN","data":{"file":"a","file_id":"b"}}`},
		{name: "empty stage", raw: `{"data":{"file":"a","file_id":"b"}}`},
		{name: "uploaded missing file", raw: `{"stage":"UPLOADED","data":{"file_id":"b"}}`},
		{name: "uploaded missing file_id", raw: `{"stage":"UPLOADED","data":{"file":"a"}}`},
		{name: "roots added missing proofset_id", raw: `{"stage":"ROOTS_ADDED","data":{"file":"a","file_id":"b"}}`},
		{name: "roots added missing file_id", raw: `{"stage":"ROOTS_ADDED","data":{"file":"a","proofset_id":"42"}}`},
		{name: "not json", raw: `stage=UPLOADED`},
		{name: "truncated json", raw: `{"stage":"UPLOADED","data":{"file":"a"`},
		{name: "empty message", raw: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			assert.Nil(t, ev)
			assert.True(t, errors.Is(err, common.ErrDecode), "expected ErrDecode, got %v", err)
		})
	}
}
