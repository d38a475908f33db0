package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contactJSON = `{"name":"Jane Doe","title":"CEO","company":"Acme","email":"jane@acme.com","phone":"555-1234","website":"acme.com","address":"1 Main St"}`

func TestDecodeReplyStrictBareObject(t *testing.T) {
	obj, err := DecodeReply(contactJSON, "strict")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", obj["name"])
	assert.Len(t, obj, 7)
}

func TestDecodeReplyStrictRejectsProse(t *testing.T) {
	content := "Sure! Here's the data: " + contactJSON

	_, err := DecodeReply(content, "strict")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedReply)
}

func TestDecodeReplyStrictRejectsFences(t *testing.T) {
	content := "```json\n" + contactJSON + "\n```"

	_, err := DecodeReply(content, "strict")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedReply)
}

func TestDecodeReplyLenientRecoversFencedObject(t *testing.T) {
	content := "```json\n" + contactJSON + "\n```"

	obj, err := DecodeReply(content, "lenient")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", obj["name"])
}

func TestDecodeReplyLenientRecoversFromProse(t *testing.T) {
	content := "Sure! Here's the data: " + contactJSON + " Let me know if you need anything else."

	obj, err := DecodeReply(content, "lenient")
	require.NoError(t, err)
	assert.Equal(t, "jane@acme.com", obj["email"])
}

func TestDecodeReplyRejectsNonObjectJSON(t *testing.T) {
	for _, content := range []string{`["not","an","object"]`, `"just a string"`, `42`} {
		_, err := DecodeReply(content, "lenient")
		assert.ErrorIs(t, err, ErrMalformedReply, "content: %s", content)
	}
}

func TestDecodeReplyRejectsUnparseableContent(t *testing.T) {
	_, err := DecodeReply("no json here at all", "lenient")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedReply)
}
