package dict

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_SupportedVersions(t *testing.T) {
	for _, bs := range SupportedBeginStrings {
		d, err := Builtin(bs)
		require.NoError(t, err)
		assert.Equal(t, bs, d.BeginString)
		assert.NoError(t, d.Validate())
	}
}

func TestBuiltin_UnsupportedVersion(t *testing.T) {
	_, err := Builtin("FIXT.1.1")
	assert.Error(t, err)
}

func TestDictionary_FieldByName_CaseInsensitive(t *testing.T) {
	d, err := Builtin("FIX.4.2")
	require.NoError(t, err)

	f, ok := d.FieldByName("SenderCompID")
	require.True(t, ok)
	assert.Equal(t, 49, f.Number)

	f2, ok := d.FieldByName("sender_comp_id")
	require.True(t, ok)
	assert.Equal(t, f.Number, f2.Number)
}

func TestDictionary_Message(t *testing.T) {
	d, err := Builtin("FIX.4.4")
	require.NoError(t, err)

	logon, ok := d.Message("A")
	require.True(t, ok)
	assert.True(t, logon.IsRequired(108))
	assert.False(t, logon.IsRequired(554))
}

func TestLoad_YAML(t *testing.T) {
	doc := `
begin_string: FIX.4.2
header: [8, 9, 35]
trailer: [10]
fields:
  - {number: 8, name: BeginString, type: STRING}
  - {number: 9, name: BodyLength, type: LENGTH}
  - {number: 35, name: MsgType, type: STRING}
  - {number: 10, name: CheckSum, type: STRING}
  - {number: 44, name: Price, type: PRICE}
messages:
  - msg_type: "D"
    name: NewOrderSingle
    fields: [44]
    required: [44]
`
	d, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	m, ok := d.Message("D")
	require.True(t, ok)
	assert.True(t, m.IsRequired(44))
}
