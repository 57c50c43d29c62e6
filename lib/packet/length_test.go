package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLength_Bytes(t *testing.T) {
	d := []byte("20260806-12:00:00.000")
	l1, err := LengthOf(d)
	assert.Nil(t, err)
	assert.EqualValues(t, len(d), l1)
	l2, err := DecodeLength(l1.Bytes())
	assert.Nil(t, err)
	assert.EqualValues(t, len(d), l2)
}
