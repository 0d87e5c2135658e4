package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordKindOf(t *testing.T) {
	r := NewRecord()
	r.Ints["i"] = 1
	r.Floats["f"] = 1.5
	r.Strings["s"] = "x"
	r.Floats["both"] = 2
	r.Strings["both"] = "y"

	tests := []struct {
		key  string
		want Kind
	}{
		{"i", KindInt},
		{"f", KindFloat},
		{"s", KindString},
		{"both", KindFloat},
		{"none", KindNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.KindOf(tt.key), tt.key)
		assert.Equal(t, tt.want != KindNone, r.HasKey(tt.key), tt.key)
	}
}

func TestRecordRemove(t *testing.T) {
	r := NewRecord()
	r.Ints["k"] = 1
	r.Strings["k"] = "v"

	assert.Equal(t, KindInt, r.Remove("k"))
	assert.Equal(t, KindString, r.Remove("k"))
	assert.Equal(t, KindNone, r.Remove("k"))
	assert.False(t, r.HasKey("k"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "float", KindFloat.String())
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "none", KindNone.String())
}
