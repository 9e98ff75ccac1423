package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathBIP44String(t *testing.T) {
	tests := []struct {
		path     Path
		coinType uint32
		expected string
	}{
		{
			path:     NewPath(0, 0),
			coinType: 877,
			expected: "m/44'/877'/0'/0",
		},
		{
			path:     NewPathWithIndex(0, 0, 0),
			coinType: 877,
			expected: "m/44'/877'/0'/0/0",
		},
		{
			path:     NewPathWithIndex(3, 1, 7),
			coinType: 118,
			expected: "m/44'/118'/3'/1/7",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.path.BIP44(tt.coinType).String())
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		strPath  string
		expected Path
	}{
		{strPath: "0/0", expected: NewPath(0, 0)},
		{strPath: "0/0/0", expected: NewPathWithIndex(0, 0, 0)},
		{strPath: "3/1/7", expected: NewPathWithIndex(3, 1, 7)},
	}
	for _, tt := range tests {
		path, err := ParsePath(tt.strPath)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, path)
	}
}

func TestFailingParsePath(t *testing.T) {
	tests := []struct {
		strPath string
		err     error
	}{
		{strPath: "", err: ErrNullDerivationPath},
		{strPath: "0", err: ErrMalformedDerivationPath},
		{strPath: "0/0/0/0", err: ErrMalformedDerivationPath},
		{strPath: "0//0", err: ErrMalformedDerivationPath},
		{strPath: "a/b/c", err: ErrMalformedDerivationPath},
		{strPath: "-1/0/0", err: ErrMalformedDerivationPath},
	}
	for _, tt := range tests {
		_, err := ParsePath(tt.strPath)
		assert.Equal(t, tt.err, err)
	}
}
