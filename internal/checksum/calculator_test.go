package checksum

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapReader map[string][]byte

func (m mapReader) ReadFile(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return content, nil
}

func TestSHA256_Calculate(t *testing.T) {
	c := New()

	assert.Equal(t, "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", c.Calculate(nil))
	assert.Equal(t, c.Calculate([]byte("Code,Title\n")), c.Calculate([]byte("Code,Title\n")))
	assert.NotEqual(t, c.Calculate([]byte("Code,Title\n")), c.Calculate([]byte("Code,Title\r\n")))
}

func TestFile(t *testing.T) {
	r := mapReader{"raw/naics.csv": []byte("abc")}

	sum, err := File(New(), r, "raw/naics.csv")
	require.NoError(t, err)
	assert.Equal(t, "sha256:ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)

	_, err = File(New(), r, "missing.csv")
	assert.Error(t, err)
}
