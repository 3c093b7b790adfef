package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "v1.2.3", Normalize("1.2.3"))
	assert.Equal(t, "v1.2.3", Normalize(" v1.2.3 "))
}

func TestString(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "dev", ""
	assert.False(t, IsRelease(Version))
	assert.Equal(t, "dev", String())

	Version, Commit = "1.4", "abc123"
	assert.True(t, IsRelease(Version))
	assert.Equal(t, "v1.4.0 (abc123)", String())
}
