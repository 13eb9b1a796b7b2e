//go:build !integration

package workflow

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDRegistryClaim(t *testing.T) {
	r := newIDRegistry()

	assert.Equal(t, "changed-js", r.claim("changed-js", "regex-a"), "free canonical name")
	assert.Equal(t, "changed-js", r.claim("changed-js", "regex-a"), "identical content reuses the id")
	assert.Equal(t, "changed-js-2", r.claim("changed-js", "regex-b"), "different content gets a suffix")
	assert.Equal(t, "changed-js-2", r.claim("changed-js", "regex-b"), "suffixed id also reuses")
	assert.Equal(t, "changed-js-3", r.claim("changed-js", "regex-c"))
}

func TestIDRegistryClaimUser(t *testing.T) {
	r := newIDRegistry()
	r.claimUser("changed-js")
	r.claimUser("changed-js") // reserving twice is fine

	assert.Equal(t, "changed-js-2", r.claim("changed-js", "regex-a"), "generated ids step around user ids")
}

func TestIDRegistryUnique(t *testing.T) {
	r := newIDRegistry()

	assert.Equal(t, "bail", r.unique("bail"))
	assert.Equal(t, "bail-2", r.unique("bail"), "unique never reuses")
	assert.Equal(t, "bail-3", r.unique("bail"))
}

func TestIDRegistryConcurrentClaims(t *testing.T) {
	r := newIDRegistry()
	var wg sync.WaitGroup
	ids := make([]string, 32)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = r.unique("gate")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
