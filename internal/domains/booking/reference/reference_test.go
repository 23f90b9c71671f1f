package reference_test

import (
	"strings"
	"sync"
	"testing"

	"rihla/internal/domains/booking/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	gen := reference.New("RHL")

	ref := gen.Generate()

	parts := strings.Split(ref, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "RHL", parts[0])
	assert.NotEmpty(t, parts[1])
	assert.Len(t, parts[2], 8)
	assert.Equal(t, strings.ToUpper(ref), ref)
}

func TestGenerateUniqueUnderConcurrency(t *testing.T) {
	gen := reference.New("RHL")

	const workers = 8
	const perWorker = 250

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range perWorker {
				ref := gen.Generate()

				mu.Lock()
				seen[ref] = true
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
