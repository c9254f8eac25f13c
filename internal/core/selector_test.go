package core

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 13))
}

func TestNextSpeakerNeverRepeats(t *testing.T) {
	rnd := testRand()
	roster := []string{"nyx", "zero", "echo"}
	prev := ""
	for i := 0; i < 500; i++ {
		next := NextSpeaker(rnd, roster, prev)
		assert.Contains(t, roster, next)
		if prev != "" {
			assert.NotEqual(t, prev, next)
		}
		prev = next
	}
}

func TestNextSpeakerSingleMemberRoster(t *testing.T) {
	rnd := testRand()
	// no-repeat only applies when an alternative exists
	assert.Equal(t, "nyx", NextSpeaker(rnd, []string{"nyx"}, "nyx"))
}

func TestNextSpeakerUnknownPrev(t *testing.T) {
	rnd := testRand()
	roster := []string{"bull", "bear"}
	next := NextSpeaker(rnd, roster, "someone-else")
	assert.Contains(t, roster, next)
}

func TestNextSpeakerCoversRoster(t *testing.T) {
	rnd := testRand()
	roster := []string{"bull", "bear", "degen"}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[NextSpeaker(rnd, roster, "")] = true
	}
	assert.Len(t, seen, 3)
}
