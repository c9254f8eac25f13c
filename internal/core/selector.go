package core

import "math/rand/v2"

// NextSpeaker picks the next speaker uniformly at random from the roster,
// excluding prev when an alternative exists. A single-member roster returns
// that member even if it equals prev.
func NextSpeaker(rnd *rand.Rand, roster []string, prev string) string {
	if len(roster) == 1 {
		return roster[0]
	}
	eligible := make([]string, 0, len(roster))
	for _, s := range roster {
		if s != prev {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) == 0 {
		// prev is not on the roster at all, or roster is empty
		eligible = roster
	}
	return eligible[rnd.IntN(len(eligible))]
}
