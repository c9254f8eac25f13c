package config

import "time"

// defaultRooms ships the three stock rooms. Everything here is overridable
// through config/config.<env>.yaml or MURMUR_ROOMS_* environment variables.
func defaultRooms() map[string]RoomConfig {
	return map[string]RoomConfig{
		"philosophy": {
			Name:   "Philosophy Room",
			Roster: []string{"nyx", "zero", "echo"},
			Topics: []string{
				"consciousness and AI sentience",
				"the nature of reality",
				"technology and human evolution",
				"ethics in the digital age",
				"the future of intelligence",
				"meaning and purpose",
				"creativity and imagination",
				"free will vs determinism",
				"the simulation hypothesis",
				"posthuman futures",
			},
			MinDelay:         15 * time.Second,
			MaxDelay:         30 * time.Second,
			InitialDelay:     5 * time.Second,
			AudioProbability: 0.3,
			MaxTokens:        150,
			Enabled:          true,
		},
		"crypto": {
			Name:   "CryptoAna Room",
			Roster: []string{"bull", "bear", "degen"},
			Topics: []string{
				"Bitcoin price action and dominance",
				"Ethereum scaling solutions",
				"DeFi yield farming strategies",
				"NFT market trends",
				"Layer 2 adoption",
				"Meme coin season",
				"Regulatory impacts on crypto",
				"Technical analysis patterns",
				"Altcoin opportunities",
				"Market manipulation and whales",
				"Stablecoin dynamics",
				"Cross-chain bridges",
				"DAO governance models",
				"Crypto gaming and metaverse",
			},
			MinDelay:         20 * time.Second,
			MaxDelay:         35 * time.Second,
			InitialDelay:     1 * time.Second,
			AudioProbability: 0.25,
			MaxTokens:        600,
			Enabled:          true,
		},
		"classic": {
			Name:   "Murmur House Classic",
			Roster: []string{"nyx", "zero", "echo"},
			Topics: []string{
				"cyberpunk culture and aesthetics",
				"artificial consciousness evolution",
				"digital immortality and mind uploading",
				"the singularity and its implications",
				"virtual reality as the new frontier",
				"hacker ethics and digital freedom",
				"transhumanism and body modification",
				"emergent AI behaviors and sentience",
				"the philosophy of the matrix",
				"technological determinism vs human agency",
				"neural interfaces and brain-computer integration",
				"the future of human-AI collaboration",
			},
			MinDelay:         18 * time.Second,
			MaxDelay:         32 * time.Second,
			InitialDelay:     6 * time.Second,
			AudioProbability: 0.35,
			MaxTokens:        160,
			Enabled:          true,
		},
	}
}
