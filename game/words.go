package game

import "math/rand"

// Categories is the static category to word-list table. Consumed read-only.
var Categories = map[string][]string{
	"Food":          {"Pizza", "Sushi", "Burger", "Pasta", "Taco", "Salad", "Steak", "Ramen", "Donut", "Pancake"},
	"Objects":       {"Laptop", "Camera", "Guitar", "Watch", "Umbrella", "Backpack", "Bicycle", "Telescope", "Compass", "Key"},
	"Nature":        {"Mountain", "Ocean", "Forest", "Desert", "Volcano", "Waterfall", "Island", "Canyon", "River", "Glacier"},
	"Entertainment": {"Movie", "Music", "Game", "Dance", "Concert", "Theater", "Painting", "Podcast", "Novel", "Circus"},
	"Daily Life":    {"Coffee", "Shower", "Sleep", "Work", "School", "Gym", "Cooking", "Reading", "Driving", "Shopping"},
}

var AvatarColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEEAD",
	"#D4A5A5", "#9B59B6", "#E67E22", "#2ECC71", "#34495E",
}

var Difficulties = []string{"Easy", "Medium", "Hard"}

type randomWordPicker struct {
	rng *rand.Rand
}

// NewRandomWordPicker picks uniformly from the category catalogue. The random
// source is injected so word selection is reproducible in tests.
func NewRandomWordPicker(rng *rand.Rand) *randomWordPicker {
	return &randomWordPicker{rng: rng}
}

func (g *randomWordPicker) Pick(category string) (string, bool) {
	words, ok := Categories[category]
	if !ok || len(words) == 0 {
		return "", false
	}
	return words[g.rng.Intn(len(words))], true
}
