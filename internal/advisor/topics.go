package advisor

import (
	"math/rand"
	"sync"
)

// Topic is a bucket of environmental facts.
type Topic struct {
	Name string
	Tips []string
}

// Topics are the canned facts used for random tips and offline answers.
var Topics = []Topic{
	{
		Name: "pollution",
		Tips: []string{
			"Plastic pollution affects over 700 marine species.",
			"Air pollution causes around 7 million premature deaths every year.",
			"Microplastics have been found in human blood and organs.",
		},
	},
	{
		Name: "recycling",
		Tips: []string{
			"Recycling one aluminum can saves enough energy to run a TV for 3 hours.",
			"Glass can be recycled endlessly without losing quality.",
			"Recycled paper takes 60% less energy to make than new paper.",
		},
	},
	{
		Name: "energy",
		Tips: []string{
			"Solar panels keep generating electricity for 25 years or more.",
			"LED bulbs use 75% less energy than incandescent bulbs.",
			"Wind power could supply 20 times the world's current electricity needs.",
		},
	},
	{
		Name: "forests",
		Tips: []string{
			"A tree absorbs about 48 pounds of CO2 a year.",
			"Forests are home to 80% of land-based biodiversity.",
			"Deforestation accounts for about 10% of global CO2 emissions.",
		},
	},
	{
		Name: "water",
		Tips: []string{
			"Only 3% of Earth's water is fresh, and most of that is frozen.",
			"A dripping faucet can waste over 3,000 gallons a year.",
			"Making a single pair of jeans takes about 1,800 gallons of water.",
		},
	},
}

// TipBook picks facts at random. It is safe for concurrent use.
type TipBook struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewTipBook creates a tip book seeded with seed.
func NewTipBook(seed int64) *TipBook {
	return &TipBook{rng: rand.New(rand.NewSource(seed))}
}

// Random returns a fact from any topic.
func (b *TipBook) Random() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	topic := Topics[b.rng.Intn(len(Topics))]
	return topic.Tips[b.rng.Intn(len(topic.Tips))]
}

// About returns a fact from the named topic, or from any topic if the
// name is unknown.
func (b *TipBook) About(name string) string {
	for _, topic := range Topics {
		if topic.Name != name {
			continue
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		return topic.Tips[b.rng.Intn(len(topic.Tips))]
	}
	return b.Random()
}
