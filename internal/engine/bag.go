package engine

import (
	"math/rand"

	"blockfall/internal/tetromino"
)

// minQueueLen is the lookahead the preview queue must never drop below.
// Whenever a draw would leave the queue at or below this length a freshly
// shuffled bag of all seven kinds is appended.
const minQueueLen = 7

// BagSource produces shuffled permutations of the seven piece kinds. The
// entropy source is injectable so tests can run deterministically.
type BagSource interface {
	NextBag() [7]tetromino.Kind
}

// shuffledBag is the production BagSource, backed by a seeded rand.Rand.
type shuffledBag struct {
	rng *rand.Rand
}

// NewBagSource returns a BagSource producing uniform random permutations
// from the given seed.
func NewBagSource(seed int64) BagSource {
	return &shuffledBag{rng: rand.New(rand.NewSource(seed))}
}

func (s *shuffledBag) NextBag() [7]tetromino.Kind {
	bag := tetromino.Kinds
	s.rng.Shuffle(len(bag), func(i, j int) {
		bag[i], bag[j] = bag[j], bag[i]
	})
	return bag
}

// refillQueue appends fresh bags until the queue holds more than
// minQueueLen kinds. The input slice is never mutated.
func refillQueue(queue []tetromino.Kind, src BagSource) []tetromino.Kind {
	if len(queue) > minQueueLen {
		return queue
	}
	next := make([]tetromino.Kind, len(queue), len(queue)+minQueueLen)
	copy(next, queue)
	for len(next) <= minQueueLen {
		bag := src.NextBag()
		next = append(next, bag[:]...)
	}
	return next
}

// drawKind pops the front of the queue, refilling first so the lookahead
// invariant holds after the draw.
func drawKind(queue []tetromino.Kind, src BagSource) (tetromino.Kind, []tetromino.Kind) {
	queue = refillQueue(queue, src)
	return queue[0], queue[1:]
}
