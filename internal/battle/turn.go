package battle

import (
	"math/rand/v2"
)

// turnQueue hands out BVJ turns: a uniformly shuffled permutation of the
// currently eligible students, popped front to back, reseeded each round.
// Not safe for concurrent use; the owning session serializes access.
type turnQueue struct {
	queue   []int
	shuffle func([]int)
	rounds  int
}

func defaultShuffle(ids []int) {
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

// newTurnQueue seeds the first round from the eligible ids. A nil shuffle
// uses the package default; tests inject a deterministic one.
func newTurnQueue(eligible []int, shuffle func([]int)) *turnQueue {
	if shuffle == nil {
		shuffle = defaultShuffle
	}
	tq := &turnQueue{shuffle: shuffle}
	tq.reseed(eligible)
	return tq
}

func (tq *turnQueue) reseed(eligible []int) {
	tq.queue = append(tq.queue[:0], eligible...)
	tq.shuffle(tq.queue)
	tq.rounds++
}

// next pops the head of the queue. When the queue is exhausted it re-seeds
// from the still-eligible ids; roundDone is true exactly on that boundary.
// ok is false when no eligible student remains, which the session interprets
// as the BVJ defeat trigger rather than an error. last is the previous turn
// holder: a fresh round never re-opens with the same student while at least
// two remain eligible.
func (tq *turnQueue) next(eligible []int, last int) (studentID int, roundDone, ok bool) {
	if len(tq.queue) == 0 {
		roundDone = true
		if len(eligible) == 0 {
			return 0, roundDone, false
		}
		tq.reseed(eligible)
		if len(tq.queue) > 1 && tq.queue[0] == last {
			tq.queue[0], tq.queue[len(tq.queue)-1] = tq.queue[len(tq.queue)-1], tq.queue[0]
		}
	}
	studentID = tq.queue[0]
	tq.queue = tq.queue[1:]
	return studentID, roundDone, true
}

// exhaustedRounds counts how many times the queue has been reseeded beyond
// the initial round.
func (tq *turnQueue) exhaustedRounds() int {
	return tq.rounds - 1
}
