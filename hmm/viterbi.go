package hmm

import "math"

var negInf = math.Inf(-1)

// lattice describes a hidden Markov model in log space over observations
// of type O. Impossible starts, transitions and emissions are -Inf.
type lattice[O any] interface {
	numStates() int
	start(state int) float64
	trans(from, to int) float64
	emit(state int, o O) float64
	// final reports whether a path may end in state.
	final(state int) bool
}

// viterbi returns the most probable state sequence for obs. States are
// compared in index order and only a strictly greater score replaces the
// current best, so results are deterministic. ok is false when no path
// ends in a final state.
func viterbi[O any](l lattice[O], obs []O) (path []int, ok bool) {
	n, k := len(obs), l.numStates()
	if n == 0 {
		return []int{}, true
	}

	prev := make([]float64, k)
	cur := make([]float64, k)
	back := make([][]int, n)
	for s := 0; s < k; s++ {
		prev[s] = l.start(s) + l.emit(s, obs[0])
	}
	for t := 1; t < n; t++ {
		back[t] = make([]int, k)
		for to := 0; to < k; to++ {
			best, arg := negInf, 0
			for from := 0; from < k; from++ {
				if math.IsInf(prev[from], -1) {
					continue
				}
				if p := prev[from] + l.trans(from, to); p > best {
					best, arg = p, from
				}
			}
			cur[to] = best + l.emit(to, obs[t])
			back[t][to] = arg
		}
		prev, cur = cur, prev
	}

	best, last := negInf, -1
	for s := 0; s < k; s++ {
		if l.final(s) && prev[s] > best {
			best, last = prev[s], s
		}
	}
	if last < 0 {
		return nil, false
	}

	path = make([]int, n)
	path[n-1] = last
	for t := n - 1; t > 0; t-- {
		path[t-1] = back[t][path[t]]
	}
	return path, true
}
