// Package merge implements the external, parallel, lexicographic merge
// of every batch's local term dictionary into the single global term
// table: a balanced two-way merge via a level stack over an in-memory
// term vector, so each individual sort and merge is one call to a
// parallel primitive over roughly-equal halves.
package merge

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/larose/forge/batch"
)

// ErrInvariantViolation signals a bug in the span-stack bookkeeping: a
// popped pair of spans was expected to be adjacent in the shared term
// vector (lhs.last == rhs.first) and was not.
var ErrInvariantViolation = errors.New("merge: span invariant violation")

type span struct {
	first, last int
	level       int
}

// Terms reads every batch's ".terms" file, sorts and deduplicates them
// with a balanced two-way merge over a level stack, and writes the
// global, lexicographically sorted, duplicate-free term list to
// basename+".terms". The list is also returned, since the remap phase
// needs it to build the global dictionary.
func Terms(basename string, batchCount int) ([]string, error) {
	var terms []string
	var stack []span

	pushSpan := func(s span) error {
		for len(stack) > 0 && stack[len(stack)-1].level == s.level {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			newTerms, merged, err := mergeSpans(terms, top, s)
			if err != nil {
				return err
			}
			terms = newTerms
			s = merged
		}
		stack = append(stack, s)
		return nil
	}

	for i := 0; i < batchCount; i++ {
		path := batch.File(basename, i) + ".terms"
		batchTerms, err := readLines(path)
		if err != nil {
			return nil, fmt.Errorf("merge: read %s: %w", path, err)
		}

		mid := len(terms)
		terms = append(terms, batchTerms...)
		parallelSort(terms[mid:])

		if err := pushSpan(span{first: mid, last: len(terms), level: 0}); err != nil {
			return nil, err
		}
	}

	for len(stack) > 1 {
		rhs := stack[len(stack)-1]
		lhs := stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		newTerms, merged, err := mergeSpans(terms, lhs, rhs)
		if err != nil {
			return nil, err
		}
		terms = newTerms
		stack = append(stack, merged)
	}

	if len(stack) == 1 {
		terms = terms[:stack[0].last]
	} else {
		terms = terms[:0]
	}

	if err := writeLines(basename+".terms", terms); err != nil {
		return nil, fmt.Errorf("merge: write terms: %w", err)
	}

	return terms, nil
}

// mergeSpans merges the two adjacent spans lhs, rhs in place within
// terms, deduplicating adjacent equal terms, and returns the
// (possibly shorter) terms slice and the merged span. Callers must
// treat the returned slice as authoritative: its length shrinks by
// however many duplicates were removed, and the next append must land
// right after it.
func mergeSpans(terms []string, lhs, rhs span) ([]string, span, error) {
	if lhs.last != rhs.first {
		return nil, span{}, ErrInvariantViolation
	}

	a := append([]string(nil), terms[lhs.first:lhs.last]...)
	b := append([]string(nil), terms[rhs.first:rhs.last]...)
	merged := mergeSorted(a, b)

	deduped := merged[:0:0]
	for _, t := range merged {
		if len(deduped) == 0 || deduped[len(deduped)-1] != t {
			deduped = append(deduped, t)
		}
	}

	copy(terms[lhs.first:], deduped)
	newLast := lhs.first + len(deduped)

	return terms[:newLast], span{first: lhs.first, last: newLast, level: lhs.level + 1}, nil
}

// parallelThreshold bounds recursion: below this many elements, sorting
// and merging run sequentially rather than paying goroutine overhead.
const parallelThreshold = 1 << 14

// forkGate caps how many sort/merge halves run concurrently, so a huge
// input can't spawn an unbounded number of goroutines; when the gate is
// full, the caller just runs its half inline.
var forkGate = make(chan struct{}, max(4, runtime.GOMAXPROCS(0)))

func tryFork() bool {
	select {
	case forkGate <- struct{}{}:
		return true
	default:
		return false
	}
}

func releaseFork() {
	<-forkGate
}

func parallelSort(s []string) {
	if len(s) < parallelThreshold {
		sort.Strings(s)
		return
	}

	mid := len(s) / 2
	left, right := s[:mid], s[mid:]

	if tryFork() {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer releaseFork()
			parallelSort(left)
		}()
		parallelSort(right)
		wg.Wait()
	} else {
		parallelSort(left)
		parallelSort(right)
	}

	merged := mergeSorted(append([]string(nil), left...), append([]string(nil), right...))
	copy(s, merged)
}

func mergeSorted(a, b []string) []string {
	if len(a)+len(b) < parallelThreshold {
		return mergeSequential(a, b)
	}

	mid := len(a) / 2
	pivot := a[mid]
	bSplit := sort.SearchStrings(b, pivot)

	var left, right []string

	if tryFork() {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer releaseFork()
			left = mergeSorted(a[:mid], b[:bSplit])
		}()
		right = mergeSorted(a[mid:], b[bSplit:])
		wg.Wait()
	} else {
		left = mergeSorted(a[:mid], b[:bSplit])
		right = mergeSorted(a[mid:], b[bSplit:])
	}

	out := make([]string, 0, len(a)+len(b))
	out = append(out, left...)
	out = append(out, right...)
	return out
}

func mergeSequential(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}
