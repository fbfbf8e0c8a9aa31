// Package sequencer partitions an unordered set of audio chunks belonging to
// one (meeting, speaker) pair into ordered recording sequences. It is pure
// in-memory logic with no I/O.
package sequencer

import (
	"sort"

	"github.com/hoangnm2212/meetmerge/internal/meeting"
)

// accumulator collects chunks for the sequence currently being built. The
// two states are Idle (no sequence open) and Open.
type accumulator struct {
	chunks []meeting.Chunk
}

func (a *accumulator) open() bool {
	return a.chunks != nil
}

func (a *accumulator) begin(c meeting.Chunk) {
	a.chunks = []meeting.Chunk{c}
}

func (a *accumulator) append(c meeting.Chunk) {
	a.chunks = append(a.chunks, c)
}

func (a *accumulator) flush() meeting.Sequence {
	seq := meeting.Sequence{Chunks: a.chunks}
	a.chunks = nil
	return seq
}

// Reconstruct groups chunks into complete recording sequences, each bracketed
// by a start and an end chunk, ordered by start time. Malformed input is
// recovered rather than dropped:
//   - a start chunk while a sequence is open flushes the open sequence first
//     (the previous run never saw its end);
//   - an orphan middle chunk with no open sequence opens a new one;
//   - a trailing open sequence with no end chunk is emitted as-is.
//
// Output sequences appear in chronological order of their first chunk. The
// result is deterministic regardless of input order.
func Reconstruct(chunks []meeting.Chunk) []meeting.Sequence {
	if len(chunks) == 0 {
		return nil
	}

	sorted := make([]meeting.Chunk, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	var sequences []meeting.Sequence
	var acc accumulator

	for _, chunk := range sorted {
		switch chunk.Position {
		case meeting.PositionStart:
			if acc.open() {
				sequences = append(sequences, acc.flush())
			}
			acc.begin(chunk)

		case meeting.PositionMiddle:
			if acc.open() {
				acc.append(chunk)
			} else {
				// Orphan middle with no preceding start: keep the data,
				// treat it as the de-facto first element.
				acc.begin(chunk)
			}

		case meeting.PositionEnd:
			if acc.open() {
				acc.append(chunk)
			} else {
				acc.begin(chunk)
			}
			sequences = append(sequences, acc.flush())
		}
	}

	// Recording interrupted before its end chunk arrived.
	if acc.open() {
		sequences = append(sequences, acc.flush())
	}

	return sequences
}
