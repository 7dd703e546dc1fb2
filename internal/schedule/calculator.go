package schedule

// ProgramAt resolves which item is airing at queryMs for a schedule anchored
// at anchorMs. For looping schedules any query time is valid, including times
// before the anchor: the loop number goes negative while the position within
// the loop stays in [0, TotalDurationMs). Non-looping schedules reject times
// outside their single pass.
func (idx *Index) ProgramAt(anchorMs, queryMs int64, loop bool) (*Program, error) {
	elapsed := queryMs - anchorMs
	total := idx.TotalDurationMs

	if !loop {
		if elapsed < 0 {
			return nil, ErrNotStarted
		}
		if elapsed >= total {
			return nil, ErrScheduleFinished
		}
	}

	loopNumber := floorDiv(elapsed, total)
	// Double modulo keeps the position non-negative when elapsed is negative
	position := ((elapsed % total) + total) % total

	i := idx.LocatePosition(position)
	item := idx.Items[i]

	startMs := anchorMs + loopNumber*total + idx.offsets[i]
	elapsedInItem := position - idx.offsets[i]

	return &Program{
		Item:        item,
		ItemIndex:   i,
		LoopNumber:  loopNumber,
		StartMs:     startMs,
		EndMs:       startMs + item.DurationMs,
		ElapsedMs:   elapsedInItem,
		RemainingMs: item.DurationMs - elapsedInItem,
	}, nil
}

// Next returns the program immediately following p in loop order, wrapping to
// the next loop iteration past the last item. Because program intervals
// partition the loop, the next program starts exactly where p ends.
func (idx *Index) Next(p *Program) *Program {
	i := p.ItemIndex + 1
	loopNumber := p.LoopNumber
	if i >= len(idx.Items) {
		i = 0
		loopNumber++
	}

	item := idx.Items[i]
	startMs := p.EndMs
	return &Program{
		Item:        item,
		ItemIndex:   i,
		LoopNumber:  loopNumber,
		StartMs:     startMs,
		EndMs:       startMs + item.DurationMs,
		ElapsedMs:   0,
		RemainingMs: item.DurationMs,
	}
}

// Previous returns the program immediately preceding p in loop order,
// wrapping to the prior loop iteration before the first item.
func (idx *Index) Previous(p *Program) *Program {
	i := p.ItemIndex - 1
	loopNumber := p.LoopNumber
	if i < 0 {
		i = len(idx.Items) - 1
		loopNumber--
	}

	item := idx.Items[i]
	endMs := p.StartMs
	return &Program{
		Item:        item,
		ItemIndex:   i,
		LoopNumber:  loopNumber,
		StartMs:     endMs - item.DurationMs,
		EndMs:       endMs,
		ElapsedMs:   0,
		RemainingMs: item.DurationMs,
	}
}

// WindowOf returns the programs whose intervals intersect [startMs, endMs),
// sorted ascending by start time. It walks forward from the program
// containing startMs instead of re-querying per step, which keeps a full-day
// window cheap at typical catalog sizes.
func (idx *Index) WindowOf(anchorMs, startMs, endMs int64, loop bool) (*Window, error) {
	if endMs <= startMs {
		return nil, ErrInvalidWindow
	}

	window := &Window{StartMs: startMs, EndMs: endMs}

	queryMs := startMs
	if !loop {
		// Clip the walk to the single pass of a non-looping schedule
		if queryMs < anchorMs {
			queryMs = anchorMs
		}
		if queryMs >= anchorMs+idx.TotalDurationMs || queryMs >= endMs {
			return window, nil
		}
	}

	cur, err := idx.ProgramAt(anchorMs, queryMs, loop)
	if err != nil {
		return nil, err
	}

	for cur.StartMs < endMs {
		window.Programs = append(window.Programs, *cur)
		if !loop && cur.ItemIndex == len(idx.Items)-1 {
			break
		}
		cur = idx.Next(cur)
	}

	return window, nil
}

// floorDiv divides a by b rounding toward negative infinity, so query times
// before the anchor produce negative loop numbers instead of truncating to 0
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
