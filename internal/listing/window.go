package listing

// Ellipsis marks a gap in EllipsisPages output.
const Ellipsis = -1

const windowWidth = 5

// WindowPages returns up to five 0-based page indexes centred on current and
// clamped to [0, total-1].
func WindowPages(current, total int) []int {
	if total <= 0 {
		return nil
	}
	if current < 0 {
		current = 0
	}
	if current > total-1 {
		current = total - 1
	}
	start := current - windowWidth/2
	if start < 0 {
		start = 0
	}
	end := start + windowWidth - 1
	if end > total-1 {
		end = total - 1
		start = max(0, end-windowWidth+1)
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// EllipsisPages returns 1-based page numbers. Up to seven pages are all shown;
// beyond that the first, the last and the neighbours of current are shown with
// Ellipsis entries for the gaps.
func EllipsisPages(current, total int) []int {
	if total <= 0 {
		return nil
	}
	if total <= 7 {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	pages := []int{1}
	if current > 3 {
		pages = append(pages, Ellipsis)
	}
	for p := max(2, current-1); p <= min(total-1, current+1); p++ {
		pages = append(pages, p)
	}
	if current < total-2 {
		pages = append(pages, Ellipsis)
	}
	return append(pages, total)
}
