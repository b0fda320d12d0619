package domain

// PageRequest selects one page of a list held in memory. Pages start at 1.
type PageRequest struct {
	Page int
	Size int
}

// Window returns the [start, end) bounds of the page within n items. A page past the
// end yields start == end == n.
func (p PageRequest) Window(n int) (start, end int) {
	if p.Page < 1 || p.Size < 1 {
		return 0, 0
	}
	start = min((p.Page-1)*p.Size, n)
	end = min(start+p.Size, n)
	return start, end
}
