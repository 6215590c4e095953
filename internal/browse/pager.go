package browse

// PageSize is how many more jobs each Advance reveals by default
const PageSize = 12

// Pager windows an already fetched list
type Pager struct {
	visible int
	total   int
	step    int
}

// NewPager shows the first page of a list of total jobs
func NewPager(total int) *Pager {
	return NewPagerStep(total, PageSize)
}

// NewPagerStep is NewPager with a custom page size
func NewPagerStep(total, step int) *Pager {
	if step <= 0 {
		step = PageSize
	}
	p := &Pager{step: step}
	p.Reset(total)
	return p
}

// Visible is the number of jobs to show; it never exceeds the list length
func (p *Pager) Visible() int {
	return min(p.visible, p.total)
}

// Advance reveals the next page
func (p *Pager) Advance() int {
	p.visible = min(p.visible+p.step, p.total)
	return p.Visible()
}

// More reports whether Advance would reveal anything
func (p *Pager) More() bool {
	return p.Visible() < p.total
}

// Reset returns to the first page of a list of total jobs
func (p *Pager) Reset(total int) {
	if total < 0 {
		total = 0
	}
	p.total = total
	p.visible = p.step
}

// Window returns the visible prefix of jobs
func Window[T any](items []T, p *Pager) []T {
	n := min(p.Visible(), len(items))
	return items[:n]
}
