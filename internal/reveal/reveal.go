// Package reveal latches elements as visible the first time they scroll
// into view.
package reveal

// DefaultThreshold is the fraction of an element that must overlap the
// viewport before it is revealed.
const DefaultThreshold = 0.1

type span struct {
	top     int
	height  int
	visible bool
}

// Controller tracks pending elements by id. Positions are in content
// coordinates (rows of the scrolled document).
type Controller struct {
	Threshold float64

	order []string
	spans map[string]*span
}

// New returns a controller using DefaultThreshold.
func New() *Controller {
	return &Controller{Threshold: DefaultThreshold, spans: map[string]*span{}}
}

// Observe registers an element or updates its position. Re-observing a
// visible element keeps it visible.
func (c *Controller) Observe(id string, top, height int) {
	if c.spans == nil {
		c.spans = map[string]*span{}
	}
	if height < 0 {
		height = 0
	}
	if s, ok := c.spans[id]; ok {
		s.top = top
		s.height = height
		return
	}
	c.spans[id] = &span{top: top, height: height}
	c.order = append(c.order, id)
}

// Update checks every pending element against the viewport rows
// [viewTop, viewTop+viewHeight) and returns the ids revealed by this call in
// observation order.
func (c *Controller) Update(viewTop, viewHeight int) []string {
	if viewHeight <= 0 {
		return nil
	}
	viewBottom := viewTop + viewHeight
	var revealed []string
	for _, id := range c.order {
		s := c.spans[id]
		if s.visible {
			continue
		}
		if c.intersects(s, viewTop, viewBottom) {
			s.visible = true
			revealed = append(revealed, id)
		}
	}
	return revealed
}

func (c *Controller) intersects(s *span, viewTop, viewBottom int) bool {
	if s.height == 0 {
		return s.top >= viewTop && s.top < viewBottom
	}
	overlap := min(s.top+s.height, viewBottom) - max(s.top, viewTop)
	if overlap <= 0 {
		return false
	}
	threshold := c.Threshold
	if threshold <= 0 {
		return true
	}
	// An element taller than the viewport counts against the viewport.
	return float64(overlap)/float64(min(s.height, viewBottom-viewTop)) >= threshold
}

// Visible reports whether id has been revealed. Unknown ids are not visible.
func (c *Controller) Visible(id string) bool {
	s, ok := c.spans[id]
	return ok && s.visible
}

// Pending counts elements that have not been revealed yet.
func (c *Controller) Pending() int {
	n := 0
	for _, s := range c.spans {
		if !s.visible {
			n++
		}
	}
	return n
}

// RevealAll marks every element visible, for terminals where motion is
// unwanted.
func (c *Controller) RevealAll() {
	for _, s := range c.spans {
		s.visible = true
	}
}
