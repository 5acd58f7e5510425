package content

import "fmt"

// Catalog indexes the levels of one or more courses. Unlock order follows
// the order of levels within their course.
type Catalog struct {
	courses []*Course
	byID    map[string]*Level
	next    map[string]string
	first   map[string]bool
}

// NewCatalog builds a catalog. Level ids must be unique across courses.
func NewCatalog(courses ...*Course) (*Catalog, error) {
	cat := &Catalog{
		byID:  make(map[string]*Level),
		next:  make(map[string]string),
		first: make(map[string]bool),
	}
	for _, c := range courses {
		if c == nil {
			continue
		}
		cat.courses = append(cat.courses, c)
		for i := range c.Levels {
			l := &c.Levels[i]
			if _, dup := cat.byID[l.ID]; dup {
				return nil, fmt.Errorf("%w: level id %q appears in more than one course", ErrInvalidContent, l.ID)
			}
			cat.byID[l.ID] = l
			if i == 0 {
				cat.first[l.ID] = true
			}
			if i+1 < len(c.Levels) {
				cat.next[l.ID] = c.Levels[i+1].ID
			}
		}
	}
	return cat, nil
}

// Courses returns the catalogued courses in load order.
func (c *Catalog) Courses() []*Course {
	return c.courses
}

// Levels returns every level in course order.
func (c *Catalog) Levels() []Level {
	var out []Level
	for _, course := range c.courses {
		out = append(out, course.Levels...)
	}
	return out
}

// Level returns a level by id.
func (c *Catalog) Level(id string) (Level, bool) {
	l, ok := c.byID[id]
	if !ok {
		return Level{}, false
	}
	return *l, true
}

// Next returns the level unlocked by completing id, if any.
func (c *Catalog) Next(id string) (Level, bool) {
	nextID, ok := c.next[id]
	if !ok {
		return Level{}, false
	}
	return c.Level(nextID)
}

// InitiallyUnlocked reports whether a level is playable on a fresh profile:
// the first level of each course, plus any flagged as unlocked by default.
func (c *Catalog) InitiallyUnlocked(id string) bool {
	l, ok := c.byID[id]
	if !ok {
		return false
	}
	return c.first[id] || l.UnlockedByDefault
}
