package csvfeed

// Columns maps required column names onto their positions in a header row.
type Columns struct {
	// Positions holds the header index of each required column, or -1 when it was not found.
	Positions []int
	// Found counts the required columns that were located.
	Found int
	// Highest is the largest header index referenced by a found column. Every data
	// row must hold at least Highest+1 fields.
	Highest int
}

// Complete reports whether every required column was found.
func (c Columns) Complete() bool {
	return c.Found == len(c.Positions)
}

// DetectColumns locates the required column names in header.
func DetectColumns(header []string, required []string) Columns {
	c := Columns{Positions: make([]int, len(required))}
	for j := range c.Positions {
		c.Positions[j] = -1
	}

	// Required names found in order are not looked for again.
	first := 0
	for i, name := range header {
		for j := first; j < len(required); j++ {
			if name != required[j] || c.Positions[j] >= 0 {
				continue
			}

			c.Positions[j] = i
			if i > c.Highest {
				c.Highest = i
			}
			if j == first {
				first++
			}
			c.Found++
		}
	}

	return c
}
