package proto

// InputColumn is one column a caller pushes on the INSERT path: a name
// and the column holding the rows appended so far.
type InputColumn struct {
	Name string
	Data ColInput
}

// Input is the ordered set of columns encoded into an outgoing Data
// block, matching the schema block the server replied with.
type Input []InputColumn

// Rows returns the row count of the first column, or 0 for an empty
// Input; every column in a well-formed Input shares one row count.
func (in Input) Rows() int {
	if len(in) == 0 {
		return 0
	}
	return in[0].Data.Rows()
}

// Reset clears every column, ready for the next block.
func (in Input) Reset() {
	for _, c := range in {
		c.Data.Reset()
	}
}

// Into builds an Input in the column order of names (as reported by a
// schema block), picking columns out of in by name. It returns false if
// any name has no matching column in in.
func (in Input) Into(names []string) (Input, bool) {
	out := make(Input, 0, len(names))
	for _, name := range names {
		var found *InputColumn
		for i := range in {
			if in[i].Name == name {
				found = &in[i]
				break
			}
		}
		if found == nil {
			return nil, false
		}
		out = append(out, *found)
	}
	return out, true
}
