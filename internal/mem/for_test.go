package mem

// WordsDump provides data for testing.
type WordsDump struct {
	Bases []uint
	Sizes []uint
	Pages [][]uint32
}

// Dump memory data for testing.
func (m *Words) Dump() (d WordsDump) {
	d.Bases = m.bases
	d.Sizes = m.sizes
	d.Pages = m.pages
	return d
}
