package mem

// DefaultWordsPageSize provides a default for Words.PageSize.
const DefaultWordsPageSize = 64

// Words implements a 32-bit word paged memory.
// Pages may not necessarily be the same size, but usually are in practice.
type Words struct {
	PagedCore
	pages [][]uint32
}

// Size returns an address one position higher than the last position in the
// last page allocated so far.
func (m *Words) Size() uint {
	if i := len(m.bases) - 1; i >= 0 {
		return m.bases[i] + uint(len(m.pages[i]))
	}
	return 0
}

// Load returns a single word from the given address.
// Unallocated pages are left unallocated, resulting in implicit 0 values.
func (m *Words) Load(addr uint) (uint32, error) {
	if err := m.checkLimit(addr, addr+1, "load"); err != nil {
		return 0, err
	}
	if len(m.pages) == 0 {
		return 0, nil
	}
	pageID := m.findPage(addr)
	base := m.bases[pageID]
	page := m.pages[pageID]
	if i := int(addr) - int(base); 0 <= i && i < len(page) {
		return page[i], nil
	}
	return 0, nil
}

// LoadInto reads len(buf) words from memory starting at addr, zeroing the
// result buffer wherever an unallocated page is encountered.
// Returns an error if Limit would be exceeded; no partial load is done.
func (m *Words) LoadInto(addr uint, buf []uint32) error {
	if len(buf) == 0 {
		return nil
	}

	end := addr + uint(len(buf))
	if err := m.checkLimit(addr, end, "load"); err != nil {
		return err
	}

	for pageID := m.findPage(addr); addr < end && pageID < len(m.bases); pageID++ {
		base := m.bases[pageID]
		if base > end {
			break
		}

		if skip := int(base) - int(addr); skip > 0 {
			if skip >= len(buf) {
				break
			}
			addr += uint(skip)
			for i := range buf[:skip] {
				buf[i] = 0
			}
			buf = buf[skip:]
		}

		page := m.pages[pageID]
		if skip := int(addr) - int(base); skip > 0 {
			if skip >= len(page) {
				continue
			}
			page = page[skip:]
		}

		n := copy(buf, page)
		buf = buf[n:]
		addr += uint(n)
	}

	for i := range buf {
		buf[i] = 0
	}

	return nil
}

// Stor stores any values at addr, allocating pages if necessary.
// Returns an error if Limit would be exceeded; no partial store is done.
func (m *Words) Stor(addr uint, values ...uint32) error {
	if len(values) == 0 {
		return nil
	}

	end := addr + uint(len(values))
	if err := m.checkLimit(addr, end, "stor"); err != nil {
		return err
	}

	if m.PageSize == 0 {
		m.PageSize = DefaultWordsPageSize
	}

	for pageID := m.findPage(addr); addr < end; pageID++ {
		base, size, page := m.allocPage(pageID, addr)
		if skip := addr - base; skip > 0 {
			if skip >= size {
				continue
			}
			page = page[skip:]
		}
		n := copy(page, values)
		values = values[n:]
		addr += uint(n)
	}

	return nil
}

// Each calls f with every non-zero word held in allocated pages, in address
// order.
func (m *Words) Each(f func(addr uint, val uint32)) {
	for pageID, page := range m.pages {
		base := m.bases[pageID]
		for i, val := range page {
			if val != 0 {
				f(base+uint(i), val)
			}
		}
	}
}

// Reset drops all pages; every address reads as zero afterwards.
func (m *Words) Reset() {
	m.reset()
	m.pages = m.pages[:0]
}

func (m *Words) allocPage(pageID int, addr uint) (base, size uint, page []uint32) {
	base, size, isNew := m.PagedCore.allocPage(pageID, addr)
	if isNew {
		page = make([]uint32, size)
		if pageID == len(m.pages) {
			m.pages = append(m.pages, page)
		} else {
			m.pages = append(m.pages, nil)
			copy(m.pages[pageID+1:], m.pages[pageID:])
			m.pages[pageID] = page
		}
	} else {
		page = m.pages[pageID]
	}
	return base, size, page
}
