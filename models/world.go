package models

// MapLayout describes an arena map: a legend of symbols to tile kind names
// and the row-major symbol data, first row at the top
type MapLayout struct {
	Name   string            `json:"name"`
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Legend map[string]string `json:"legend"`
	Data   []string          `json:"data"`
}

// DefaultMapName is the layout name the server seeds into storage
const DefaultMapName = "classic"

// DefaultMapLayout returns the 13x13 arena with a spawn in every corner
// and a rock/block checkerboard in the middle
func DefaultMapLayout() *MapLayout {
	rows := []string{
		"s  ooooooo  s",
		" xoxoxoxoxox ",
		" ooooooooooo ",
		"oxoxoxoxoxoxo",
		"ooooooooooooo",
		"oxoxoxoxoxoxo",
		"ooooooooooooo",
		"oxoxoxoxoxoxo",
		"ooooooooooooo",
		"oxoxoxoxoxoxo",
		" ooooooooooo ",
		" xoxoxoxoxox ",
		"s  ooooooo  s",
	}
	return LayoutFromRows(DefaultMapName, rows, map[string]string{
		"s": "Spawn",
		" ": "Grass",
		"o": "Block",
		"x": "Rock",
	})
}

// LayoutFromRows builds a layout from equally long rows of single-byte symbols
func LayoutFromRows(name string, rows []string, legend map[string]string) *MapLayout {
	layout := &MapLayout{
		Name:   name,
		Height: len(rows),
		Legend: legend,
	}
	if len(rows) > 0 {
		layout.Width = len(rows[0])
	}
	for _, row := range rows {
		for i := 0; i < len(row); i++ {
			layout.Data = append(layout.Data, row[i:i+1])
		}
	}
	return layout
}

// Clone returns a deep copy of the layout
func (m *MapLayout) Clone() *MapLayout {
	cp := *m
	cp.Legend = make(map[string]string, len(m.Legend))
	for k, v := range m.Legend {
		cp.Legend[k] = v
	}
	cp.Data = append([]string(nil), m.Data...)
	return &cp
}
