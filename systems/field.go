package systems

import "gonum.org/v1/gonum/floats"

// Field is a dense row-major scalar grid of W columns by H rows.
type Field struct {
	W, H int
	Data []float64
}

// NewField creates a grid with every cell set to fill.
func NewField(w, h int, fill float64) *Field {
	f := &Field{W: w, H: h, Data: make([]float64, w*h)}
	f.Fill(fill)
	return f
}

// Fill sets every cell to v.
func (f *Field) Fill(v float64) {
	for i := range f.Data {
		f.Data[i] = v
	}
}

// InBounds reports whether (x, y) is a valid cell.
func (f *Field) InBounds(x, y int) bool {
	return x >= 0 && x < f.W && y >= 0 && y < f.H
}

// At returns the value at (x, y). The cell must be in bounds.
func (f *Field) At(x, y int) float64 {
	return f.Data[y*f.W+x]
}

// Set assigns the value at (x, y).
func (f *Field) Set(x, y int, v float64) {
	f.Data[y*f.W+x] = v
}

// Add adds delta to the value at (x, y).
func (f *Field) Add(x, y int, delta float64) {
	f.Data[y*f.W+x] += delta
}

// Sum returns the total over all cells.
func (f *Field) Sum() float64 {
	return floats.Sum(f.Data)
}

// Clone returns an independent copy.
func (f *Field) Clone() *Field {
	data := make([]float64, len(f.Data))
	copy(data, f.Data)
	return &Field{W: f.W, H: f.H, Data: data}
}

// Rows returns a freshly allocated [row][column] copy for consumers.
func (f *Field) Rows() [][]float64 {
	rows := make([][]float64, f.H)
	for y := range rows {
		rows[y] = make([]float64, f.W)
		copy(rows[y], f.Data[y*f.W:(y+1)*f.W])
	}
	return rows
}
