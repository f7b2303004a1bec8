package grid

import (
	"errors"
	"fmt"
)

// Cell values. A Grid never holds anything else.
const (
	// Floor marks a walkable tile.
	Floor byte = 0
	// Wall marks a blocked tile.
	Wall byte = 1
)

// Sentinel errors for grid operations.
var (
	// ErrDimension indicates a non-positive width or height.
	ErrDimension = errors.New("grid: width and height must be positive")
	// ErrCellValue indicates a cell value outside {Floor, Wall}.
	ErrCellValue = errors.New("grid: cell value must be Floor or Wall")
	// ErrTileSize indicates a non-positive tile size.
	ErrTileSize = errors.New("grid: tile size must be positive")
	// ErrViewBounds indicates an out-of-range or inverted view rectangle.
	ErrViewBounds = errors.New("grid: view bounds out of range or inverted")
	// ErrNilGrid indicates a nil *Grid was passed where one is required.
	ErrNilGrid = errors.New("grid: grid is nil")
)

// Point is an integer coordinate in grid space, 0 ≤ X < width, 0 ≤ Y < height.
type Point struct {
	X, Y int
}

// ManhattanDistance returns |p.X−q.X| + |p.Y−q.Y|.
func ManhattanDistance(p, q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Grid is a dense 2D tile buffer in row-major order.
//
// A Grid is either the sole owner of its buffer (created by New, NewFilled,
// or Copy) or a view sharing another Grid's buffer (created by View). Views
// index through an offset and stride so that writes alias the source.
type Grid struct {
	width, height int
	stride        int
	offset        int
	cells         []byte
}

// New creates a width×height grid with every cell set to Floor.
// Returns ErrDimension if either dimension is ≤ 0.
// Complexity: O(W×H).
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrDimension, width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		stride: width,
		cells:  make([]byte, width*height),
	}, nil
}

// NewFilled creates a width×height grid with every cell set to value.
// Returns ErrDimension for non-positive dimensions and ErrCellValue for a
// value outside {Floor, Wall}.
// Complexity: O(W×H).
func NewFilled(width, height int, value byte) (*Grid, error) {
	if value != Floor && value != Wall {
		return nil, fmt.Errorf("%w: got %d", ErrCellValue, value)
	}
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if value != Floor {
		for i := range g.cells {
			g.cells[i] = value
		}
	}
	return g, nil
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.height }

// Dimensions returns (width, height).
func (g *Grid) Dimensions() (int, int) { return g.width, g.height }

// Contains reports whether (x, y) lies inside the grid.
// Complexity: O(1).
func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// ContainsPoint reports whether p lies inside the grid.
func (g *Grid) ContainsPoint(p Point) bool { return g.Contains(p.X, p.Y) }

// index maps (x, y) to the backing slice position, honoring view offsets.
func (g *Grid) index(x, y int) int {
	return g.offset + y*g.stride + x
}

// At returns the cell value at (x, y) without bounds checking.
// Intended for hot loops whose bounds are guaranteed by the caller.
func (g *Grid) At(x, y int) byte { return g.cells[g.index(x, y)] }

// SetAt writes the cell value at (x, y) without bounds checking.
func (g *Grid) SetAt(x, y int, value byte) { g.cells[g.index(x, y)] = value }

// Get returns the cell value at (x, y) and true, or (Wall, false) when the
// coordinate is out of bounds. The Wall sentinel means out-of-grid positions
// read as blocked, which is what boundary-sensitive callers want.
// Complexity: O(1).
func (g *Grid) Get(x, y int) (byte, bool) {
	if !g.Contains(x, y) {
		return Wall, false
	}
	return g.cells[g.index(x, y)], true
}

// Set writes value at (x, y), reporting success. It refuses out-of-bounds
// coordinates and values outside {Floor, Wall} instead of panicking.
// Complexity: O(1).
func (g *Grid) Set(x, y int, value byte) bool {
	if !g.Contains(x, y) || (value != Floor && value != Wall) {
		return false
	}
	g.cells[g.index(x, y)] = value
	return true
}

// Copy returns a deep copy with an independent, compact buffer.
// Copying a view yields a standalone grid of the view's dimensions.
// Complexity: O(W×H).
func (g *Grid) Copy() *Grid {
	out := &Grid{
		width:  g.width,
		height: g.height,
		stride: g.width,
		cells:  make([]byte, g.width*g.height),
	}
	for y := 0; y < g.height; y++ {
		src := g.offset + y*g.stride
		copy(out.cells[y*g.width:(y+1)*g.width], g.cells[src:src+g.width])
	}
	return out
}

// View returns a sub-grid covering columns [loX, hiX) and rows [loY, hiY)
// that shares this grid's buffer: writes through the view alias the source.
// Returns ErrViewBounds when the rectangle is empty, inverted, or extends
// outside the grid.
// Complexity: O(1); no buffer is copied.
func (g *Grid) View(loX, loY, hiX, hiY int) (*Grid, error) {
	if loX < 0 || loY < 0 || hiX > g.width || hiY > g.height || loX >= hiX || loY >= hiY {
		return nil, fmt.Errorf("%w: [%d,%d)x[%d,%d) in %dx%d", ErrViewBounds, loX, hiX, loY, hiY, g.width, g.height)
	}
	return &Grid{
		width:  hiX - loX,
		height: hiY - loY,
		stride: g.stride,
		offset: g.offset + loY*g.stride + loX,
		cells:  g.cells,
	}, nil
}

// Fill sets every cell to value. Returns ErrCellValue for an invalid value.
// Complexity: O(W×H).
func (g *Grid) Fill(value byte) error {
	if value != Floor && value != Wall {
		return fmt.Errorf("%w: got %d", ErrCellValue, value)
	}
	for y := 0; y < g.height; y++ {
		row := g.offset + y*g.stride
		for x := 0; x < g.width; x++ {
			g.cells[row+x] = value
		}
	}
	return nil
}

// FillRegion sets every cell in columns [loX, hiX) and rows [loY, hiY) to
// value. The rectangle obeys the same bounds rules as View.
// Complexity: O(area).
func (g *Grid) FillRegion(loX, loY, hiX, hiY int, value byte) error {
	region, err := g.View(loX, loY, hiX, hiY)
	if err != nil {
		return err
	}
	return region.Fill(value)
}

// CountValue returns how many cells hold value.
// Complexity: O(W×H).
func (g *Grid) CountValue(value byte) int {
	n := 0
	for y := 0; y < g.height; y++ {
		row := g.offset + y*g.stride
		for x := 0; x < g.width; x++ {
			if g.cells[row+x] == value {
				n++
			}
		}
	}
	return n
}

// FindValuePositions returns the coordinates of every cell holding value,
// in row-major order.
// Complexity: O(W×H).
func (g *Grid) FindValuePositions(value byte) []Point {
	var pts []Point
	for y := 0; y < g.height; y++ {
		row := g.offset + y*g.stride
		for x := 0; x < g.width; x++ {
			if g.cells[row+x] == value {
				pts = append(pts, Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// IsEmpty reports whether every cell is Floor.
// Complexity: O(W×H).
func (g *Grid) IsEmpty() bool {
	return g.CountValue(Wall) == 0
}

// Equal reports whether other has the same dimensions and cell values.
// Complexity: O(W×H).
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.width != other.width || g.height != other.height {
		return false
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.At(x, y) != other.At(x, y) {
				return false
			}
		}
	}
	return true
}

// MemoryFootprint returns the size in bytes of the backing buffer this grid
// can address. For a view this is the shared parent buffer, not the view's
// own area.
func (g *Grid) MemoryFootprint() int {
	return len(g.cells)
}

// PixelToGrid converts a pixel coordinate to the tile containing it.
// Returns ErrTileSize when tileSize ≤ 0. The result may lie outside the
// grid; callers combine with Contains when that matters.
func PixelToGrid(px, py, tileSize int) (Point, error) {
	if tileSize <= 0 {
		return Point{}, fmt.Errorf("%w: got %d", ErrTileSize, tileSize)
	}
	return Point{X: floorDiv(px, tileSize), Y: floorDiv(py, tileSize)}, nil
}

// GridToPixel converts a tile coordinate to the pixel position of the tile's
// top-left corner. Returns ErrTileSize when tileSize ≤ 0.
func GridToPixel(p Point, tileSize int) (int, int, error) {
	if tileSize <= 0 {
		return 0, 0, fmt.Errorf("%w: got %d", ErrTileSize, tileSize)
	}
	return p.X * tileSize, p.Y * tileSize, nil
}

// floorDiv divides rounding toward negative infinity, so negative pixel
// coordinates land in the expected tile.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
