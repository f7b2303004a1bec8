// Package grid provides the dense 2D tile buffer underlying cave generation,
// with bounds-checked accessors, coordinate transforms, deep copies, and
// aliasing sub-grid views.
//
// What:
//
//   - Grid wraps a row-major []byte buffer of Floor (0) and Wall (1) cells.
//   - Shape is fixed at creation; cell values are mutable.
//   - Copy returns an independent buffer; View shares the source buffer and
//     aliases writes — callers must know which of the two they hold.
//   - PixelToGrid / GridToPixel convert between pixel space and tile space
//     for a given tile size.
//
// Why:
//
//   - Every generation stage (seeding, automata, region detection, carving)
//     reads and writes the same representation; keeping it allocation-light
//     and index-based avoids hash/ordering drift between runs.
//
// Accessors:
//
//   - At / SetAt are unchecked and intended for hot loops whose bounds are
//     established by the surrounding iteration.
//   - Get / Set are bounds-checked and never panic: Get reports (value, ok),
//     Set reports success. All boundary-sensitive call sites use these.
//
// Errors:
//
//   - ErrDimension: non-positive width or height at creation.
//   - ErrCellValue: a cell value other than Floor or Wall.
//   - ErrTileSize: non-positive tile size in a coordinate transform.
//   - ErrViewBounds: an out-of-range or inverted view rectangle.
package grid
