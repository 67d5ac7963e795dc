// Package extract walks the engine's document graph and assembles
// Universal Schema slides and shapes, degrading per property and per
// shape instead of failing whole slides or documents.
package extract

import (
	"fmt"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/schema"
)

// Extension populates the type-specific payload for one shape kind. The
// extractor argument gives group extensions access to the recursive shape
// walk; depth is the current group nesting level.
type Extension interface {
	Extract(sh engine.Shape, out *schema.UniversalShape, ex *Extractor, depth int) error
}

// ExtensionFunc adapts a function to the Extension interface.
type ExtensionFunc func(sh engine.Shape, out *schema.UniversalShape, ex *Extractor, depth int) error

// Extract implements Extension.
func (f ExtensionFunc) Extract(sh engine.Shape, out *schema.UniversalShape, ex *Extractor, depth int) error {
	return f(sh, out, ex, depth)
}

// ExtensionRegistry maps shape kinds to payload extensions. Unknown kinds
// fall through to a generic no-payload handler rather than failing.
type ExtensionRegistry struct {
	extensions map[schema.ShapeType]Extension
}

// NewExtensionRegistry creates an empty registry.
func NewExtensionRegistry() *ExtensionRegistry {
	return &ExtensionRegistry{extensions: make(map[schema.ShapeType]Extension)}
}

// Register registers an extension for the given shape kinds.
func (r *ExtensionRegistry) Register(ext Extension, kinds ...schema.ShapeType) {
	for _, k := range kinds {
		r.extensions[k] = ext
	}
}

// Get returns the extension for a shape kind, or nil when the kind needs
// no payload.
func (r *ExtensionRegistry) Get(kind schema.ShapeType) Extension {
	return r.extensions[kind]
}

// DefaultExtensions builds the registry covering every payload-carrying
// shape kind.
func DefaultExtensions() *ExtensionRegistry {
	r := NewExtensionRegistry()
	r.Register(ExtensionFunc(extractChartPayload), schema.ShapeChart)
	r.Register(ExtensionFunc(extractTablePayload), schema.ShapeTable)
	r.Register(ExtensionFunc(extractSmartArtPayload), schema.ShapeSmartArt)
	r.Register(ExtensionFunc(extractGroupPayload), schema.ShapeGroup)
	r.Register(ExtensionFunc(extractMediaPayload), schema.ShapePicture, schema.ShapeVideo, schema.ShapeAudio)
	r.Register(ExtensionFunc(extractOlePayload), schema.ShapeOleObject)
	return r
}

func extractChartPayload(sh engine.Shape, out *schema.UniversalShape, _ *Extractor, _ int) error {
	chart := engine.ProbeHandle(sh.Chart)
	if chart == nil {
		return fmt.Errorf("chart accessor unavailable")
	}
	data := &schema.ChartData{
		ChartType:  engine.Probe(chart.Type, "unknown"),
		Title:      engine.Probe(chart.Title, ""),
		Categories: engine.Probe(chart.Categories, nil),
		HasLegend:  engine.Probe(chart.HasLegend, false),
	}
	for _, s := range engine.Probe(chart.Series, nil) {
		if s == nil {
			continue
		}
		data.Series = append(data.Series, schema.ChartSeries{
			Name:   engine.Probe(s.Name, ""),
			Values: engine.Probe(s.Values, nil),
		})
	}
	out.Chart = data
	return nil
}

func extractTablePayload(sh engine.Shape, out *schema.UniversalShape, _ *Extractor, _ int) error {
	table := engine.ProbeHandle(sh.Table)
	if table == nil {
		return fmt.Errorf("table accessor unavailable")
	}
	data := &schema.TableData{
		ColumnWidths: engine.Probe(table.ColumnWidths, nil),
		RowHeights:   engine.Probe(table.RowHeights, nil),
	}
	for _, row := range engine.Probe(table.Rows, nil) {
		if row == nil {
			continue
		}
		var cells []schema.TableCell
		for _, c := range engine.Probe(row.Cells, nil) {
			if c == nil {
				continue
			}
			cells = append(cells, schema.TableCell{
				Text:    engine.Probe(c.Text, ""),
				ColSpan: engine.Probe(c.ColSpan, 0),
				RowSpan: engine.Probe(c.RowSpan, 0),
			})
		}
		data.Rows = append(data.Rows, cells)
	}
	out.Table = data
	return nil
}

func extractSmartArtPayload(sh engine.Shape, out *schema.UniversalShape, _ *Extractor, _ int) error {
	art := engine.ProbeHandle(sh.SmartArt)
	if art == nil {
		return fmt.Errorf("smartArt accessor unavailable")
	}
	data := &schema.SmartArtData{
		Layout: engine.Probe(art.Layout, ""),
	}
	for _, n := range engine.Probe(art.Nodes, nil) {
		data.Nodes = append(data.Nodes, schema.SmartArtNode{Text: n.Text, Level: n.Level})
	}
	out.SmartArt = data
	return nil
}

func extractGroupPayload(sh engine.Shape, out *schema.UniversalShape, ex *Extractor, depth int) error {
	if depth >= ex.maxDepth {
		return fmt.Errorf("group nesting exceeds %d levels", ex.maxDepth)
	}
	children := engine.Probe(sh.Children, nil)
	shapes, warnings := ex.extractShapes(children, len(children), depth+1)
	out.Shapes = shapes
	if len(warnings) > 0 {
		return fmt.Errorf("group children degraded: %d warnings", len(warnings))
	}
	return nil
}

func extractMediaPayload(sh engine.Shape, out *schema.UniversalShape, _ *Extractor, _ int) error {
	media := engine.ProbeHandle(sh.Media)
	if media == nil {
		return fmt.Errorf("media accessor unavailable")
	}
	out.Media = &schema.MediaReference{
		ContentType: engine.Probe(media.ContentType, ""),
		Filename:    engine.Probe(media.Filename, ""),
		Embedded:    engine.Probe(media.Embedded, false),
		LinkURL:     engine.Probe(media.LinkURL, ""),
	}
	return nil
}

func extractOlePayload(sh engine.Shape, out *schema.UniversalShape, _ *Extractor, _ int) error {
	ole, ok := engine.ProbeOK(sh.Ole)
	if !ok {
		return fmt.Errorf("ole accessor unavailable")
	}
	out.Ole = &schema.OleObjectData{
		ProgID:     ole.ProgID,
		ObjectName: ole.ObjectName,
		IsLinked:   ole.IsLinked,
		SizeBytes:  int64(len(ole.Data)),
	}
	return nil
}
