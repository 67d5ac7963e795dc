package extract

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/formats"
	"github.com/example/slideconv/internal/schema"
)

// DefaultMaxShapesPerSlide bounds worst-case cost on degenerate documents
// when the caller does not set a limit.
const DefaultMaxShapesPerSlide = 500

// defaultMaxGroupDepth guards against pathological group nesting. Real
// documents rarely exceed ten levels.
const defaultMaxGroupDepth = 16

// Options controls one structural extraction run.
type Options struct {
	ProcessShapes     bool
	IncludeNotes      bool
	IncludeBackground bool
	MaxShapesPerSlide int
	ValidateOutput    bool
}

// DefaultOptions is a full structural extraction.
func DefaultOptions() Options {
	return Options{
		ProcessShapes:     true,
		IncludeNotes:      true,
		IncludeBackground: true,
		MaxShapesPerSlide: DefaultMaxShapesPerSlide,
	}
}

// Extractor walks slide handles and assembles UniversalSlides.
type Extractor struct {
	log      zerolog.Logger
	registry *ExtensionRegistry
	maxDepth int
}

// New creates a slide extractor with the default extension registry.
func New(log zerolog.Logger) *Extractor {
	return &Extractor{
		log:      log,
		registry: DefaultExtensions(),
		maxDepth: defaultMaxGroupDepth,
	}
}

// WithRegistry swaps the extension registry, for callers that plug in
// additional shape kinds.
func (e *Extractor) WithRegistry(r *ExtensionRegistry) *Extractor {
	e.registry = r
	return e
}

// ExtractPresentation converts the whole document. One corrupt slide
// degrades to a minimal valid slide; document-level accessor failures
// degrade to zero values. Only a missing document handle is fatal.
func (e *Extractor) ExtractPresentation(doc engine.Document, opts Options) (*schema.UniversalPresentation, error) {
	if doc == nil {
		return nil, fmt.Errorf("document handle is nil")
	}
	count, err := doc.SlideCount()
	if err != nil {
		return nil, fmt.Errorf("slide enumeration unavailable: %w", err)
	}

	out := &schema.UniversalPresentation{
		Version:    schema.SchemaVersion,
		Properties: extractProperties(doc),
		Security:   extractSecurity(doc),
		Masters:    extractMasters(doc),
		SlideSize:  extractSlideSize(doc),
	}

	for i := 0; i < count; i++ {
		slide, err := doc.Slide(i)
		if err != nil || slide == nil {
			e.log.Warn().Int("slide", i).Err(err).Msg("slide handle unavailable, emitting empty slide")
			out.Slides = append(out.Slides, minimalSlide(i))
			continue
		}
		us, err := e.ExtractSlide(slide, i, opts)
		if err != nil {
			return nil, err
		}
		out.Slides = append(out.Slides, us)
	}

	out.Metadata = aggregateMetadata(out.Slides)
	out.Metadata.TotalFileSize = engine.Probe(doc.FileSize, 0)

	if opts.ValidateOutput {
		if err := schema.ValidatePresentation(out); err != nil {
			return nil, fmt.Errorf("output validation failed: %w", err)
		}
	}
	return out, nil
}

// ExtractSlide converts one slide. Individual property and shape failures
// are recovered into warnings; a total failure yields a minimal valid
// slide instead of an error. The only error path is opt-in validation.
func (e *Extractor) ExtractSlide(slide engine.Slide, index int, opts Options) (out schema.UniversalSlide, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Int("slide", index).Interface("panic", r).Msg("slide extraction failed, emitting empty slide")
			out = minimalSlide(index)
			err = nil
		}
	}()

	out = schema.UniversalSlide{
		SlideID:    engine.Probe(slide.ID, index+1),
		SlideIndex: index,
		Name:       engine.Probe(slide.Name, ""),
		Hidden:     engine.Probe(slide.Hidden, false),
		Shapes:     []schema.UniversalShape{},
	}
	if out.SlideID <= 0 {
		out.SlideID = index + 1
	}

	if opts.IncludeBackground {
		out.Background = formats.ExtractFill(engine.ProbeHandle(slide.Background))
	}

	if opts.ProcessShapes {
		limit := opts.MaxShapesPerSlide
		if limit <= 0 {
			limit = DefaultMaxShapesPerSlide
		}
		shapes := engine.Probe(slide.Shapes, nil)
		out.Shapes, out.Warnings = e.extractShapes(shapes, limit, 0)
	}

	out.Transition = extractTransition(slide)
	out.Animations = extractAnimations(slide)
	out.Comments = extractComments(slide)
	out.Placeholders = extractPlaceholders(slide)

	if opts.IncludeNotes {
		out.NotesText = engine.Probe(slide.NotesText, "")
	}

	if opts.ValidateOutput {
		if verr := schema.ValidateSlide(&out); verr != nil {
			return out, fmt.Errorf("slide %d failed validation: %w", index, verr)
		}
	}
	return out, nil
}

// extractShapes converts up to limit shapes in source z-order. Shapes
// past the limit are silently dropped; a shape whose extraction fails
// entirely is skipped with a warning, never aborting its siblings.
func (e *Extractor) extractShapes(shapes []engine.Shape, limit int, depth int) ([]schema.UniversalShape, []string) {
	out := []schema.UniversalShape{}
	var warnings []string
	for i, sh := range shapes {
		if len(out) >= limit {
			break
		}
		if sh == nil {
			continue
		}
		us, warn := e.extractShape(sh, depth)
		if warn != "" {
			warnings = append(warnings, fmt.Sprintf("shape %d: %s", i, warn))
		}
		if us != nil {
			out = append(out, *us)
		}
	}
	return out, warnings
}

// extractShape converts one shape. A partial failure returns the shape
// with the affected property defaulted plus a warning; only a completely
// unreadable shape returns nil.
func (e *Extractor) extractShape(sh engine.Shape, depth int) (out *schema.UniversalShape, warning string) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			warning = fmt.Sprintf("shape extraction panicked: %v", r)
		}
	}()

	kind := mapKind(engine.Probe(sh.Kind, ""))
	us := &schema.UniversalShape{
		ShapeID:   engine.Probe(sh.ID, 0),
		Name:      engine.Probe(sh.Name, ""),
		ShapeType: kind,
		Geometry:  formats.ExtractGeometry(sh),
		Fill:      formats.ExtractFill(engine.ProbeHandle(sh.Fill)),
		Line:      formats.ExtractLine(engine.ProbeHandle(sh.Line)),
		Effects:   formats.ExtractEffects(engine.ProbeHandle(sh.Effects)),
		ThreeD:    formats.ExtractThreeD(engine.ProbeHandle(sh.ThreeD)),
		TextFrame: formats.ExtractTextFrame(engine.ProbeHandle(sh.TextFrame)),
		Hyperlink: formats.ExtractHyperlink(sh),
	}

	if ext := e.registry.Get(kind); ext != nil {
		if err := ext.Extract(sh, us, e, depth); err != nil {
			warning = fmt.Sprintf("%s payload degraded: %v", kind, err)
		}
	}
	return us, warning
}

// mapKind resolves an engine-native shape kind string to a schema shape
// type. Unrecognized kinds map to ShapeUnknown rather than failing.
func mapKind(kind string) schema.ShapeType {
	switch kind {
	case "rectangle", "rect":
		return schema.ShapeRectangle
	case "ellipse", "oval":
		return schema.ShapeEllipse
	case "line":
		return schema.ShapeLine
	case "textbox", "text":
		return schema.ShapeTextBox
	case "picture", "pic", "image":
		return schema.ShapePicture
	case "video", "videoFrame":
		return schema.ShapeVideo
	case "audio", "audioFrame":
		return schema.ShapeAudio
	case "chart", "graphicFrame/chart":
		return schema.ShapeChart
	case "table", "graphicFrame/table":
		return schema.ShapeTable
	case "smartArt", "diagram":
		return schema.ShapeSmartArt
	case "oleObject", "ole":
		return schema.ShapeOleObject
	case "group", "grpSp":
		return schema.ShapeGroup
	case "connector", "cxnSp":
		return schema.ShapeConnector
	case "autoShape", "auto":
		return schema.ShapeAuto
	}
	return schema.ShapeUnknown
}

func minimalSlide(index int) schema.UniversalSlide {
	return schema.UniversalSlide{
		SlideID:    index + 1,
		SlideIndex: index,
		Shapes:     []schema.UniversalShape{},
		Warnings:   []string{"slide extraction failed, content unavailable"},
	}
}

func extractProperties(doc engine.Document) schema.DocumentProperties {
	p := engine.Probe(doc.Properties, engine.Properties{})
	out := schema.DocumentProperties{
		Title:          p.Title,
		Author:         p.Author,
		Subject:        p.Subject,
		Keywords:       p.Keywords,
		Comments:       p.Comments,
		LastModifiedBy: p.LastModifiedBy,
		RevisionNumber: p.Revision,
	}
	if !p.Created.IsZero() {
		t := p.Created
		out.CreatedAt = &t
	}
	if !p.Modified.IsZero() {
		t := p.Modified
		out.ModifiedAt = &t
	}
	return out
}

func extractSecurity(doc engine.Document) schema.SecurityInfo {
	s := engine.Probe(doc.Security, engine.Security{})
	return schema.SecurityInfo{
		Encrypted:         s.Encrypted,
		PasswordProtected: s.PasswordProtected,
		WriteProtected:    s.WriteProtected,
	}
}

func extractMasters(doc engine.Document) []schema.MasterSlide {
	var out []schema.MasterSlide
	for _, m := range engine.Probe(doc.Masters, nil) {
		out = append(out, schema.MasterSlide{Name: m.Name, Layouts: m.Layouts})
	}
	return out
}

func extractSlideSize(doc engine.Document) schema.SlideSize {
	s := engine.Probe(doc.SlideSize, engine.Size{})
	return schema.SlideSize{
		Width:       s.Width,
		Height:      s.Height,
		Orientation: s.Orientation,
		Type:        s.Type,
	}
}

func extractTransition(slide engine.Slide) *schema.Transition {
	t, ok := engine.ProbeOK(slide.Transition)
	if !ok || t.Type == "" {
		return nil
	}
	return &schema.Transition{
		Type:           t.Type,
		Speed:          t.Speed,
		AdvanceOnClick: t.AdvanceOnClick,
		AdvanceAfter:   t.AdvanceAfter,
	}
}

func extractAnimations(slide engine.Slide) []schema.Animation {
	var out []schema.Animation
	for _, a := range engine.Probe(slide.Animations, nil) {
		out = append(out, schema.Animation{
			ShapeID:     a.ShapeID,
			Effect:      a.Effect,
			TriggerType: a.TriggerType,
			Duration:    a.Duration,
			Delay:       a.Delay,
		})
	}
	return out
}

func extractComments(slide engine.Slide) []schema.SlideComment {
	var out []schema.SlideComment
	for _, c := range engine.Probe(slide.Comments, nil) {
		sc := schema.SlideComment{Author: c.Author, Text: c.Text}
		if !c.Created.IsZero() {
			t := c.Created
			sc.CreatedAt = &t
		}
		out = append(out, sc)
	}
	return out
}

func extractPlaceholders(slide engine.Slide) []schema.Placeholder {
	var out []schema.Placeholder
	for _, p := range engine.Probe(slide.Placeholders, nil) {
		out = append(out, schema.Placeholder{Type: p.Type, Index: p.Index})
	}
	return out
}

// aggregateMetadata computes the presentation-level counters, walking
// group trees so nested shapes are counted once each.
func aggregateMetadata(slides []schema.UniversalSlide) schema.PresentationMetadata {
	meta := schema.PresentationMetadata{SlideCount: len(slides)}
	var walk func(shapes []schema.UniversalShape)
	walk = func(shapes []schema.UniversalShape) {
		for i := range shapes {
			meta.ShapeCount++
			if shapes[i].ShapeType == schema.ShapePicture {
				meta.ImageCount++
			}
			walk(shapes[i].Shapes)
		}
	}
	for i := range slides {
		walk(slides[i].Shapes)
		meta.AnimationCount += len(slides[i].Animations)
	}
	return meta
}
