// Package enginetest provides an in-memory implementation of the engine
// interfaces with per-accessor fault injection. Tests use it to simulate
// the unstable accessor surface of a real document engine.
package enginetest

import (
	"fmt"
	"sync"

	"github.com/example/slideconv/internal/engine"
)

// Faults injects failures into individual accessors, keyed by method
// name. An entry in Panics makes the accessor panic; an entry in Errs
// makes it return that error.
type Faults struct {
	Errs   map[string]error
	Panics map[string]bool
}

// FailWith registers an error for the named accessor.
func (f *Faults) FailWith(name string, err error) {
	if f.Errs == nil {
		f.Errs = map[string]error{}
	}
	f.Errs[name] = err
}

// PanicOn makes the named accessor panic.
func (f *Faults) PanicOn(name string) {
	if f.Panics == nil {
		f.Panics = map[string]bool{}
	}
	f.Panics[name] = true
}

func (f *Faults) check(name string) error {
	if f == nil {
		return nil
	}
	if f.Panics[name] {
		panic(fmt.Sprintf("enginetest: injected panic in %s", name))
	}
	if err, ok := f.Errs[name]; ok {
		return err
	}
	return nil
}

// FakeDocument is an in-memory document graph.
type FakeDocument struct {
	Faults

	SlideList  []*FakeSlide
	Props      engine.Properties
	Sec        engine.Security
	MasterList []engine.Master
	Size       engine.Size
	Bytes      int64

	mu       sync.Mutex
	disposed bool
}

var _ engine.Document = (*FakeDocument)(nil)

// Disposed reports whether Dispose has been called.
func (d *FakeDocument) Disposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}

func (d *FakeDocument) guard(name string) error {
	d.mu.Lock()
	disposed := d.disposed
	d.mu.Unlock()
	if disposed {
		return engine.ErrDisposed
	}
	return d.check(name)
}

func (d *FakeDocument) SlideCount() (int, error) {
	if err := d.guard("SlideCount"); err != nil {
		return 0, err
	}
	return len(d.SlideList), nil
}

func (d *FakeDocument) Slide(index int) (engine.Slide, error) {
	if err := d.guard("Slide"); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.SlideList) {
		return nil, fmt.Errorf("enginetest: slide index %d out of range", index)
	}
	return d.SlideList[index], nil
}

func (d *FakeDocument) Properties() (engine.Properties, error) {
	if err := d.guard("Properties"); err != nil {
		return engine.Properties{}, err
	}
	return d.Props, nil
}

func (d *FakeDocument) Security() (engine.Security, error) {
	if err := d.guard("Security"); err != nil {
		return engine.Security{}, err
	}
	return d.Sec, nil
}

func (d *FakeDocument) Masters() ([]engine.Master, error) {
	if err := d.guard("Masters"); err != nil {
		return nil, err
	}
	return d.MasterList, nil
}

func (d *FakeDocument) SlideSize() (engine.Size, error) {
	if err := d.guard("SlideSize"); err != nil {
		return engine.Size{}, err
	}
	return d.Size, nil
}

func (d *FakeDocument) FileSize() (int64, error) {
	if err := d.guard("FileSize"); err != nil {
		return 0, err
	}
	return d.Bytes, nil
}

func (d *FakeDocument) AddSlide(index int, layout string) (engine.SlideBuilder, error) {
	if err := d.guard("AddSlide"); err != nil {
		return nil, err
	}
	if index < 0 || index > len(d.SlideList) {
		return nil, fmt.Errorf("enginetest: insert index %d out of range", index)
	}
	s := &FakeSlide{SlideID: len(d.SlideList) + 1, Layout: layout}
	d.SlideList = append(d.SlideList, nil)
	copy(d.SlideList[index+1:], d.SlideList[index:])
	d.SlideList[index] = s
	return &slideBuilder{slide: s}, nil
}

func (d *FakeDocument) Dispose() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disposed = true
	return nil
}

// FakeSlide is an in-memory slide handle.
type FakeSlide struct {
	Faults

	SlideID   int
	SlideName string
	IsHidden  bool
	Layout    string
	ShapeList []*FakeShape
	Bg        *FakeFill
	Notes     string
	Trans     *engine.Transition
	Anims     []engine.Animation
	Cmts      []engine.Comment
	Phs       []engine.Placeholder
}

var _ engine.Slide = (*FakeSlide)(nil)

func (s *FakeSlide) ID() (int, error) {
	if err := s.check("ID"); err != nil {
		return 0, err
	}
	return s.SlideID, nil
}

func (s *FakeSlide) Name() (string, error) {
	if err := s.check("Name"); err != nil {
		return "", err
	}
	return s.SlideName, nil
}

func (s *FakeSlide) Hidden() (bool, error) {
	if err := s.check("Hidden"); err != nil {
		return false, err
	}
	return s.IsHidden, nil
}

func (s *FakeSlide) Shapes() ([]engine.Shape, error) {
	if err := s.check("Shapes"); err != nil {
		return nil, err
	}
	out := make([]engine.Shape, len(s.ShapeList))
	for i, sh := range s.ShapeList {
		out[i] = sh
	}
	return out, nil
}

func (s *FakeSlide) Background() (engine.Fill, error) {
	if err := s.check("Background"); err != nil {
		return nil, err
	}
	if s.Bg == nil {
		return nil, engine.ErrUnsupported
	}
	return s.Bg, nil
}

func (s *FakeSlide) NotesText() (string, error) {
	if err := s.check("NotesText"); err != nil {
		return "", err
	}
	return s.Notes, nil
}

func (s *FakeSlide) Transition() (engine.Transition, error) {
	if err := s.check("Transition"); err != nil {
		return engine.Transition{}, err
	}
	if s.Trans == nil {
		return engine.Transition{}, engine.ErrUnsupported
	}
	return *s.Trans, nil
}

func (s *FakeSlide) Animations() ([]engine.Animation, error) {
	if err := s.check("Animations"); err != nil {
		return nil, err
	}
	return s.Anims, nil
}

func (s *FakeSlide) Comments() ([]engine.Comment, error) {
	if err := s.check("Comments"); err != nil {
		return nil, err
	}
	return s.Cmts, nil
}

func (s *FakeSlide) Placeholders() ([]engine.Placeholder, error) {
	if err := s.check("Placeholders"); err != nil {
		return nil, err
	}
	return s.Phs, nil
}

// FakeShape is an in-memory shape handle. Nil payload pointers report
// ErrUnsupported from the matching accessor.
type FakeShape struct {
	Faults

	ShapeID   int
	ShapeName string
	ShapeKind string
	Geom      engine.Geometry

	FillF    *FakeFill
	LineF    *FakeLine
	EffectsF *FakeEffects
	ThreeDF  *FakeThreeD
	Text     *FakeTextFrame
	Link     *engine.Hyperlink
	ChartD   *FakeChart
	TableD   *FakeTable
	ArtD     *FakeSmartArt
	MediaD   *FakeMedia
	OleD     *engine.Ole
	Kids     []*FakeShape
}

var _ engine.Shape = (*FakeShape)(nil)

func (s *FakeShape) ID() (int, error) {
	if err := s.check("ID"); err != nil {
		return 0, err
	}
	return s.ShapeID, nil
}

func (s *FakeShape) Name() (string, error) {
	if err := s.check("Name"); err != nil {
		return "", err
	}
	return s.ShapeName, nil
}

func (s *FakeShape) Kind() (string, error) {
	if err := s.check("Kind"); err != nil {
		return "", err
	}
	return s.ShapeKind, nil
}

func (s *FakeShape) Geometry() (engine.Geometry, error) {
	if err := s.check("Geometry"); err != nil {
		return engine.Geometry{}, err
	}
	return s.Geom, nil
}

func (s *FakeShape) Fill() (engine.Fill, error) {
	if err := s.check("Fill"); err != nil {
		return nil, err
	}
	if s.FillF == nil {
		return nil, engine.ErrUnsupported
	}
	return s.FillF, nil
}

func (s *FakeShape) Line() (engine.Line, error) {
	if err := s.check("Line"); err != nil {
		return nil, err
	}
	if s.LineF == nil {
		return nil, engine.ErrUnsupported
	}
	return s.LineF, nil
}

func (s *FakeShape) Effects() (engine.Effects, error) {
	if err := s.check("Effects"); err != nil {
		return nil, err
	}
	if s.EffectsF == nil {
		return nil, engine.ErrUnsupported
	}
	return s.EffectsF, nil
}

func (s *FakeShape) ThreeD() (engine.ThreeD, error) {
	if err := s.check("ThreeD"); err != nil {
		return nil, err
	}
	if s.ThreeDF == nil {
		return nil, engine.ErrUnsupported
	}
	return s.ThreeDF, nil
}

func (s *FakeShape) TextFrame() (engine.TextFrame, error) {
	if err := s.check("TextFrame"); err != nil {
		return nil, err
	}
	if s.Text == nil {
		return nil, engine.ErrUnsupported
	}
	return s.Text, nil
}

func (s *FakeShape) Hyperlink() (engine.Hyperlink, error) {
	if err := s.check("Hyperlink"); err != nil {
		return engine.Hyperlink{}, err
	}
	if s.Link == nil {
		return engine.Hyperlink{}, engine.ErrUnsupported
	}
	return *s.Link, nil
}

func (s *FakeShape) Chart() (engine.Chart, error) {
	if err := s.check("Chart"); err != nil {
		return nil, err
	}
	if s.ChartD == nil {
		return nil, engine.ErrUnsupported
	}
	return s.ChartD, nil
}

func (s *FakeShape) Table() (engine.Table, error) {
	if err := s.check("Table"); err != nil {
		return nil, err
	}
	if s.TableD == nil {
		return nil, engine.ErrUnsupported
	}
	return s.TableD, nil
}

func (s *FakeShape) SmartArt() (engine.SmartArt, error) {
	if err := s.check("SmartArt"); err != nil {
		return nil, err
	}
	if s.ArtD == nil {
		return nil, engine.ErrUnsupported
	}
	return s.ArtD, nil
}

func (s *FakeShape) Media() (engine.Media, error) {
	if err := s.check("Media"); err != nil {
		return nil, err
	}
	if s.MediaD == nil {
		return nil, engine.ErrUnsupported
	}
	return s.MediaD, nil
}

func (s *FakeShape) Ole() (engine.Ole, error) {
	if err := s.check("Ole"); err != nil {
		return engine.Ole{}, err
	}
	if s.OleD == nil {
		return engine.Ole{}, engine.ErrUnsupported
	}
	return *s.OleD, nil
}

func (s *FakeShape) Children() ([]engine.Shape, error) {
	if err := s.check("Children"); err != nil {
		return nil, err
	}
	if s.Kids == nil {
		return nil, engine.ErrUnsupported
	}
	out := make([]engine.Shape, len(s.Kids))
	for i, k := range s.Kids {
		out[i] = k
	}
	return out, nil
}
