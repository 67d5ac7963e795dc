package extract

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/engine/enginetest"
	"github.com/example/slideconv/internal/schema"
)

// Extract a slide, rebuild it into a fresh document and extract it
// again: shape count, z-order, geometry and text must survive.
func TestReconstructRoundTrip(t *testing.T) {
	source := &enginetest.FakeSlide{
		SlideID:   1,
		SlideName: "overview",
		Notes:     "talk slowly",
		ShapeList: []*enginetest.FakeShape{
			{
				ShapeID:   1,
				ShapeKind: "rectangle",
				ShapeName: "title-box",
				Geom:      engine.Geometry{X: 5, Y: 10, Width: 200, Height: 40},
				FillF:     &enginetest.FakeFill{FillType: "solid", Hex: "123456"},
				Text: &enginetest.FakeTextFrame{Paras: []*enginetest.FakeParagraph{
					{Runs: []*enginetest.FakePortion{{Txt: "Quarterly Review", Font: "Arial", Sz: 28, B: true}}},
				}},
			},
			{
				ShapeID:   2,
				ShapeKind: "chart",
				Geom:      engine.Geometry{X: 0, Y: 60, Width: 300, Height: 200},
				ChartD: &enginetest.FakeChart{
					Kind: "line",
					T:    "Trend",
					Cats: []string{"Jan", "Feb"},
					Ser:  []*enginetest.FakeSeries{{SeriesName: "units", Vals: []float64{3, 4}}},
				},
			},
			{
				ShapeID:   3,
				ShapeKind: "ellipse",
				Geom:      engine.Geometry{X: 50, Y: 300, Width: 80, Height: 80},
			},
		},
	}

	ex := New(zerolog.Nop())
	original, err := ex.ExtractSlide(source, 0, DefaultOptions())
	require.NoError(t, err)

	dest := &enginetest.FakeDocument{}
	rec := NewReconstructor(zerolog.Nop())
	require.NoError(t, rec.Reconstruct(&original, dest, 0, "blank"))

	rebuilt, err := dest.Slide(0)
	require.NoError(t, err)
	roundTripped, err := ex.ExtractSlide(rebuilt, 0, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, original.Name, roundTripped.Name)
	assert.Equal(t, original.NotesText, roundTripped.NotesText)
	require.Len(t, roundTripped.Shapes, len(original.Shapes))

	for i := range original.Shapes {
		assert.Equal(t, original.Shapes[i].ShapeType, roundTripped.Shapes[i].ShapeType, "z-order slot %d", i)
		assert.Equal(t, original.Shapes[i].Geometry, roundTripped.Shapes[i].Geometry, "geometry slot %d", i)
	}

	require.NotNil(t, roundTripped.Shapes[0].TextFrame)
	assert.Equal(t, "Quarterly Review", roundTripped.Shapes[0].TextFrame.PlainText())

	require.NotNil(t, roundTripped.Shapes[1].Chart)
	assert.Equal(t, "line", roundTripped.Shapes[1].Chart.ChartType)
	assert.Equal(t, []string{"Jan", "Feb"}, roundTripped.Shapes[1].Chart.Categories)
	require.Len(t, roundTripped.Shapes[1].Chart.Series, 1)
	assert.Equal(t, []float64{3, 4}, roundTripped.Shapes[1].Chart.Series[0].Values)
}

func TestReconstructGroup(t *testing.T) {
	slide := schema.UniversalSlide{
		SlideID:    1,
		SlideIndex: 0,
		Shapes: []schema.UniversalShape{{
			ShapeType: schema.ShapeGroup,
			Geometry:  schema.Geometry{Width: 500, Height: 400},
			Shapes: []schema.UniversalShape{
				{ShapeType: schema.ShapeRectangle, Geometry: schema.Geometry{Width: 10, Height: 10}},
				{ShapeType: schema.ShapeEllipse, Geometry: schema.Geometry{X: 20, Width: 10, Height: 10}},
			},
		}},
	}

	dest := &enginetest.FakeDocument{}
	require.NoError(t, NewReconstructor(zerolog.Nop()).Reconstruct(&slide, dest, 0, "blank"))

	rebuilt, err := dest.Slide(0)
	require.NoError(t, err)
	out, err := New(zerolog.Nop()).ExtractSlide(rebuilt, 0, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, out.Shapes, 1)
	require.Len(t, out.Shapes[0].Shapes, 2)
	assert.Equal(t, schema.ShapeEllipse, out.Shapes[0].Shapes[1].ShapeType)
}

// An invalid slide must be rejected before the destination document is
// touched.
func TestReconstructRejectsInvalidSlide(t *testing.T) {
	slide := schema.UniversalSlide{
		SlideID: 0, // invalid
		Shapes:  []schema.UniversalShape{},
	}
	dest := &enginetest.FakeDocument{}
	err := NewReconstructor(zerolog.Nop()).Reconstruct(&slide, dest, 0, "blank")
	require.Error(t, err)

	count, cerr := dest.SlideCount()
	require.NoError(t, cerr)
	assert.Zero(t, count, "failed reconstruction must not insert a slide")
}
