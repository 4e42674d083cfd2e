package cartograph

import (
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/cartograph/buckets"
	"github.com/tsawler/cartograph/model"
)

// fakeSource feeds a fixed entity list into the converter.
type fakeSource struct {
	name     string
	entities []model.Entity
	err      error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Entities() ([]model.Entity, error) {
	return f.entities, f.err
}

func lineEntity(layer string, x1, y1, x2, y2 float64) model.Entity {
	return model.Entity{
		Category: model.EntityLine,
		Layer:    layer,
		Start:    model.Point{X: x1, Y: y1},
		End:      model.Point{X: x2, Y: y2},
	}
}

func TestConvertSingleSource(t *testing.T) {
	src := &fakeSource{
		name: "plan.dxf",
		entities: []model.Entity{
			lineEntity("WALLS", 0, 0, 10, 0),
			lineEntity("WALLS", 10, 0, 10, 10),
			{
				Category: model.EntityPoint,
				Layer:    "SURVEY",
				Location: model.Point{X: 5, Y: 5},
			},
		},
	}

	set, warnings, err := FromSource(src).Buckets()
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if set.Total() != 3 {
		t.Errorf("Total = %d, want 3", set.Total())
	}

	keys := set.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(keys))
	}
	if keys[0] != (buckets.Key{Layer: "WALLS", Type: model.GeometryLine}) {
		t.Errorf("first bucket = %+v", keys[0])
	}
	if keys[1] != (buckets.Key{Layer: "SURVEY", Type: model.GeometryPoint}) {
		t.Errorf("second bucket = %+v", keys[1])
	}
}

func TestConvertLayerSelection(t *testing.T) {
	src := &fakeSource{
		name: "plan.dxf",
		entities: []model.Entity{
			lineEntity("KEEP", 0, 0, 1, 0),
			lineEntity("DROP", 0, 1, 1, 1),
			lineEntity("", 0, 2, 1, 2), // empty layer normalizes to "0"
		},
	}

	set, _, err := FromSource(src).Layers("KEEP", "0").Buckets()
	if err != nil {
		t.Fatal(err)
	}
	if set.Total() != 2 {
		t.Errorf("Total = %d, want 2", set.Total())
	}
	for _, key := range set.Keys() {
		if key.Layer == "DROP" {
			t.Error("unselected layer leaked into output")
		}
	}
}

func TestConvertLayerSelectionSkipsInserts(t *testing.T) {
	resolved := false
	src := &fakeSource{
		name: "plan.dxf",
		entities: []model.Entity{
			{
				Category:  model.EntityInsert,
				Layer:     "FURNITURE",
				BlockName: "CHAIR",
				Insertion: model.Point{X: 3, Y: 4},
				Children: func() ([]model.Entity, error) {
					resolved = true
					return []model.Entity{lineEntity("FURNITURE", 0, 0, 1, 0)}, nil
				},
			},
			lineEntity("WALLS", 0, 0, 10, 0),
		},
	}

	set, warnings, err := FromSource(src).Layers("WALLS").Buckets()
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if set.Total() != 1 {
		t.Errorf("Total = %d, want only the WALLS line", set.Total())
	}
	for _, key := range set.Keys() {
		if key.Layer == "FURNITURE" {
			t.Errorf("excluded layer produced bucket %+v", key)
		}
	}
	if resolved {
		t.Error("block on an unselected layer should not be resolved at all")
	}
}

func TestConvertSourceReadFailure(t *testing.T) {
	bad := &fakeSource{name: "broken.dxf", err: errors.New("truncated file")}
	good := &fakeSource{
		name:     "plan.dxf",
		entities: []model.Entity{lineEntity("A", 0, 0, 1, 0)},
	}

	set, warnings, err := FromSource(bad, good).Buckets()
	if err != nil {
		t.Fatal(err)
	}
	if set.Total() != 1 {
		t.Errorf("Total = %d, want 1", set.Total())
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Type != WarningSourceRead || warnings[0].Source != "broken.dxf" {
		t.Errorf("warning = %+v", warnings[0])
	}
}

func TestConvertMissingFileWarnsAndContinues(t *testing.T) {
	set, warnings, err := Open("does-not-exist.dxf").Buckets()
	if err != nil {
		t.Fatal(err)
	}
	if set == nil || set.Total() != 0 {
		t.Errorf("expected empty set, got %v", set)
	}
	if len(warnings) != 1 || warnings[0].Type != WarningSourceRead {
		t.Errorf("warnings = %+v", warnings)
	}
}

func TestConvertMalformedEntityWarnsAndContinues(t *testing.T) {
	src := &fakeSource{
		name: "plan.dxf",
		entities: []model.Entity{
			{Category: model.EntityCircle, Layer: "A", Radius: 0}, // malformed
			lineEntity("A", 0, 0, 1, 0),
		},
	}

	set, warnings, err := FromSource(src).Buckets()
	if err != nil {
		t.Fatal(err)
	}
	if set.Total() != 1 {
		t.Errorf("Total = %d, want 1", set.Total())
	}
	if len(warnings) != 1 || warnings[0].Type != WarningEntitySkipped {
		t.Fatalf("warnings = %+v", warnings)
	}
	if !strings.Contains(warnings[0].Message, "Circle") {
		t.Errorf("warning should name the entity category: %q", warnings[0].Message)
	}
}

func TestConvertInsertMerges(t *testing.T) {
	children := []model.Entity{
		lineEntity("DETAIL", 0, 0, 1, 0),
		lineEntity("DETAIL", 1, 0, 2, 0),
	}
	src := &fakeSource{
		name: "plan.dxf",
		entities: []model.Entity{
			{
				Category:  model.EntityInsert,
				Layer:     "PLAN",
				BlockName: "FENCE",
				Insertion: model.Point{X: 0, Y: 0},
				Children: func() ([]model.Entity, error) {
					return children, nil
				},
			},
		},
	}

	set, warnings, err := FromSource(src).Buckets()
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	key := buckets.Key{Layer: "PLAN", Type: model.GeometryLine}
	rows := set.Rows(key)
	if len(rows) != 1 {
		t.Fatalf("expected 1 merged row on PLAN, got %d (keys %v)", len(rows), set.Keys())
	}
	if rows[0].BlockName != "FENCE" {
		t.Errorf("BlockName = %q, want FENCE", rows[0].BlockName)
	}
}

func TestConvertInsertExplodeMode(t *testing.T) {
	src := &fakeSource{
		name: "plan.dxf",
		entities: []model.Entity{
			{
				Category:  model.EntityInsert,
				Layer:     "PLAN",
				BlockName: "FENCE",
				Children: func() ([]model.Entity, error) {
					return []model.Entity{lineEntity("DETAIL", 0, 0, 1, 0)}, nil
				},
			},
		},
	}

	set, _, err := FromSource(src).ExplodeBlocks().Buckets()
	if err != nil {
		t.Fatal(err)
	}

	key := buckets.Key{Layer: "DETAIL", Type: model.GeometryLine}
	if len(set.Rows(key)) != 1 {
		t.Errorf("expected exploded row on DETAIL, keys %v", set.Keys())
	}
}

func TestConvertChainImmutability(t *testing.T) {
	base := FromSource(&fakeSource{name: "a"})
	withLayers := base.Layers("ONLY")
	if base.options.layers != nil {
		t.Error("chain method mutated the original converter")
	}
	if withLayers.options.layers == nil {
		t.Error("chain method did not apply to the copy")
	}
}

func TestConvertInvalidToleranceFailsFast(t *testing.T) {
	_, _, err := FromSource(&fakeSource{name: "a"}).FlattenTolerance(-1).Buckets()
	if err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestConvertZeroRowsIsValid(t *testing.T) {
	set, warnings, err := FromSource(&fakeSource{name: "empty.dxf"}).Buckets()
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if set.Total() != 0 || set.Len() != 0 {
		t.Errorf("expected empty set, got %d rows", set.Total())
	}
}

func TestConvertSourceCRSMetadata(t *testing.T) {
	set, _, err := FromSource(&fakeSource{name: "a"}).SourceCRS("EPSG:3826").Buckets()
	if err != nil {
		t.Fatal(err)
	}
	if set.SourceCRS != "EPSG:3826" {
		t.Errorf("SourceCRS = %q", set.SourceCRS)
	}
}

func TestConvertProgressMessages(t *testing.T) {
	var messages []string
	src := &fakeSource{
		name:     "plan.dxf",
		entities: []model.Entity{lineEntity("A", 0, 0, 1, 0)},
	}

	_, _, err := FromSource(src).
		WithProgress(func(msg string) { messages = append(messages, msg) }).
		Buckets()
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) < 2 {
		t.Fatalf("expected start and done messages, got %v", messages)
	}
	if !strings.Contains(messages[0], "plan.dxf") {
		t.Errorf("first message should name the source: %q", messages[0])
	}
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Type: WarningSourceRead, Source: "a.dxf", Message: "truncated"},
		{Type: WarningEntitySkipped, Message: "bad circle"},
	}
	got := FormatWarnings(warnings)
	want := "a.dxf: truncated\nbad circle"
	if got != want {
		t.Errorf("FormatWarnings = %q, want %q", got, want)
	}
	if FormatWarnings(nil) != "" {
		t.Error("empty input should format to empty string")
	}
}

func TestMustBuckets(t *testing.T) {
	set, warnings, err := FromSource(&fakeSource{name: "a"}).Buckets()
	if got := MustBuckets(set, warnings, err); got != set {
		t.Error("MustBuckets should pass the value through")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustBuckets should panic on error")
		}
	}()
	MustBuckets[*buckets.Set](nil, nil, errors.New("boom"))
}
