package importer_test

import (
	"math"
	"testing"

	"storefront/internal/importer"
)

func rec(data map[string]any) importer.Record {
	return importer.Record{Data: data}
}

func TestNormalizePrice(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{19.99, 19.99},
		{42, 42},
		{"19.99", 19.99},
		{"$19.99", 19.99},
		{"  $ 19.99 ", 19.99},
		{"19,99 €", 19.99},
		{"1,299.00", 1299.00},
		{"1.299,00", 1299.00},
		{"free", 0},
		{"", 0},
		{nil, 0},
	}
	for _, c := range cases {
		got := importer.NormalizePrice(c.in)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("NormalizePrice(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFilterTransform(t *testing.T) {
	filter := &importer.FilterTransform{Field: "category", Op: "eq", Value: "shoes"}

	if _, keep := filter.Transform(rec(map[string]any{"category": "shoes"})); !keep {
		t.Error("matching record should be kept")
	}
	if _, keep := filter.Transform(rec(map[string]any{"category": "hats"})); keep {
		t.Error("non-matching record should be dropped")
	}
	if _, keep := filter.Transform(rec(map[string]any{"name": "no category"})); keep {
		t.Error("record missing the field should be dropped")
	}

	gt := &importer.FilterTransform{Field: "price", Op: "gt", Value: 10.0}
	if _, keep := gt.Transform(rec(map[string]any{"price": 25.0})); !keep {
		t.Error("25 > 10 should be kept")
	}
	if _, keep := gt.Transform(rec(map[string]any{"price": 5.0})); keep {
		t.Error("5 > 10 should be dropped")
	}

	// Feeds often carry currency-formatted strings; the comparison must
	// parse them, not treat them as zero.
	if _, keep := gt.Transform(rec(map[string]any{"price": "$89.50"})); !keep {
		t.Error(`"$89.50" > 10 should be kept`)
	}
	if _, keep := gt.Transform(rec(map[string]any{"price": "$5.00"})); keep {
		t.Error(`"$5.00" > 10 should be dropped`)
	}
	lt := &importer.FilterTransform{Field: "price", Op: "lt", Value: "100"}
	if _, keep := lt.Transform(rec(map[string]any{"price": "1.299,00 €"})); keep {
		t.Error(`"1.299,00 €" < 100 should be dropped`)
	}
}

func TestRenameTransform(t *testing.T) {
	rename := &importer.RenameTransform{Mapping: map[string]string{
		"product_title": "name",
		"unit_price":    "price",
	}}

	out, keep := rename.Transform(rec(map[string]any{
		"product_title": "Desk Lamp",
		"unit_price":    39.0,
		"sku":           "LAMP-1",
	}))
	if !keep {
		t.Fatal("rename should never drop")
	}
	if out.Data["name"] != "Desk Lamp" || out.Data["price"] != 39.0 {
		t.Errorf("renamed fields missing: %v", out.Data)
	}
	if _, ok := out.Data["product_title"]; ok {
		t.Error("old field name should be gone")
	}
	if out.Data["sku"] != "LAMP-1" {
		t.Error("unmapped fields should pass through")
	}
}

func TestSelectTransform(t *testing.T) {
	sel := &importer.SelectTransform{Fields: []string{"sku", "name"}}
	out, _ := sel.Transform(rec(map[string]any{"sku": "A", "name": "B", "internal_cost": 3.0}))
	if len(out.Data) != 2 {
		t.Errorf("expected 2 fields, got %v", out.Data)
	}
	if _, ok := out.Data["internal_cost"]; ok {
		t.Error("unselected field should be dropped")
	}
}

func TestDedupeTransform(t *testing.T) {
	dedupe := importer.NewDedupeTransform("sku")

	if _, keep := dedupe.Transform(rec(map[string]any{"sku": "A"})); !keep {
		t.Error("first A should be kept")
	}
	if _, keep := dedupe.Transform(rec(map[string]any{"sku": "B"})); !keep {
		t.Error("first B should be kept")
	}
	if _, keep := dedupe.Transform(rec(map[string]any{"sku": "A"})); keep {
		t.Error("second A should be dropped")
	}
}

func TestLimitTransform(t *testing.T) {
	limit := importer.NewLimitTransform(2)
	kept := 0
	for i := 0; i < 5; i++ {
		if _, keep := limit.Transform(rec(map[string]any{"i": i})); keep {
			kept++
		}
	}
	if kept != 2 {
		t.Errorf("expected 2 kept, got %d", kept)
	}
}

func TestDefaultTransform(t *testing.T) {
	def := &importer.DefaultTransform{Defaults: map[string]any{
		"category": "uncategorized",
		"in_stock": true,
	}}

	out, _ := def.Transform(rec(map[string]any{"name": "Mug", "category": ""}))
	if out.Data["category"] != "uncategorized" {
		t.Errorf("empty field should take the default, got %v", out.Data["category"])
	}
	if out.Data["in_stock"] != true {
		t.Error("missing field should take the default")
	}

	out, _ = def.Transform(rec(map[string]any{"name": "Mug", "category": "kitchen"}))
	if out.Data["category"] != "kitchen" {
		t.Error("present field should not be overwritten")
	}
}

func TestBuildTransformersChain(t *testing.T) {
	ts := importer.BuildTransformers([]importer.TransformConfig{
		{Type: "rename", Config: map[string]any{"mapping": map[string]any{"title": "name"}}},
		{Type: "filter", Config: map[string]any{"field": "price", "op": "gt", "value": 0}},
		{Type: "normalize_price", Config: map[string]any{}},
	}, "sku")

	// rename + filter + normalize_price + dedupe appended last
	if len(ts) != 4 {
		t.Fatalf("expected 4 transformers, got %d", len(ts))
	}

	out, keep := importer.ApplyTransformers(rec(map[string]any{
		"title": "Boots",
		"sku":   "BOOT-1",
		"price": "$89.50",
	}), ts)
	if !keep {
		t.Fatal("record should survive the chain")
	}
	if out.Data["name"] != "Boots" {
		t.Errorf("rename did not apply: %v", out.Data)
	}
	if out.Data["price"] != 89.50 {
		t.Errorf("price not normalized: %v", out.Data["price"])
	}

	// Same SKU again is deduped.
	if _, keep := importer.ApplyTransformers(rec(map[string]any{
		"title": "Boots v2",
		"sku":   "BOOT-1",
		"price": "10",
	}), ts); keep {
		t.Error("duplicate SKU should be dropped by the chain")
	}

	// Zero price fails the filter.
	if _, keep := importer.ApplyTransformers(rec(map[string]any{
		"title": "Freebie",
		"sku":   "FREE-1",
		"price": "0",
	}), ts); keep {
		t.Error("zero price should be filtered out")
	}
}
