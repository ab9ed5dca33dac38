package bindit

import (
	"context"
	"testing"
)

func TestBinding_SetAndValue(t *testing.T) {
	ctx := context.Background()
	store := New()
	b := store.Bind("user.name", Config{Transform: Trim})

	if err := b.Set(ctx, "  ada  "); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok := b.Value()
	if !ok || v != "ada" {
		t.Errorf("expected ada, got %v exists=%v", v, ok)
	}
	if b.Path() != "user.name" {
		t.Errorf("expected path user.name, got %s", b.Path())
	}
}

func TestBinding_ViewSharesBoundConfig(t *testing.T) {
	ctx := context.Background()
	store := New()
	store.Bind("email", Config{Transform: Lower})

	view := store.View("email")
	if err := view.Set(ctx, "ADA@EXAMPLE.COM"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, _ := view.Value(); v != "ada@example.com" {
		t.Errorf("expected view writes to use bound transform, got %v", v)
	}
}

func TestBinding_RebindReplacesConfig(t *testing.T) {
	ctx := context.Background()
	store := New()
	store.Bind("f", Config{Transform: Upper})
	store.Bind("f", Config{Transform: Lower})

	_ = store.Write(ctx, "f", "MiXeD")
	if v, _ := store.Read("f"); v != "mixed" {
		t.Errorf("expected latest config to win, got %v", v)
	}
}

func TestBinding_ErrAndValid(t *testing.T) {
	ctx := context.Background()
	store := New()
	b := store.Bind("email", Config{Validator: All(Required, Email)})

	// Absent reads as nil, so Required fails.
	if b.Valid() {
		t.Error("expected absent required field to be invalid")
	}
	if err := b.Err(); err == nil || err.Error() != "This field is required" {
		t.Errorf("expected required message, got %v", err)
	}

	_ = b.Set(ctx, "ada@example.com")
	if !b.Valid() {
		t.Errorf("expected valid, got %v", b.Err())
	}
}

func TestBinding_NoValidatorAlwaysValid(t *testing.T) {
	store := New()
	b := store.View("anything")
	if !b.Valid() || b.Err() != nil {
		t.Error("expected unvalidated binding to be valid")
	}
}

func TestBinding_Derive_SiblingPath(t *testing.T) {
	store := New()
	b := store.Bind("profile.name", Config{})

	d := b.Derive(Upper)
	if d.Path() != "profile.name_transformed" {
		t.Errorf("expected sibling slot, got %s", d.Path())
	}
}

func TestBinding_Derive_IndependentStorage(t *testing.T) {
	ctx := context.Background()
	store := New()
	b := store.Bind("name", Config{})
	d := b.Derive(Upper)

	// The derived slot starts absent and parent writes do not prime it.
	_ = b.Set(ctx, "ada")
	if _, ok := d.Value(); ok {
		t.Error("expected derived slot to stay absent after parent write")
	}

	// Writing the derived slot does not touch the parent.
	_ = d.Set(ctx, "grace")
	if v, _ := b.Value(); v != "ada" {
		t.Errorf("expected parent untouched, got %v", v)
	}
	if v, _ := d.Value(); v != "GRACE" {
		t.Errorf("expected derived transform applied, got %v", v)
	}
}

func TestBinding_Derive_ComposesParentTransform(t *testing.T) {
	ctx := context.Background()
	store := New()
	b := store.Bind("title", Config{Transform: Trim})
	d := b.Derive(Upper)

	_ = d.Set(ctx, "  hello  ")
	if v, _ := d.Value(); v != "HELLO" {
		t.Errorf("expected trim then upper, got %q", v)
	}
}

func TestBinding_Derive_InheritsValidator(t *testing.T) {
	ctx := context.Background()
	store := New()
	b := store.Bind("email", Config{Validator: Email})
	d := b.Derive(Lower)

	_ = d.Set(ctx, "BAD")
	if d.Valid() {
		t.Error("expected derived slot to inherit the validator")
	}
}
