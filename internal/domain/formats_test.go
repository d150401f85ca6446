package domain

import "testing"

// TestParseFormatsValidatesAndDeduplicates checks set semantics.
func TestParseFormatsValidatesAndDeduplicates(t *testing.T) {
	formats, err := ParseFormats([]string{"TXT", "srt", "txt", " vtt "})
	if err != nil {
		t.Fatalf("ParseFormats() error = %v", err)
	}
	want := []OutputFormat{FormatText, FormatSRT, FormatVTT}
	if len(formats) != len(want) {
		t.Fatalf("formats = %v, want %v", formats, want)
	}
	for i, format := range formats {
		if format != want[i] {
			t.Fatalf("formats = %v, want %v", formats, want)
		}
	}
}

// TestParseFormatsRejectsEmpty checks the non-empty invariant.
func TestParseFormatsRejectsEmpty(t *testing.T) {
	if _, err := ParseFormats(nil); err == nil {
		t.Fatal("expected error for empty format list")
	}
}

// TestParseFormatsRejectsUnknown checks the supported-subset invariant.
func TestParseFormatsRejectsUnknown(t *testing.T) {
	if _, err := ParseFormats([]string{"txt", "docx"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

// TestCanonicalFormatOrder pins the fixed export processing order.
func TestCanonicalFormatOrder(t *testing.T) {
	want := []OutputFormat{FormatText, FormatSRT, FormatVTT, FormatHTML, FormatMarkdown, FormatJSON}
	if len(CanonicalFormatOrder) != len(want) {
		t.Fatalf("order = %v, want %v", CanonicalFormatOrder, want)
	}
	for i, format := range CanonicalFormatOrder {
		if format != want[i] {
			t.Fatalf("order = %v, want %v", CanonicalFormatOrder, want)
		}
	}
}

// TestParseModelTier checks tier validation and normalization.
func TestParseModelTier(t *testing.T) {
	tier, err := ParseModelTier(" Base ")
	if err != nil {
		t.Fatalf("ParseModelTier() error = %v", err)
	}
	if tier != ModelTierBase {
		t.Fatalf("tier = %s, want base", tier)
	}

	if _, err := ParseModelTier("enormous"); err == nil {
		t.Fatal("expected error for unknown tier")
	}
}

// TestModelCatalogCoversAllTiers checks every tier resolves to a preset.
func TestModelCatalogCoversAllTiers(t *testing.T) {
	for _, tier := range []ModelTier{ModelTierTiny, ModelTierBase, ModelTierSmall, ModelTierMedium, ModelTierLarge} {
		model, ok := ModelByTier(tier)
		if !ok {
			t.Fatalf("no catalog entry for tier %s", tier)
		}
		if model.FileName == "" || model.URL == "" {
			t.Fatalf("incomplete catalog entry: %+v", model)
		}
	}
}
