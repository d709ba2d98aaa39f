package validator

import "testing"

func TestDaanaDate(t *testing.T) {
	type form struct {
		ExpDate string `validate:"required,daana_date"`
	}

	valid := []string{"2025-01-01", "2026-12-31", "2024-02-29"}
	for _, d := range valid {
		if errs := ValidateStruct(&form{ExpDate: d}); len(errs) != 0 {
			t.Fatalf("%q: want valid, got %+v", d, errs[0])
		}
	}

	invalid := []string{"2025-13-01", "2025-02-30", "01/31/2025", "20250101", "not a date"}
	for _, d := range invalid {
		errs := ValidateStruct(&form{ExpDate: d})
		if len(errs) == 0 {
			t.Fatalf("%q: want rejection", d)
		}
		if errs[0].Tag != "daana_date" {
			t.Fatalf("%q: want daana_date failure, got %s", d, errs[0].Tag)
		}
	}
}

func TestValidateStructReportsFieldAndTag(t *testing.T) {
	type form struct {
		Name string `validate:"required"`
		Qty  int    `validate:"gt=0"`
	}

	errs := ValidateStruct(&form{})
	if len(errs) != 2 {
		t.Fatalf("want 2 errors, got %d", len(errs))
	}
	if errs[0].Tag != "required" || errs[1].Tag != "gt" {
		t.Fatalf("unexpected tags: %s, %s", errs[0].Tag, errs[1].Tag)
	}
}
